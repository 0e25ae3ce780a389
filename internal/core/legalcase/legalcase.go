// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package legalcase manages court cases: intake, editing, status tracking and
removal, against the case-management API's /legal-cases resource.
*/
package legalcase

import (
	"time"

	"github.com/taibuivan/courtdesk/internal/upstream"
)

// # Status

// CaseStatus is the lifecycle state of a case.
type CaseStatus string

const (
	// StatusUnknown covers an empty or unrecognised status from the API.
	StatusUnknown CaseStatus = ""

	StatusPending    CaseStatus = "PENDING"
	StatusAccepted   CaseStatus = "ACCEPTED"
	StatusInProgress CaseStatus = "IN_PROGRESS"
	StatusSuspended  CaseStatus = "SUSPENDED"
	StatusDecided    CaseStatus = "DECIDED"
	StatusClosed     CaseStatus = "CLOSED"
)

// AllStatuses lists the statuses in lifecycle order.
func AllStatuses() []CaseStatus {
	return []CaseStatus{
		StatusPending,
		StatusAccepted,
		StatusInProgress,
		StatusSuspended,
		StatusDecided,
		StatusClosed,
	}
}

// Valid reports whether status is a known, non-empty value.
func (status CaseStatus) Valid() bool {
	return status.Label() != labelUnknown
}

// Label returns the display name of status.
func (status CaseStatus) Label() string {
	switch status {
	case StatusPending:
		return "Pending"
	case StatusAccepted:
		return "Accepted"
	case StatusInProgress:
		return "In progress"
	case StatusSuspended:
		return "Suspended"
	case StatusDecided:
		return "Decided"
	case StatusClosed:
		return "Closed"
	default:
		return labelUnknown
	}
}

const labelUnknown = "Unknown"

// # Entities

// LegalCase is one court case as returned by the API.
type LegalCase struct {
	ID               upstream.ID `json:"id"`
	CaseNumber       string      `json:"case_number"`
	Title            string      `json:"title"`
	Plaintiff        string      `json:"plaintiff,omitempty"`
	Defendant        string      `json:"defendant,omitempty"`
	RelationshipCode string      `json:"relationship_code,omitempty"`
	DecisionTypeCode string      `json:"decision_type_code,omitempty"`
	BatchID          upstream.ID `json:"batch_id,omitempty"`
	Status           CaseStatus  `json:"status"`
	StatusLabel      string      `json:"status_label"`
	AcceptedDate     string      `json:"accepted_date,omitempty"`
	DecidedDate      string      `json:"decided_date,omitempty"`
	CreatedAt        *time.Time  `json:"created_at,omitempty"`
	UpdatedAt        *time.Time  `json:"updated_at,omitempty"`
}

// Input is the writable part of a case.
type Input struct {
	CaseNumber       string     `json:"case_number"`
	Title            string     `json:"title"`
	Plaintiff        string     `json:"plaintiff,omitempty"`
	Defendant        string     `json:"defendant,omitempty"`
	RelationshipCode string     `json:"relationship_code,omitempty"`
	DecisionTypeCode string     `json:"decision_type_code,omitempty"`
	BatchID          string     `json:"batch_id,omitempty"`
	Status           CaseStatus `json:"status,omitempty"`
	AcceptedDate     string     `json:"accepted_date,omitempty"`
	DecidedDate      string     `json:"decided_date,omitempty"`
}

// Filter narrows a case listing.
type Filter struct {
	Query    string
	Statuses []CaseStatus
	BatchID  string
}

// # Validation Fields

const (
	FieldCaseNumber       = "case_number"
	FieldTitle            = "title"
	FieldPlaintiff        = "plaintiff"
	FieldDefendant        = "defendant"
	FieldRelationshipCode = "relationship_code"
	FieldStatus           = "status"
	FieldAcceptedDate     = "accepted_date"
	FieldDecidedDate      = "decided_date"
)
