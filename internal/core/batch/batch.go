// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package batch manages intake batches: groups of cases received together and
loaded from an Excel workbook in one import.
*/
package batch

import (
	"time"

	"github.com/taibuivan/courtdesk/internal/upstream"
)

// # Status

// BatchStatus is the import state of a batch.
type BatchStatus string

const (
	// StatusUnknown covers an empty or unrecognised status from the API.
	StatusUnknown BatchStatus = ""

	StatusDraft     BatchStatus = "DRAFT"
	StatusImporting BatchStatus = "IMPORTING"
	StatusCompleted BatchStatus = "COMPLETED"
	StatusPartial   BatchStatus = "PARTIAL"
	StatusFailed    BatchStatus = "FAILED"
)

// Label returns the display name of status.
func (status BatchStatus) Label() string {
	switch status {
	case StatusDraft:
		return "Draft"
	case StatusImporting:
		return "Importing"
	case StatusCompleted:
		return "Completed"
	case StatusPartial:
		return "Partially imported"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// # Entities

// Batch is one intake batch as returned by the API.
type Batch struct {
	ID           upstream.ID `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	ReceivedDate string      `json:"received_date,omitempty"`
	Status       BatchStatus `json:"status"`
	StatusLabel  string      `json:"status_label"`
	CaseCount    int         `json:"case_count"`
	CreatedAt    *time.Time  `json:"created_at,omitempty"`
}

// Input is the writable part of a batch.
type Input struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ReceivedDate string `json:"received_date,omitempty"`
}

// Filter narrows a batch listing.
type Filter struct {
	Query  string
	Status BatchStatus
}

// # Import

// Row is one case parsed from a workbook. Row is the 1-based sheet row.
type Row struct {
	Row              int    `json:"row"`
	CaseNumber       string `json:"case_number"`
	Title            string `json:"title"`
	Plaintiff        string `json:"plaintiff,omitempty"`
	Defendant        string `json:"defendant,omitempty"`
	RelationshipCode string `json:"relationship_code,omitempty"`
	AcceptedDate     string `json:"accepted_date,omitempty"`
}

// RowError is a rejected workbook row.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportReport summarises an import: rows the API accepted plus every row
// rejected locally or by the API, ordered by row.
type ImportReport struct {
	BatchID  upstream.ID `json:"batch_id"`
	Total    int         `json:"total"`
	Imported int         `json:"imported"`
	Rejected []RowError  `json:"rejected"`
}

// # Validation Fields

const (
	FieldName             = "name"
	FieldDescription      = "description"
	FieldReceivedDate     = "received_date"
	FieldFile             = "file"
	FieldCaseNumber       = "case_number"
	FieldTitle            = "title"
	FieldPlaintiff        = "plaintiff"
	FieldDefendant        = "defendant"
	FieldRelationshipCode = "relationship_code"
	FieldAcceptedDate     = "accepted_date"
)
