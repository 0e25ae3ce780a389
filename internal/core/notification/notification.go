// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notification lists the signed-in user's notifications, marks them
read, and lets managers publish notices to roles.
*/
package notification

import (
	"time"

	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/internal/upstream"
)

// # Kind

// NotificationKind tells what a notification is about.
type NotificationKind string

const (
	// KindUnknown covers an empty or unrecognised kind from the API.
	KindUnknown NotificationKind = ""

	KindHearing  NotificationKind = "HEARING"
	KindDeadline NotificationKind = "DEADLINE"
	KindDecision NotificationKind = "DECISION"
	KindImport   NotificationKind = "IMPORT"
	KindSystem   NotificationKind = "SYSTEM"
)

// Label returns the display name of kind.
func (kind NotificationKind) Label() string {
	switch kind {
	case KindHearing:
		return "Hearing"
	case KindDeadline:
		return "Deadline"
	case KindDecision:
		return "Decision"
	case KindImport:
		return "Batch import"
	case KindSystem:
		return "System"
	default:
		return "Unknown"
	}
}

// Valid reports whether kind is a known, non-empty value.
func (kind NotificationKind) Valid() bool {
	return kind != KindUnknown && kind.Label() != KindUnknown.Label()
}

// # Entities

// Notification is one notice as seen by the signed-in user.
type Notification struct {
	ID        upstream.ID      `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	KindLabel string           `json:"kind_label"`
	CaseID    upstream.ID      `json:"case_id,omitempty"`
	Audience  []sec.UserRole   `json:"audience,omitempty"`
	Read      bool             `json:"read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt *time.Time       `json:"created_at,omitempty"`
}

// Input is the writable part of a notification. An empty Audience means
// every role.
type Input struct {
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Kind     NotificationKind `json:"kind"`
	CaseID   string           `json:"case_id,omitempty"`
	Audience []sec.UserRole   `json:"audience,omitempty"`
}

// Filter narrows a notification listing.
type Filter struct {
	UnreadOnly bool
	Kind       NotificationKind
}

const (
	FieldTitle    = "title"
	FieldMessage  = "message"
	FieldKind     = "kind"
	FieldAudience = "audience"
)
