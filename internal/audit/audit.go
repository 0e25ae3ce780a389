// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package audit records every console mutation in system.auditlog and serves
// the audit trail to administrators.
package audit

import (
	"encoding/json"
	"time"
)

// Action names a recorded mutation.
type Action string

const (
	ActionLogin  Action = "login"
	ActionLogout Action = "logout"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionImport Action = "import"
	ActionRead   Action = "mark_read"
)

// Entity types as stored in the log.
const (
	EntitySession           = "session"
	EntityLegalCase         = "legal_case"
	EntityBatch             = "batch"
	EntityLegalRelationship = "legal_relationship"
	EntityDecisionType      = "decision_type"
	EntityNotification      = "notification"
)

// Entry is one row of the audit trail.
type Entry struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actor_id"`
	ActorRole  string          `json:"actor_role"`
	Action     Action          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	IPAddress  string          `json:"ip_address,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Filter narrows an audit listing. Empty fields match everything.
type Filter struct {
	ActorID    string
	EntityType string
	Action     Action
}
