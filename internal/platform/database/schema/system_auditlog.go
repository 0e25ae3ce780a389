// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the console's own database objects.
package schema

// SystemAuditLogTable represents the 'system.auditlog' table
type SystemAuditLogTable struct {
	Table      string
	ID         string
	ActorID    string
	ActorRole  string
	Action     string
	EntityType string
	EntityID   string
	After      string
	IPAddress  string
	RequestID  string
	CreatedAt  string
}

var SystemAuditLog = SystemAuditLogTable{
	Table:      "system.auditlog",
	ID:         "id",
	ActorID:    "actorid",
	ActorRole:  "actorrole",
	Action:     "action",
	EntityType: "entitytype",
	EntityID:   "entityid",
	After:      "after",
	IPAddress:  "ipaddress",
	RequestID:  "requestid",
	CreatedAt:  "createdat",
}
