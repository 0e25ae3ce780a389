// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"slices"
	"strings"
)

// # Permissions

// Permission is a fine-grained capability flag gating one console action or view.
type Permission string

const (
	PermUnknown Permission = ""

	// Legal cases
	PermViewLegalCase   Permission = "VIEW_LEGAL_CASE"
	PermCreateLegalCase Permission = "CREATE_LEGAL_CASE"
	PermEditLegalCase   Permission = "EDIT_LEGAL_CASE"
	PermDeleteLegalCase Permission = "DELETE_LEGAL_CASE"

	// Reference data: legal relationships, decision types
	PermManageCaseData Permission = "MANAGE_CASE_DATA"

	// Import batches
	PermViewBatch   Permission = "VIEW_BATCH"
	PermImportBatch Permission = "IMPORT_BATCH"
	PermDeleteBatch Permission = "DELETE_BATCH"

	// Read access to reference data
	PermViewLegalRelationship Permission = "VIEW_LEGAL_RELATIONSHIP"
	PermViewDecisionType      Permission = "VIEW_DECISION_TYPE"

	// Notifications
	PermViewNotification   Permission = "VIEW_NOTIFICATION"
	PermManageNotification Permission = "MANAGE_NOTIFICATION"

	// Audit trail
	PermViewAuditLog Permission = "VIEW_AUDIT_LOG"
)

// allPermissions is the global permission enum in canonical order.
var allPermissions = []Permission{
	PermViewLegalCase,
	PermCreateLegalCase,
	PermEditLegalCase,
	PermDeleteLegalCase,
	PermManageCaseData,
	PermViewBatch,
	PermImportBatch,
	PermDeleteBatch,
	PermViewLegalRelationship,
	PermViewDecisionType,
	PermViewNotification,
	PermManageNotification,
	PermViewAuditLog,
}

// rolePermissions is the static role table. It is never mutated; lookups hand
// out copies.
var rolePermissions = map[UserRole][]Permission{
	RoleAdmin: allPermissions,
	RoleJudge: {
		PermViewLegalCase,
		PermEditLegalCase,
		PermViewBatch,
		PermViewLegalRelationship,
		PermViewDecisionType,
		PermViewNotification,
	},
	RoleClerk: {
		PermViewLegalCase,
		PermCreateLegalCase,
		PermEditLegalCase,
		PermManageCaseData,
		PermViewBatch,
		PermImportBatch,
		PermViewLegalRelationship,
		PermViewDecisionType,
		PermViewNotification,
	},
	RoleLawyer: {
		PermViewLegalCase,
		PermViewLegalRelationship,
		PermViewDecisionType,
		PermViewNotification,
	},
	RoleUser: {
		PermViewLegalCase,
		PermViewNotification,
	},
}

// AllPermissions returns a copy of the global permission enum.
func AllPermissions() []Permission {
	return slices.Clone(allPermissions)
}

// ParsePermission maps a raw string onto the enum, returning [PermUnknown]
// for anything not in it.
func ParsePermission(raw string) Permission {
	candidate := Permission(strings.ToUpper(strings.TrimSpace(raw)))
	if slices.Contains(allPermissions, candidate) {
		return candidate
	}
	return PermUnknown
}

// # Permission Sets

// PermissionSet is an ordered, duplicate-free list of permissions.
type PermissionSet []Permission

// Has reports whether p is in the set.
func (set PermissionSet) Has(p Permission) bool {
	return p != PermUnknown && slices.Contains(set, p)
}

// HasAny reports whether at least one of ps is in the set.
// An empty ps is never satisfied.
func (set PermissionSet) HasAny(ps ...Permission) bool {
	for _, p := range ps {
		if set.Has(p) {
			return true
		}
	}
	return false
}

// Strings returns the permission names, used for persistence.
func (set PermissionSet) Strings() []string {
	names := make([]string, len(set))
	for i, p := range set {
		names[i] = string(p)
	}
	return names
}

// # Lookup

// PermissionsForRole returns the role's permission set.
// Unknown roles get an empty set.
func PermissionsForRole(role UserRole) PermissionSet {
	permissions, ok := rolePermissions[role]
	if !ok {
		return PermissionSet{}
	}
	return PermissionSet(slices.Clone(permissions))
}

// PermissionsForToken derives the permission set from a token's role claim.
func PermissionsForToken(token string) PermissionSet {
	return PermissionsForRole(RoleFromToken(token))
}

// HasPermission reports whether token's role grants p.
func HasPermission(token string, p Permission) bool {
	return PermissionsForToken(token).Has(p)
}

// HasAnyPermission reports whether token's role grants at least one of ps.
func HasAnyPermission(token string, ps ...Permission) bool {
	return PermissionsForToken(token).HasAny(ps...)
}
