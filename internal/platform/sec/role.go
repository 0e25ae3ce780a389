// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # User Roles

// UserRole is the coarse-grained category carried in a token's role claim.
type UserRole string

const (
	// RoleNone is the fail-closed result for a missing or unrecognised role claim.
	RoleNone UserRole = ""

	// Unrestricted system access, including the audit trail
	RoleAdmin UserRole = "ADMIN"

	// Reviews cases and records decisions; cannot alter reference data
	RoleJudge UserRole = "JUDGE"

	// Registers cases, imports batches and maintains reference data
	RoleClerk UserRole = "CLERK"

	// Read access to cases and reference data for counsel
	RoleLawyer UserRole = "LAWYER"

	// Read-only access to cases
	RoleUser UserRole = "USER"
)

// rolePrefix is the Spring-style convention some issuers put in front of role names.
const rolePrefix = "ROLE_"

// roleClaims are the payload keys that may carry the role, in lookup order.
var roleClaims = []string{"role", "scope"}

// AllRoles lists the fixed role enum in display order.
func AllRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleJudge, RoleClerk, RoleLawyer, RoleUser}
}

// ParseRole canonicalises a raw role string.
//
// It trims whitespace, strips a leading "ROLE_" (any case), uppercases, and
// returns [RoleNone] when the result is not one of the fixed roles.
func ParseRole(raw string) UserRole {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, rolePrefix)

	switch role := UserRole(normalized); role {
	case RoleAdmin, RoleJudge, RoleClerk, RoleLawyer, RoleUser:
		return role
	default:
		return RoleNone
	}
}

// Valid reports whether the role is part of the fixed enum.
func (r UserRole) Valid() bool {
	return r != RoleNone && ParseRole(string(r)) == r
}

// Label returns a display name for the role.
func (r UserRole) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleJudge:
		return "Judge"
	case RoleClerk:
		return "Court clerk"
	case RoleLawyer:
		return "Lawyer"
	case RoleUser:
		return "User"
	default:
		return "Unknown"
	}
}

// # Resolution

// RoleFromPayload reads the role claim (falling back to "scope") and resolves it.
//
// The claim may be a string or an array whose first string element is used.
func RoleFromPayload(payload Payload) UserRole {
	for _, claim := range roleClaims {
		raw, ok := claimString(payload[claim])
		if !ok {
			continue
		}
		return ParseRole(raw)
	}
	return RoleNone
}

// RoleFromToken decodes token and resolves its role.
func RoleFromToken(token string) UserRole {
	payload, ok := DecodePayload(token)
	if !ok {
		return RoleNone
	}
	return RoleFromPayload(payload)
}

// claimString reads a non-empty string out of a raw claim value.
func claimString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}
