// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth signs console users in and out.

Credentials are checked by the case-management API. This package binds the
resulting session to the browser cookie and reports who is signed in.
*/
package auth

import (
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/internal/session"
)

// Profile is the client view of a session. The bearer token never leaves
// the server.
type Profile struct {
	ID          string           `json:"id"`
	Username    string           `json:"username"`
	Email       string           `json:"email,omitempty"`
	Role        sec.UserRole     `json:"role"`
	RoleLabel   string           `json:"role_label"`
	Permissions []sec.Permission `json:"permissions"`
}

// ProfileOf builds the client view of current.
func ProfileOf(current *session.Session) Profile {
	permissions := []sec.Permission(current.Permissions)
	if permissions == nil {
		permissions = []sec.Permission{}
	}

	return Profile{
		ID:          current.UserID,
		Username:    current.Username,
		Email:       current.Email,
		Role:        current.Role,
		RoleLabel:   current.Role.Label(),
		Permissions: permissions,
	}
}
