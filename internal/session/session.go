// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns the signed-in user's state for a Courtdesk front-end.

A [Manager] holds the current [Session] in memory and mirrors it to a string-keyed
[Storage] (Redis for the console, a bbolt file for the CLI, a map in tests) so it
survives restarts. It is constructed explicitly and injected; there is no
package-level session.

Lifecycle:

  - Rehydrate: one-shot restore from storage at start-up (or per console request).
  - Login: authenticate, decode the token, derive role + permissions, persist.
  - Logout: best-effort server invalidation, then unconditional local clear.
  - ForceLogout: local clear after the server rejected the token (HTTP 401).

Role and permissions are always derived from the token itself, never trusted
from the persisted user record.
*/
package session

import (
	"context"
	"errors"
	"slices"

	"github.com/taibuivan/courtdesk/internal/platform/sec"
)

// # Persisted Layout

const (
	// KeyToken holds the raw bearer token.
	KeyToken = "token"

	// KeyUser holds the JSON-serialised [UserRecord].
	KeyUser = "user"
)

// ErrNoSession is returned by [Manager.Rehydrate] when nothing valid is persisted.
var ErrNoSession = errors.New("session: no active session")

// # Types

// Session is the authenticated state of one user.
type Session struct {
	UserID      string            `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email,omitempty"`
	Role        sec.UserRole      `json:"role"`
	Permissions sec.PermissionSet `json:"permissions"`

	// Token is the opaque bearer credential. It is never serialised to clients.
	Token string `json:"-"`
}

// clone returns a deep copy so callers cannot mutate manager state.
func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	copied := *s
	copied.Permissions = slices.Clone(s.Permissions)
	return &copied
}

// UserRecord is the user blob stored under [KeyUser].
type UserRecord struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// record converts the session into its persisted form.
func (s *Session) record() UserRecord {
	return UserRecord{
		ID:          s.UserID,
		Username:    s.Username,
		Email:       s.Email,
		Role:        string(s.Role),
		Permissions: s.Permissions.Strings(),
	}
}

// User is the identity returned by the authentication collaborator.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse is a successful authentication result.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// # Collaborators

// Authenticator is the server-side authentication boundary.
type Authenticator interface {
	// Authenticate exchanges credentials for a bearer token.
	//
	// Credential rejections must be returned as an [*apperr.AppError] carrying
	// a 4xx status; any other error is treated as a transport failure.
	Authenticate(ctx context.Context, identifier, secret string) (*LoginResponse, error)

	// Invalidate revokes token on the server. Failures are tolerated.
	Invalidate(ctx context.Context, token string) error
}

// Storage is a string-keyed persistent store, the server-side stand-in for
// browser local storage.
type Storage interface {
	// Get returns the value for key; found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// buildSession derives a session from a decoded token and identity hints.
//
// Identity fields prefer the explicit user over token claims.
func buildSession(token string, payload sec.Payload, user User) *Session {
	identity := sec.IdentityFromPayload(payload)
	role := sec.RoleFromPayload(payload)

	return &Session{
		UserID:      firstNonEmpty(user.ID, identity.UserID),
		Username:    firstNonEmpty(user.Username, identity.Username),
		Email:       firstNonEmpty(user.Email, identity.Email),
		Role:        role,
		Permissions: sec.PermissionsForRole(role),
		Token:       token,
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
