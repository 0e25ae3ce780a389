// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/courtdesk/internal/platform/apperr"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
)

// # Messages

const (
	msgInvalidCredentials = "Invalid username or password"
	msgInvalidToken       = "The server returned an invalid session token"
	msgSuperseded         = "Login was replaced by a newer attempt"
)

// # Manager

// Manager owns one user's session and its persisted mirror.
//
// # Concurrency
//
// All methods are safe for concurrent use. Overlapping [Manager.Login] calls
// follow cancel-and-replace: starting a login cancels the one in flight, and
// only the newest attempt may write state. [Manager.Logout] also cancels an
// in-flight login so it cannot resurrect the session afterwards. A
// [Manager.Rehydrate] that overlaps a login or logout yields to its result.
type Manager struct {
	authenticator Authenticator
	storage       Storage
	logger        *slog.Logger
	clock         func() time.Time

	mu          sync.Mutex
	current     *Session
	generation  uint64
	revision    uint64
	cancelLogin context.CancelFunc
}

// Option customises a [Manager].
type Option func(*Manager)

// WithClock overrides the wall clock used for expiry checks.
func WithClock(clock func() time.Time) Option {
	return func(manager *Manager) {
		manager.clock = clock
	}
}

// NewManager constructs a manager with no session loaded.
// Call [Manager.Rehydrate] to restore persisted state.
func NewManager(authenticator Authenticator, storage Storage, logger *slog.Logger, options ...Option) *Manager {
	manager := &Manager{
		authenticator: authenticator,
		storage:       storage,
		logger:        logger,
		clock:         time.Now,
	}
	for _, option := range options {
		option(manager)
	}
	return manager
}

// Close tears the manager down, aborting any login in flight.
// Persisted state is left untouched.
func (manager *Manager) Close() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.abortLoginLocked()
}

// # Rehydration

/*
Rehydrate restores the session from storage.

Description: A present, unexpired token yields a session whose role and
permissions are decoded from the token. Anything else clears storage. A
persisted user record naming another user than the token is ignored. If a
login or logout completes while Rehydrate runs, its state is kept and returned.

Parameters:
  - ctx: context.Context

Returns:
  - *Session: The restored session
  - error: ErrNoSession when nothing valid was stored, or storage failures
*/
func (manager *Manager) Rehydrate(ctx context.Context) (*Session, error) {
	revision := manager.currentRevision()

	token, found, err := manager.storage.Get(ctx, KeyToken)
	if err != nil {
		return nil, fmt.Errorf("session: read token: %w", err)
	}

	payload, decoded := sec.DecodePayload(token)
	if !found || !decoded || sec.IsPayloadExpired(payload, manager.clock()) {
		if found {
			manager.logger.Info("session_discarded", slog.Bool("decodable", decoded))
		}
		return manager.discardUnlessChanged(ctx, revision)
	}

	identity := sec.IdentityFromPayload(payload)
	session := buildSession(token, payload, manager.readUser(ctx, identity.UserID))

	manager.mu.Lock()
	if revision != manager.revision {
		manager.mu.Unlock()
		return manager.settled()
	}
	manager.current = session
	manager.mu.Unlock()

	manager.logger.Debug("session_rehydrated",
		slog.String("user_id", session.UserID),
		slog.String("role", string(session.Role)),
	)

	return session.clone(), nil
}

// discardUnlessChanged clears state read as invalid at revision. When a login
// or logout ran since, their state stands and is returned instead.
func (manager *Manager) discardUnlessChanged(ctx context.Context, revision uint64) (*Session, error) {
	manager.mu.Lock()
	if revision != manager.revision {
		manager.mu.Unlock()
		return manager.settled()
	}
	manager.current = nil
	err := manager.deletePersisted(ctx)
	manager.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return nil, ErrNoSession
}

// settled reports the state left by a newer login or logout.
func (manager *Manager) settled() (*Session, error) {
	if current := manager.Current(); current != nil {
		return current, nil
	}
	return nil, ErrNoSession
}

// readUser loads the persisted user record. A missing or corrupt record is not
// fatal; identity then falls back to token claims. A record that names a
// different user than tokenUserID is ignored the same way.
func (manager *Manager) readUser(ctx context.Context, tokenUserID string) User {
	raw, found, err := manager.storage.Get(ctx, KeyUser)
	if err != nil || !found {
		return User{}
	}

	var record UserRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		manager.logger.Warn("session_user_record_corrupt", slog.Any("error", err))
		return User{}
	}

	if record.ID != "" && tokenUserID != "" && record.ID != tokenUserID {
		manager.logger.Warn("session_user_record_mismatch",
			slog.String("record_id", record.ID),
			slog.String("token_user_id", tokenUserID),
		)
		return User{}
	}

	return User{ID: record.ID, Username: record.Username, Email: record.Email}
}

// # Login & Logout

/*
Login authenticates and establishes a new session.

Description: The returned error is always an [*apperr.AppError]:
UNAUTHORIZED for rejected credentials or an unusable token,
UPSTREAM_UNREACHABLE for transport failures and LOGIN_SUPERSEDED when a
newer login or a logout replaced this attempt.

Parameters:
  - ctx: context.Context
  - identifier: Username or email
  - secret: Password

Returns:
  - *Session: The new session
  - error: *apperr.AppError
*/
func (manager *Manager) Login(ctx context.Context, identifier, secret string) (*Session, error) {
	attemptCtx, cancel, generation := manager.beginLogin(ctx)
	defer manager.finishLogin(generation, cancel)

	response, err := manager.authenticator.Authenticate(attemptCtx, identifier, secret)
	if err != nil {
		return nil, manager.loginFailure(generation, err)
	}

	payload, ok := sec.DecodePayload(response.Token)
	if !ok || sec.IsPayloadExpired(payload, manager.clock()) {
		manager.logger.Warn("login_token_unusable", slog.Bool("decodable", ok))
		return nil, apperr.Unauthorized(msgInvalidToken)
	}

	session := buildSession(response.Token, payload, response.User)

	manager.mu.Lock()
	defer manager.mu.Unlock()

	if generation != manager.generation {
		return nil, apperr.Superseded(msgSuperseded)
	}

	manager.revision++
	if err := manager.persist(attemptCtx, session); err != nil {
		// The previous token is already gone from storage.
		manager.current = nil
		return nil, apperr.Internal(err)
	}
	manager.current = session

	manager.logger.Info("login_succeeded",
		slog.String("user_id", session.UserID),
		slog.String("role", string(session.Role)),
		slog.Int("permissions", len(session.Permissions)),
	)

	return session.clone(), nil
}

// loginFailure classifies an authenticator error.
func (manager *Manager) loginFailure(generation uint64, err error) error {
	manager.mu.Lock()
	superseded := generation != manager.generation
	manager.mu.Unlock()

	if superseded && errors.Is(err, context.Canceled) {
		return apperr.Superseded(msgSuperseded)
	}

	if appError := apperr.As(err); appError != nil && appError.HTTPStatus >= 400 && appError.HTTPStatus < 500 {
		message := appError.Message
		if message == "" {
			message = msgInvalidCredentials
		}
		manager.logger.Info("login_rejected", slog.Int("status", appError.HTTPStatus))
		rejected := apperr.Unauthorized(message)
		rejected.Cause = appError
		return rejected
	}

	manager.logger.Warn("login_unreachable", slog.Any("error", err))
	return apperr.Unreachable(err)
}

// persist drops the previous token, writes the user record, then the new token.
// The token is the commit marker: a failure before the last write leaves no
// token and therefore no session on the next rehydration.
func (manager *Manager) persist(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session.record())
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}

	if err := manager.storage.Delete(ctx, KeyToken); err != nil {
		return fmt.Errorf("session: drop previous token: %w", err)
	}

	if err := manager.storage.Set(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("session: write user: %w", err)
	}

	if err := manager.storage.Set(ctx, KeyToken, session.Token); err != nil {
		return fmt.Errorf("session: write token: %w", err)
	}

	return nil
}

/*
Logout ends the session.

Description: The server is asked to invalidate the token on a best-effort basis;
local state is cleared regardless. Calling Logout without a session is a no-op
apart from clearing storage.

Returns:
  - error: Storage failures only
*/
func (manager *Manager) Logout(ctx context.Context) error {
	manager.mu.Lock()
	manager.abortLoginLocked()
	token := ""
	if manager.current != nil {
		token = manager.current.Token
	}
	manager.mu.Unlock()

	if token == "" {
		token, _, _ = manager.storage.Get(ctx, KeyToken)
	}

	if token != "" {
		if err := manager.authenticator.Invalidate(ctx, token); err != nil {
			manager.logger.Warn("logout_invalidate_failed", slog.Any("error", err))
		}
	}

	if err := manager.clear(ctx); err != nil {
		return err
	}

	manager.logger.Info("logout_completed")
	return nil
}

// ForceLogout clears the session without contacting the server, used when the
// server has already rejected the token.
func (manager *Manager) ForceLogout(ctx context.Context, reason string) error {
	manager.mu.Lock()
	manager.abortLoginLocked()
	manager.mu.Unlock()

	manager.logger.Info("session_forced_logout", slog.String("reason", reason))
	return manager.clear(ctx)
}

// clear drops the in-memory session and deletes both persisted keys.
// Memory is cleared even if storage fails.
func (manager *Manager) clear(ctx context.Context) error {
	manager.mu.Lock()
	manager.current = nil
	manager.mu.Unlock()

	return manager.deletePersisted(ctx)
}

func (manager *Manager) deletePersisted(ctx context.Context) error {
	return errors.Join(
		wrapStorage("delete token", manager.storage.Delete(ctx, KeyToken)),
		wrapStorage("delete user", manager.storage.Delete(ctx, KeyUser)),
	)
}

func wrapStorage(action string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("session: %s: %w", action, err)
}

// # Login Sequencing

// currentRevision reads the state revision under mu.
func (manager *Manager) currentRevision() uint64 {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.revision
}

// beginLogin cancels any login in flight and starts a new generation.
func (manager *Manager) beginLogin(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	manager.abortLoginLocked()

	attemptCtx, cancel := context.WithCancel(ctx)
	manager.cancelLogin = cancel
	return attemptCtx, cancel, manager.generation
}

// finishLogin releases the attempt's context.
func (manager *Manager) finishLogin(generation uint64, cancel context.CancelFunc) {
	cancel()

	manager.mu.Lock()
	defer manager.mu.Unlock()
	if generation == manager.generation {
		manager.cancelLogin = nil
	}
}

// abortLoginLocked bumps the generation and cancels the in-flight login.
// The caller must hold mu.
func (manager *Manager) abortLoginLocked() {
	manager.generation++
	manager.revision++
	if manager.cancelLogin != nil {
		manager.cancelLogin()
		manager.cancelLogin = nil
	}
}

// # Reads

// Current returns a copy of the session, or nil when signed out.
// A session whose token expired since login is dropped from memory.
func (manager *Manager) Current() *Session {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.current == nil {
		return nil
	}

	if sec.IsTokenExpired(manager.current.Token, manager.clock()) {
		manager.logger.Info("session_expired", slog.String("user_id", manager.current.UserID))
		manager.current = nil
		return nil
	}

	return manager.current.clone()
}

// Token returns the bearer token, or "" when signed out.
func (manager *Manager) Token() string {
	if session := manager.Current(); session != nil {
		return session.Token
	}
	return ""
}

// HasPermission reports whether the current session grants p.
func (manager *Manager) HasPermission(p sec.Permission) bool {
	session := manager.Current()
	return session != nil && session.Permissions.Has(p)
}

// HasAnyPermission reports whether the current session grants any of ps.
func (manager *Manager) HasAnyPermission(ps ...sec.Permission) bool {
	session := manager.Current()
	return session != nil && session.Permissions.HasAny(ps...)
}
