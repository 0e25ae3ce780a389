// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/courtdesk/internal/platform/apperr"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/internal/session"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func issue(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

func validToken(t *testing.T, role string) string {
	return issue(t, jwt.MapClaims{
		"sub":  "judge.dredd",
		"uid":  "u-42",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
}

// fakeAuthenticator scripts the server side of login and logout.
type fakeAuthenticator struct {
	mu          sync.Mutex
	response    *session.LoginResponse
	err         error
	block       chan struct{}
	entered     chan struct{}
	invalidated []string
	invalidErr  error
}

func (fake *fakeAuthenticator) Authenticate(ctx context.Context, _, _ string) (*session.LoginResponse, error) {
	fake.mu.Lock()
	block, response, err := fake.block, fake.response, fake.err
	fake.mu.Unlock()

	if fake.entered != nil {
		fake.entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return response, err
}

func (fake *fakeAuthenticator) Invalidate(_ context.Context, token string) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.invalidated = append(fake.invalidated, token)
	return fake.invalidErr
}

func newManager(fake *fakeAuthenticator, storage session.Storage) *session.Manager {
	return session.NewManager(fake, storage, discard)
}

/*
TestManager_LoginPersistsAndRehydrates checks that a login survives a restart.
*/
func TestManager_LoginPersistsAndRehydrates(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	token := validToken(t, "ROLE_JUDGE")
	fake := &fakeAuthenticator{response: &session.LoginResponse{
		Token: token,
		User:  session.User{ID: "u-42", Username: "dredd", Email: "dredd@court.test"},
	}}

	// 1. Login
	manager := newManager(fake, storage)
	logged, err := manager.Login(ctx, "dredd", "secret")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleJudge, logged.Role)
	assert.Equal(t, "dredd", logged.Username)
	assert.True(t, logged.Permissions.Has(sec.PermViewLegalCase))
	assert.False(t, logged.Permissions.Has(sec.PermManageCaseData))

	// 2. Persisted layout
	stored, found, err := storage.Get(ctx, session.KeyToken)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, token, stored)

	raw, found, err := storage.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	require.True(t, found)
	var record session.UserRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &record))
	assert.Equal(t, "u-42", record.ID)
	assert.Equal(t, "JUDGE", record.Role)

	// 3. A fresh manager over the same storage restores the session
	restored, err := newManager(fake, storage).Rehydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, logged, restored)
}

/*
TestManager_RehydrateFallsBackToClaims covers a token persisted without a user record.
*/
func TestManager_RehydrateFallsBackToClaims(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, session.KeyToken, validToken(t, "CLERK")))

	restored, err := newManager(&fakeAuthenticator{}, storage).Rehydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-42", restored.UserID)
	assert.Equal(t, "judge.dredd", restored.Username)
	assert.Equal(t, sec.RoleClerk, restored.Role)
}

/*
TestManager_RehydrateDiscardsInvalid checks that unusable stored state is cleared.
*/
func TestManager_RehydrateDiscardsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"expired", ""},
		{"garbage", "not-a-token"},
		{"no_exp", ""},
	}
	tests[0].token = issue(t, jwt.MapClaims{"role": "ADMIN", "exp": time.Now().Add(-time.Minute).Unix()})
	tests[2].token = issue(t, jwt.MapClaims{"role": "ADMIN"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := session.NewMemoryStorage()
			require.NoError(t, storage.Set(ctx, session.KeyToken, tt.token))
			require.NoError(t, storage.Set(ctx, session.KeyUser, `{"id":"u-1"}`))

			restored, err := newManager(&fakeAuthenticator{}, storage).Rehydrate(ctx)
			assert.ErrorIs(t, err, session.ErrNoSession)
			assert.Nil(t, restored)

			_, found, _ := storage.Get(ctx, session.KeyToken)
			assert.False(t, found)
			_, found, _ = storage.Get(ctx, session.KeyUser)
			assert.False(t, found)
		})
	}
}

/*
TestManager_RehydrateEmpty returns no session without touching the server.
*/
func TestManager_RehydrateEmpty(t *testing.T) {
	_, err := newManager(&fakeAuthenticator{}, session.NewMemoryStorage()).Rehydrate(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

/*
TestManager_LoginFailures maps server outcomes onto user-facing errors.
*/
func TestManager_LoginFailures(t *testing.T) {
	expired := issue(t, jwt.MapClaims{"role": "ADMIN", "exp": time.Now().Add(-time.Hour).Unix()})

	tests := []struct {
		name    string
		fake    *fakeAuthenticator
		status  int
		code    string
		message string
	}{
		{
			name:    "rejected_credentials",
			fake:    &fakeAuthenticator{err: apperr.FromStatus(http.StatusUnauthorized, "", "Bad credentials")},
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
			message: "Bad credentials",
		},
		{
			name:    "locked_account",
			fake:    &fakeAuthenticator{err: apperr.FromStatus(http.StatusForbidden, "ACCOUNT_LOCKED", "Account locked")},
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
			message: "Account locked",
		},
		{
			name:   "network_failure",
			fake:   &fakeAuthenticator{err: errors.New("dial tcp: connection refused")},
			status: http.StatusBadGateway,
			code:   "UPSTREAM_UNREACHABLE",
		},
		{
			name:   "server_error",
			fake:   &fakeAuthenticator{err: apperr.FromStatus(http.StatusInternalServerError, "", "boom")},
			status: http.StatusBadGateway,
			code:   "UPSTREAM_UNREACHABLE",
		},
		{
			name:    "garbage_token",
			fake:    &fakeAuthenticator{response: &session.LoginResponse{Token: "garbage"}},
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
			message: "The server returned an invalid session token",
		},
		{
			name:    "expired_token",
			fake:    &fakeAuthenticator{response: &session.LoginResponse{Token: expired}},
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
			message: "The server returned an invalid session token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := session.NewMemoryStorage()
			manager := newManager(tt.fake, storage)

			logged, err := manager.Login(ctx, "dredd", "secret")
			require.Error(t, err)
			assert.Nil(t, logged)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, tt.status, appError.HTTPStatus)
			assert.Equal(t, tt.code, appError.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, appError.Message)
			}
			assert.NotContains(t, appError.Message, "connection refused")

			assert.Nil(t, manager.Current())
			_, found, _ := storage.Get(ctx, session.KeyToken)
			assert.False(t, found)
		})
	}
}

/*
TestManager_LogoutIsIdempotent checks that logout clears state and tolerates
server failures and repeated calls.
*/
func TestManager_LogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	token := validToken(t, "ADMIN")
	fake := &fakeAuthenticator{
		response:   &session.LoginResponse{Token: token},
		invalidErr: errors.New("server down"),
	}

	manager := newManager(fake, storage)
	_, err := manager.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	require.True(t, manager.HasPermission(sec.PermDeleteBatch))

	require.NoError(t, manager.Logout(ctx))
	require.NoError(t, manager.Logout(ctx))

	assert.Nil(t, manager.Current())
	assert.Empty(t, manager.Token())
	assert.False(t, manager.HasAnyPermission(sec.PermViewLegalCase))
	assert.Equal(t, []string{token}, fake.invalidated)

	_, found, _ := storage.Get(ctx, session.KeyToken)
	assert.False(t, found)
}

/*
TestManager_LogoutUsesStoredToken invalidates a persisted token that was never rehydrated.
*/
func TestManager_LogoutUsesStoredToken(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	token := validToken(t, "USER")
	require.NoError(t, storage.Set(ctx, session.KeyToken, token))

	fake := &fakeAuthenticator{}
	require.NoError(t, newManager(fake, storage).Logout(ctx))
	assert.Equal(t, []string{token}, fake.invalidated)
}

/*
TestManager_ExpiresWhileSignedIn drops the session once the clock passes exp.
*/
func TestManager_ExpiresWhileSignedIn(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	token := issue(t, jwt.MapClaims{"role": "ADMIN", "exp": now.Add(time.Minute).Unix()})

	clock := now
	manager := session.NewManager(
		&fakeAuthenticator{response: &session.LoginResponse{Token: token}},
		session.NewMemoryStorage(),
		discard,
		session.WithClock(func() time.Time { return clock }),
	)

	_, err := manager.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	require.NotNil(t, manager.Current())

	clock = now.Add(2 * time.Minute)
	assert.Nil(t, manager.Current())
	assert.False(t, manager.HasPermission(sec.PermViewLegalCase))
}

/*
TestManager_NewerLoginSupersedes verifies cancel-and-replace for overlapping logins.
*/
func TestManager_NewerLoginSupersedes(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	fake := &fakeAuthenticator{
		response: &session.LoginResponse{Token: validToken(t, "JUDGE")},
		block:    make(chan struct{}),
		entered:  make(chan struct{}, 2),
	}
	manager := newManager(fake, storage)

	// 1. First attempt hangs on the server
	firstErr := make(chan error, 1)
	go func() {
		_, err := manager.Login(ctx, "first", "secret")
		firstErr <- err
	}()

	// 2. Second attempt starts once the first is in flight
	<-fake.entered

	admin := validToken(t, "ADMIN")
	fake.mu.Lock()
	fake.block = nil
	fake.response = &session.LoginResponse{Token: admin}
	fake.mu.Unlock()

	logged, err := manager.Login(ctx, "second", "secret")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, logged.Role)

	// 3. The first attempt was cancelled and never wrote state
	select {
	case err := <-firstErr:
		assert.Equal(t, "LOGIN_SUPERSEDED", apperr.As(err).Code)
	case <-time.After(time.Second):
		t.Fatal("first login did not return")
	}

	stored, _, _ := storage.Get(ctx, session.KeyToken)
	assert.Equal(t, admin, stored)
	assert.Equal(t, sec.RoleAdmin, manager.Current().Role)
}

/*
TestManager_LogoutAbortsLogin ensures an in-flight login cannot resurrect a
session after logout.
*/
func TestManager_LogoutAbortsLogin(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	fake := &fakeAuthenticator{
		response: &session.LoginResponse{Token: validToken(t, "CLERK")},
		block:    make(chan struct{}),
		entered:  make(chan struct{}, 1),
	}
	manager := newManager(fake, storage)

	done := make(chan error, 1)
	go func() {
		_, err := manager.Login(ctx, "clerk", "secret")
		done <- err
	}()

	<-fake.entered
	require.NoError(t, manager.Logout(ctx))

	select {
	case err := <-done:
		assert.True(t, apperr.HasStatus(err, http.StatusConflict))
	case <-time.After(time.Second):
		t.Fatal("login did not return")
	}

	assert.Nil(t, manager.Current())
	_, found, _ := storage.Get(ctx, session.KeyToken)
	assert.False(t, found)
}

/*
TestManager_ForceLogout clears local state without calling the server.
*/
func TestManager_ForceLogout(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAuthenticator{response: &session.LoginResponse{Token: validToken(t, "LAWYER")}}
	manager := newManager(fake, session.NewMemoryStorage())

	_, err := manager.Login(ctx, "lawyer", "secret")
	require.NoError(t, err)

	require.NoError(t, manager.ForceLogout(ctx, "upstream 401"))
	assert.Nil(t, manager.Current())
	assert.Empty(t, fake.invalidated)
}

/*
TestManager_CurrentReturnsCopy ensures callers cannot mutate manager state.
*/
func TestManager_CurrentReturnsCopy(t *testing.T) {
	ctx := context.Background()
	manager := newManager(
		&fakeAuthenticator{response: &session.LoginResponse{Token: validToken(t, "USER")}},
		session.NewMemoryStorage(),
	)
	_, err := manager.Login(ctx, "user", "secret")
	require.NoError(t, err)

	current := manager.Current()
	current.Role = sec.RoleAdmin
	current.Permissions[0] = sec.PermDeleteBatch

	assert.Equal(t, sec.RoleUser, manager.Current().Role)
	assert.False(t, manager.HasPermission(sec.PermDeleteBatch))
}

// flakyTokenStorage fails token writes while failToken is set.
type flakyTokenStorage struct {
	*session.MemoryStorage
	failToken atomic.Bool
}

func (storage *flakyTokenStorage) Set(ctx context.Context, key, value string) error {
	if key == session.KeyToken && storage.failToken.Load() {
		return errors.New("quota exceeded")
	}
	return storage.MemoryStorage.Set(ctx, key, value)
}

// interleavedStorage runs onTokenRead once, after the first token read has
// been taken but before it is returned.
type interleavedStorage struct {
	*session.MemoryStorage
	once        sync.Once
	onTokenRead func()
}

func (storage *interleavedStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, found, err := storage.MemoryStorage.Get(ctx, key)
	if key == session.KeyToken {
		storage.once.Do(storage.onTokenRead)
	}
	return value, found, err
}

func userToken(t *testing.T, id, username, role string) string {
	return issue(t, jwt.MapClaims{
		"sub":  username,
		"uid":  id,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
}

/*
TestManager_FailedReloginLeavesNoMixedSession checks that a re-login whose
token write fails cannot pair the new user record with the old token.
*/
func TestManager_FailedReloginLeavesNoMixedSession(t *testing.T) {
	ctx := context.Background()
	storage := &flakyTokenStorage{MemoryStorage: session.NewMemoryStorage()}
	fake := &fakeAuthenticator{response: &session.LoginResponse{
		Token: userToken(t, "u-judge", "judge", "JUDGE"),
		User:  session.User{ID: "u-judge", Username: "judge"},
	}}
	manager := newManager(fake, storage)

	// 1. First user signs in normally
	_, err := manager.Login(ctx, "judge", "secret")
	require.NoError(t, err)

	// 2. Second user signs in while token writes fail
	storage.failToken.Store(true)
	fake.mu.Lock()
	fake.response = &session.LoginResponse{
		Token: userToken(t, "u-admin", "admin", "ADMIN"),
		User:  session.User{ID: "u-admin", Username: "admin"},
	}
	fake.mu.Unlock()

	_, err = manager.Login(ctx, "admin", "secret")
	require.Error(t, err)
	assert.Equal(t, "INTERNAL_ERROR", apperr.As(err).Code)
	assert.Nil(t, manager.Current())

	// 3. A restart finds no session rather than a mixed one
	restored, err := newManager(fake, storage).Rehydrate(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Nil(t, restored)
}

/*
TestManager_RehydrateIgnoresForeignUserRecord checks that identity comes from
the token when the stored user record names someone else.
*/
func TestManager_RehydrateIgnoresForeignUserRecord(t *testing.T) {
	tests := []struct {
		name     string
		record   string
		userID   string
		username string
	}{
		{"matching_record", `{"id":"u-judge","username":"Judge Dredd"}`, "u-judge", "Judge Dredd"},
		{"foreign_record", `{"id":"u-admin","username":"admin"}`, "u-judge", "judge"},
		{"record_without_id", `{"username":"Judge Dredd"}`, "u-judge", "Judge Dredd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := session.NewMemoryStorage()
			require.NoError(t, storage.Set(ctx, session.KeyToken, userToken(t, "u-judge", "judge", "JUDGE")))
			require.NoError(t, storage.Set(ctx, session.KeyUser, tt.record))

			restored, err := newManager(&fakeAuthenticator{}, storage).Rehydrate(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, restored.UserID)
			assert.Equal(t, tt.username, restored.Username)
			assert.Equal(t, sec.RoleJudge, restored.Role)
		})
	}
}

/*
TestManager_RehydrateYieldsToOverlappingLogin checks that a rehydration that
read empty storage does not wipe a login committed meanwhile.
*/
func TestManager_RehydrateYieldsToOverlappingLogin(t *testing.T) {
	ctx := context.Background()
	token := userToken(t, "u-clerk", "clerk", "CLERK")
	fake := &fakeAuthenticator{response: &session.LoginResponse{Token: token}}
	storage := &interleavedStorage{MemoryStorage: session.NewMemoryStorage()}
	manager := newManager(fake, storage)

	var loginErr error
	storage.onTokenRead = func() {
		_, loginErr = manager.Login(ctx, "clerk", "secret")
	}

	restored, err := manager.Rehydrate(ctx)
	require.NoError(t, loginErr)
	require.NoError(t, err)
	assert.Equal(t, "u-clerk", restored.UserID)
	assert.Equal(t, sec.RoleClerk, manager.Current().Role)

	stored, found, err := storage.MemoryStorage.Get(ctx, session.KeyToken)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, token, stored)
}
