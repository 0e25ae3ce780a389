// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/session"
	"github.com/taibuivan/courtdesk/internal/upstream"
	"github.com/taibuivan/courtdesk/internal/users/auth"
)

const cookieName = "courtdesk_session"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *recorder) Record(_ context.Context, action audit.Action, _, entityID string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, string(action)+" "+entityID)
}

// fixture is a console auth router over a fake API and in-memory storage.
type fixture struct {
	router   http.Handler
	stores   map[string]*session.MemoryStorage
	audits   *recorder
	mu       sync.Mutex
	logouts  []string
	storesMu sync.Mutex
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{stores: map[string]*session.MemoryStorage{}, audits: &recorder{}}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1", "role": "ROLE_CLERK", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)

	api := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/auth/login":
			var body map[string]string
			_ = json.NewDecoder(request.Body).Decode(&body)
			if body["password"] != "s3cret" {
				writer.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(writer, `{"message":"Invalid username or password"}`)
				return
			}
			_ = json.NewEncoder(writer).Encode(map[string]any{"data": map[string]any{
				"token": token,
				"user":  map[string]string{"id": "u-1", "username": body["username"], "email": "clerk@court.example"},
			}})
		case "/auth/logout":
			fx.mu.Lock()
			fx.logouts = append(fx.logouts, request.Header.Get("Authorization"))
			fx.mu.Unlock()
			writer.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(api.Close)

	client := upstream.NewClient(api.URL, 5*time.Second, discard)
	browsers := session.NewBrowserSessions(
		upstream.NewAuthClient(client),
		fx.storage,
		discard,
		session.CookieOptions{Name: cookieName, TTL: time.Hour},
	)

	handler := auth.NewHandler(auth.NewService(fx.audits, discard), browsers, "/login")
	fx.router = handler.Routes()
	return fx
}

func (fx *fixture) storage(id string) session.Storage {
	fx.storesMu.Lock()
	defer fx.storesMu.Unlock()
	if fx.stores[id] == nil {
		fx.stores[id] = session.NewMemoryStorage()
	}
	return fx.stores[id]
}

func (fx *fixture) do(method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)
	if cookie != nil {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	fx.router.ServeHTTP(recorder, request)
	return recorder
}

func sessionCookie(recorder *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == cookieName {
			return cookie
		}
	}
	return nil
}

/*
TestLoginLogoutFlow walks sign-in, profile, sign-out and the idempotent repeat.
*/
func TestLoginLogoutFlow(t *testing.T) {
	fx := newFixture(t)

	// Rejected credentials set no cookie
	recorder := fx.do(http.MethodPost, "/login", `{"login":"clerk","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid username or password")
	assert.Nil(t, sessionCookie(recorder))

	// Success binds a cookie and never exposes the token
	recorder = fx.do(http.MethodPost, "/login", `{"login":"clerk","password":"s3cret"}`, nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	cookie := sessionCookie(recorder)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotContains(t, recorder.Body.String(), "token")

	var body struct{ Data auth.Profile }
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "clerk", body.Data.Username)
	assert.Equal(t, "CLERK", string(body.Data.Role))
	assert.Equal(t, "Court clerk", body.Data.RoleLabel)
	assert.NotEmpty(t, body.Data.Permissions)

	// The cookie restores the session
	recorder = fx.do(http.MethodGet, "/me", "", cookie)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"email":"clerk@court.example"`)

	// Logout invalidates upstream and expires the cookie
	recorder = fx.do(http.MethodPost, "/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	expired := sessionCookie(recorder)
	require.NotNil(t, expired)
	assert.Negative(t, expired.MaxAge)
	assert.Len(t, fx.logouts, 1)

	// The old cookie no longer works; logging out again is harmless
	assert.Equal(t, http.StatusUnauthorized, fx.do(http.MethodGet, "/me", "", cookie).Code)
	assert.Equal(t, http.StatusNoContent, fx.do(http.MethodPost, "/logout", "", cookie).Code)
	assert.Equal(t, http.StatusNoContent, fx.do(http.MethodPost, "/logout", "", nil).Code)

	assert.Equal(t, []string{"login u-1", "logout u-1"}, fx.audits.entries)
}

/*
TestLogin_ReplacesPreviousSession issues a new id and retires the old one.
*/
func TestLogin_ReplacesPreviousSession(t *testing.T) {
	fx := newFixture(t)

	first := sessionCookie(fx.do(http.MethodPost, "/login", `{"login":"clerk","password":"s3cret"}`, nil))
	require.NotNil(t, first)

	// A failed attempt keeps the previous session
	fx.do(http.MethodPost, "/login", `{"login":"clerk","password":"nope"}`, first)
	assert.Equal(t, http.StatusOK, fx.do(http.MethodGet, "/me", "", first).Code)

	second := sessionCookie(fx.do(http.MethodPost, "/login", `{"login":"clerk","password":"s3cret"}`, first))
	require.NotNil(t, second)
	assert.NotEqual(t, first.Value, second.Value)

	assert.Equal(t, http.StatusUnauthorized, fx.do(http.MethodGet, "/me", "", first).Code)
	assert.Equal(t, http.StatusOK, fx.do(http.MethodGet, "/me", "", second).Code)
}

/*
TestLogin_Validation rejects empty and malformed bodies.
*/
func TestLogin_Validation(t *testing.T) {
	fx := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, fx.do(http.MethodPost, "/login", `{"login":"","password":""}`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, fx.do(http.MethodPost, "/login", `not json`, nil).Code)
	assert.Empty(t, fx.audits.entries)
}
