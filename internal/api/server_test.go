// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
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

	"github.com/taibuivan/courtdesk/internal/api"
	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/core/batch"
	"github.com/taibuivan/courtdesk/internal/core/decisiontype"
	"github.com/taibuivan/courtdesk/internal/core/legalcase"
	"github.com/taibuivan/courtdesk/internal/core/notification"
	"github.com/taibuivan/courtdesk/internal/core/relationship"
	"github.com/taibuivan/courtdesk/internal/platform/config"
	"github.com/taibuivan/courtdesk/internal/session"
	"github.com/taibuivan/courtdesk/internal/upstream"
	"github.com/taibuivan/courtdesk/internal/users/auth"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// newConsole assembles the console as main does, over a fake API and
// in-memory session storage.
func newConsole(t *testing.T, role string) http.Handler {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1", "role": role, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	fake := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/auth/login":
			_, _ = io.WriteString(writer, `{"data":{"token":"`+token+`","user":{"id":"u-1","username":"judge"}}}`)
		case "/legal-cases":
			assert.Equal(t, "Bearer "+token, request.Header.Get("Authorization"))
			assert.NotEmpty(t, request.Header.Get("X-Request-ID"))
			_, _ = io.WriteString(writer, `{"data":[],"meta":{"page":1,"limit":20,"total":0,"total_pages":0}}`)
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fake.Close)

	var mu sync.Mutex
	stores := map[string]*session.MemoryStorage{}
	storage := func(id string) session.Storage {
		mu.Lock()
		defer mu.Unlock()
		if stores[id] == nil {
			stores[id] = session.NewMemoryStorage()
		}
		return stores[id]
	}

	cfg := &config.Config{ServerPort: "0", Environment: "test", LoginPath: "/login", SessionCookieName: "sid"}
	client := upstream.NewClient(fake.URL, 5*time.Second, discard)
	browsers := session.NewBrowserSessions(upstream.NewAuthClient(client), storage, discard,
		session.CookieOptions{Name: cfg.SessionCookieName, TTL: time.Hour})

	recorder := audit.NopRecorder{}
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckUpstream: client.Ping,
	}, discard)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, cfg, discard, browsers, api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         auth.NewHandler(auth.NewService(recorder, discard), browsers, cfg.LoginPath),
		LegalCase:    legalcase.NewHandler(legalcase.NewService(legalcase.NewUpstreamRepository(client), recorder, discard)),
		Batch:        batch.NewHandler(batch.NewService(batch.NewUpstreamRepository(client), recorder, discard)),
		Relationship: relationship.NewHandler(relationship.NewService(relationship.NewUpstreamRepository(client), recorder, discard)),
		DecisionType: decisiontype.NewHandler(decisiontype.NewService(decisiontype.NewUpstreamRepository(client), recorder, discard)),
		Notification: notification.NewHandler(notification.NewService(notification.NewUpstreamRepository(client), recorder, discard)),
	})
	return server.Handler()
}

func request(handler http.Handler, method, target, body string, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for key, values := range header {
		req.Header[key] = values
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

/*
TestServer_GuardedRoutes covers the unauthenticated outcomes and an
authenticated call relayed with the bearer token.
*/
func TestServer_GuardedRoutes(t *testing.T) {
	console := newConsole(t, "JUDGE")

	// API calls without a session get 401; page loads are redirected
	assert.Equal(t, http.StatusUnauthorized, request(console, http.MethodGet, "/api/v1/legal-cases", "", nil).Code)

	redirect := request(console, http.MethodGet, "/api/v1/legal-cases?q=land", "", http.Header{"Accept": {"text/html"}})
	assert.Equal(t, http.StatusSeeOther, redirect.Code)
	assert.Equal(t, "/login?next=%2Fapi%2Fv1%2Flegal-cases%3Fq%3Dland", redirect.Header().Get("Location"))

	// Sign in
	login := request(console, http.MethodPost, "/api/v1/auth/login", `{"login":"judge","password":"pw"}`, nil)
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	listed := request(console, http.MethodGet, "/api/v1/legal-cases", "", nil, cookies...)
	assert.Equal(t, http.StatusOK, listed.Code, listed.Body.String())
	assert.NotEmpty(t, listed.Header().Get("X-Request-ID"))

	// Judges cannot manage reference data
	assert.Equal(t, http.StatusForbidden,
		request(console, http.MethodPost, "/api/v1/decision-types", `{"name":"x"}`, nil, cookies...).Code)

	// The audit trail is not mounted without a database
	assert.Equal(t, http.StatusNotFound, request(console, http.MethodGet, "/api/v1/audit", "", nil, cookies...).Code)
}

/*
TestServer_CORS echoes allowed origins and answers preflights.
*/
func TestServer_CORS(t *testing.T) {
	console := newConsole(t, "JUDGE")

	preflight := request(console, http.MethodOptions, "/api/v1/legal-cases", "", http.Header{"Origin": {"http://console.local"}})
	assert.Equal(t, http.StatusNoContent, preflight.Code)
	assert.Empty(t, preflight.Header().Get("Access-Control-Allow-Origin"), "test environment allows no extra origins")
}

/*
TestHealth reports degraded readiness when a dependency fails.
*/
func TestHealth(t *testing.T) {
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckCache:    func(context.Context) error { return nil },
		CheckUpstream: func(context.Context) error { return errors.New("connection refused") },
	}, discard)

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var body struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name string `json:"name"`
				OK   bool   `json:"ok"`
			} `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Data.Status)
	require.Len(t, body.Data.Checks, 2)
	assert.True(t, body.Data.Checks[0].OK)
	assert.False(t, body.Data.Checks[1].OK)
}
