// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/courtdesk/internal/platform/apperr"
	"github.com/taibuivan/courtdesk/internal/platform/ctxutil"
	"github.com/taibuivan/courtdesk/internal/upstream"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeCredentials records forced logouts.
type fakeCredentials struct {
	mu     sync.Mutex
	token  string
	forced []string
}

func (fake *fakeCredentials) Token() string {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.token
}

func (fake *fakeCredentials) ForceLogout(_ context.Context, reason string) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.forced = append(fake.forced, reason)
	fake.token = ""
	return nil
}

func newClient(t *testing.T, handler http.HandlerFunc) *upstream.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return upstream.NewClient(server.URL, 5*time.Second, discard)
}

/*
TestClient_BearerAndEnvelope checks the bearer header, query forwarding and
envelope decoding.
*/
func TestClient_BearerAndEnvelope(t *testing.T) {
	client := newClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer tok-1", request.Header.Get("Authorization"))
		assert.Equal(t, "req-9", request.Header.Get("X-Request-ID"))
		assert.Equal(t, "2", request.URL.Query().Get("page"))
		_, _ = io.WriteString(writer, `{"data":[{"id":"c-1"}],"meta":{"page":2,"limit":20,"total":21,"total_pages":2}}`)
	})

	ctx := ctxutil.WithCredentials(context.Background(), &fakeCredentials{token: "tok-1"})
	ctx = ctxutil.WithRequestID(ctx, "req-9")

	var items []struct{ ID string }
	meta, err := client.Get(ctx, "/legal-cases", url.Values{"page": {"2"}}, &items)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 21, meta.Total)
	assert.Equal(t, "c-1", items[0].ID)
}

/*
TestClient_AnonymousAndBareBody covers calls without credentials and bodies
that are not wrapped in an envelope.
*/
func TestClient_AnonymousAndBareBody(t *testing.T) {
	client := newClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Empty(t, request.Header.Get("Authorization"))
		_, _ = io.WriteString(writer, `{"id":"d-1","name":"Verdict"}`)
	})

	var out struct{ ID, Name string }
	meta, err := client.Get(context.Background(), "/decision-types/d-1", nil, &out)
	require.NoError(t, err)
	assert.Nil(t, meta)
	assert.Equal(t, "Verdict", out.Name)
}

/*
TestClient_UnauthorizedForcesLogout verifies the global 401 policy.
*/
func TestClient_UnauthorizedForcesLogout(t *testing.T) {
	client := newClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(writer, `{"message":"token revoked"}`)
	})

	credentials := &fakeCredentials{token: "tok-1"}
	ctx := ctxutil.WithCredentials(context.Background(), credentials)

	err := client.Delete(ctx, "/batches/b-1")
	require.Error(t, err)
	assert.True(t, apperr.HasStatus(err, http.StatusUnauthorized))
	assert.Len(t, credentials.forced, 1)
	assert.Empty(t, credentials.Token())
}

/*
TestClient_ErrorMapping relays client errors and masks server errors.
*/
func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    int
		code    string
		message string
	}{
		{"validation", http.StatusBadRequest, `{"error":"Bad case","code":"VALIDATION_ERROR","details":[{"field":"title","message":"required"}]}`, http.StatusBadRequest, "VALIDATION_ERROR", "Bad case"},
		{"not_found", http.StatusNotFound, `{"message":"No such case"}`, http.StatusNotFound, "NOT_FOUND", "No such case"},
		{"forbidden_no_body", http.StatusForbidden, ``, http.StatusForbidden, "FORBIDDEN", "Forbidden"},
		{"server_error", http.StatusInternalServerError, `{"error":"NullPointerException"}`, http.StatusBadGateway, "UPSTREAM_ERROR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(tt.status)
				_, _ = io.WriteString(writer, tt.body)
			})

			err := client.Post(context.Background(), "/legal-cases", map[string]string{"title": ""}, nil)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, tt.want, appError.HTTPStatus)
			assert.Equal(t, tt.code, appError.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, appError.Message)
			}
			assert.NotContains(t, appError.Message, "NullPointerException")
		})
	}
}

/*
TestClient_CancellationAborts verifies a cancelled context aborts the call.
*/
func TestClient_CancellationAborts(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	client := newClient(t, func(writer http.ResponseWriter, request *http.Request) {
		select {
		case <-release:
		case <-request.Context().Done():
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Delete(ctx, "/legal-cases/c-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "UPSTREAM_UNREACHABLE", apperr.As(err).Code)
}

/*
TestAuthClient covers login success, rejected credentials and logout.
*/
func TestAuthClient(t *testing.T) {
	var loggedOut string
	client := newClient(t, func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/auth/login":
			assert.Empty(t, request.Header.Get("Authorization"))
			var body map[string]string
			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			if body["password"] != "right" {
				writer.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(writer, `{"message":"Invalid username or password"}`)
				return
			}
			_, _ = io.WriteString(writer, `{"data":{"accessToken":"a.b.c","user":{"id":"u-1","username":"`+body["username"]+`"}}}`)
		case "/auth/logout":
			loggedOut = request.Header.Get("Authorization")
			writer.WriteHeader(http.StatusNoContent)
		}
	})

	credentials := &fakeCredentials{token: "unrelated"}
	ctx := ctxutil.WithCredentials(context.Background(), credentials)
	auth := upstream.NewAuthClient(client)

	response, err := auth.Authenticate(ctx, "clerk", "right")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", response.Token)
	assert.Equal(t, "clerk", response.User.Username)

	_, err = auth.Authenticate(ctx, "clerk", "wrong")
	assert.True(t, apperr.HasStatus(err, http.StatusUnauthorized))
	assert.Equal(t, "Invalid username or password", apperr.As(err).Message)
	assert.Empty(t, credentials.forced, "a login 401 must not end another session")

	require.NoError(t, auth.Invalidate(ctx, "a.b.c"))
	assert.Equal(t, "Bearer a.b.c", loggedOut)
}
