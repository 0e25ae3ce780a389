// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/courtdesk/internal/platform/ctxutil"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/internal/session"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Session verifies that the signed-in session can be stored in context.
*/
func TestContext_Session(t *testing.T) {
	ctx := context.Background()
	current := &session.Session{
		UserID: "user-123",
		Role:   sec.RoleClerk,
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetSession(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithSession(ctx, current)
	retrieved := ctxutil.GetSession(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.UserID)
	assert.Equal(t, sec.RoleClerk, retrieved.Role)
}

/*
TestContext_Credentials verifies that a session manager can back outbound calls.
*/
func TestContext_Credentials(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetCredentials(ctx))

	manager := session.NewManager(nil, session.NewMemoryStorage(), slog.Default())
	ctx = ctxutil.WithCredentials(ctx, manager)

	assert.Same(t, manager, ctxutil.GetCredentials(ctx))
	assert.Empty(t, ctxutil.GetCredentials(ctx).Token())
}

/*
TestContext_ClientIP verifies the client address round-trip.
*/
func TestContext_ClientIP(t *testing.T) {
	ctx := ctxutil.WithClientIP(context.Background(), "10.0.0.1")
	assert.Equal(t, "10.0.0.1", ctxutil.GetClientIP(ctx))
}
