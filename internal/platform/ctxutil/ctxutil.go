// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/courtdesk/internal/platform/ctxkey"
	"github.com/taibuivan/courtdesk/internal/session"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// WithClientIP returns a new context carrying the resolved client address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClientIP, ip)
}

// GetClientIP retrieves the client address, or "" if not set.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxkey.KeyClientIP).(string)
	return ip
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithSession returns a new context with the signed-in session attached.
func WithSession(ctx context.Context, current *session.Session) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, current)
}

// GetSession retrieves the [*session.Session] from the context, or nil.
func GetSession(ctx context.Context) *session.Session {
	current, ok := ctx.Value(ctxkey.KeySession).(*session.Session)
	if !ok {
		return nil
	}
	return current
}

// Credentials supplies the bearer token for outbound calls and revokes it when
// the server rejects it. [*session.Manager] satisfies it.
type Credentials interface {
	Token() string
	ForceLogout(ctx context.Context, reason string) error
}

// WithCredentials binds outbound credentials to the context.
func WithCredentials(ctx context.Context, credentials Credentials) context.Context {
	return context.WithValue(ctx, ctxkey.KeyCredentials, credentials)
}

// GetCredentials retrieves the bound [Credentials], or nil for anonymous calls.
func GetCredentials(ctx context.Context) Credentials {
	credentials, ok := ctx.Value(ctxkey.KeyCredentials).(Credentials)
	if !ok {
		return nil
	}
	return credentials
}
