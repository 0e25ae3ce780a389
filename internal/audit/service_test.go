// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/platform/ctxutil"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/internal/session"
)

type memoryRepository struct {
	entries []*audit.Entry
	err     error
}

func (repository *memoryRepository) Insert(_ context.Context, entry *audit.Entry) error {
	if repository.err != nil {
		return repository.err
	}
	repository.entries = append(repository.entries, entry)
	return nil
}

func (repository *memoryRepository) List(context.Context, audit.Filter, int, int) ([]*audit.Entry, int, error) {
	return repository.entries, len(repository.entries), nil
}

/*
TestService_Record captures the actor, request tracing and payload.
*/
func TestService_Record(t *testing.T) {
	repository := &memoryRepository{}
	service := audit.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := ctxutil.WithSession(context.Background(), &session.Session{UserID: "u-1", Role: sec.RoleClerk})
	ctx = ctxutil.WithRequestID(ctx, "req-1")
	ctx = ctxutil.WithClientIP(ctx, "10.1.1.1")

	service.Record(ctx, audit.ActionCreate, audit.EntityLegalCase, "c-9", map[string]string{"title": "Land dispute"})

	require.Len(t, repository.entries, 1)
	entry := repository.entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "u-1", entry.ActorID)
	assert.Equal(t, "CLERK", entry.ActorRole)
	assert.Equal(t, audit.ActionCreate, entry.Action)
	assert.Equal(t, "c-9", entry.EntityID)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "10.1.1.1", entry.IPAddress)
	assert.JSONEq(t, `{"title":"Land dispute"}`, string(entry.After))
}

/*
TestService_RecordSwallowsFailures ensures storage errors never reach the caller.
*/
func TestService_RecordSwallowsFailures(t *testing.T) {
	repository := &memoryRepository{err: errors.New("db down")}
	service := audit.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NotPanics(t, func() {
		service.Record(context.Background(), audit.ActionDelete, audit.EntityBatch, "b-1", nil)
	})
	assert.Empty(t, repository.entries)

	var recorder audit.Recorder = audit.NopRecorder{}
	recorder.Record(context.Background(), audit.ActionLogin, audit.EntitySession, "", nil)
}
