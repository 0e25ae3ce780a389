// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/taibuivan/courtdesk/internal/platform/ctxutil"
	"github.com/taibuivan/courtdesk/pkg/uuid"
)

// Recorder is what mutating services depend on.
type Recorder interface {
	// Record appends an entry for the session in ctx. It never fails the
	// caller; storage errors are logged.
	Record(ctx context.Context, action Action, entityType, entityID string, after any)
}

// NopRecorder discards entries. Used when no database is configured.
type NopRecorder struct{}

// Record implements [Recorder].
func (NopRecorder) Record(context.Context, Action, string, string, any) {}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

var _ Recorder = (*Service)(nil)

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

/*
Record appends an audit entry.

Description: The actor comes from the session in ctx; the client address and
request id come from the request tracing values. after is serialised as JSON.
*/
func (service *Service) Record(ctx context.Context, action Action, entityType, entityID string, after any) {
	entry := &Entry{
		ID:         uuid.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ctxutil.GetClientIP(ctx),
		RequestID:  ctxutil.GetRequestID(ctx),
	}

	if current := ctxutil.GetSession(ctx); current != nil {
		entry.ActorID = current.UserID
		entry.ActorRole = string(current.Role)
	}

	if after != nil {
		encoded, err := json.Marshal(after)
		if err != nil {
			service.logger.Warn("audit_encode_failed", slog.String("entity_type", entityType), slog.Any("error", err))
		} else {
			entry.After = encoded
		}
	}

	// The request may be finishing; the entry must still land.
	if err := service.repo.Insert(context.WithoutCancel(ctx), entry); err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "audit_insert_failed",
			slog.String("action", string(action)),
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID),
			slog.Any("error", err),
		)
	}
}

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error) {
	return service.repo.List(context, filter, limit, offset)
}
