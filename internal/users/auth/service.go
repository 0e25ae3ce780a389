// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"

	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/platform/ctxutil"
	"github.com/taibuivan/courtdesk/internal/platform/validate"
	"github.com/taibuivan/courtdesk/internal/session"
)

// Service orchestrates sign-in and sign-out around [session.Manager].
type Service struct {
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		recorder: recorder,
		logger:   logger,
	}
}

/*
Login signs a user in on manager.

Description: previous is the session the browser held before, if any. It is
signed out once the new session is established, so a failed attempt leaves it
intact.

Parameters:
  - manager: *session.Manager (Bound to a freshly issued session id)
  - previous: *session.Manager (May be nil)
  - login: string (Username or email)
  - password: string

Returns:
  - *session.Session: The established session
  - error: VALIDATION_ERROR, or the failure reported by [session.Manager.Login]
*/
func (service *Service) Login(ctx context.Context, manager, previous *session.Manager, login, password string) (*session.Session, error) {
	// 1. Validate
	validator := &validate.Validator{}
	validator.Required(FieldLogin, login).MaxLen(FieldLogin, login, MaxLoginLength)
	validator.Required(FieldPassword, password).MaxLen(FieldPassword, password, MaxPasswordLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 2. Authenticate
	current, err := manager.Login(ctx, login, password)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_failed", slog.String("login", login), slog.Any("error", err))
		return nil, err
	}

	// 3. Retire the browser's previous session
	if previous != nil {
		if err := previous.Logout(ctx); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "previous_session_logout_failed", slog.Any("error", err))
		}
	}

	// 4. Record
	ctx = ctxutil.WithSession(ctx, current)
	service.logger.Info("user_logged_in",
		slog.String("user_id", current.UserID),
		slog.String("role", string(current.Role)),
	)
	service.recorder.Record(ctx, audit.ActionLogin, audit.EntitySession, current.UserID, nil)
	return current, nil
}

/*
Logout signs the browser's session out. It is idempotent: a nil manager or an
empty session is not an error.
*/
func (service *Service) Logout(ctx context.Context, manager *session.Manager) error {
	if manager == nil {
		return nil
	}

	// Restore first so the entry names who left.
	current, _ := manager.Rehydrate(ctx)

	if err := manager.Logout(ctx); err != nil {
		return err
	}

	if current != nil {
		ctx = ctxutil.WithSession(ctx, current)
		service.logger.Info("user_logged_out", slog.String("user_id", current.UserID))
		service.recorder.Record(ctx, audit.ActionLogout, audit.EntitySession, current.UserID, nil)
	}
	return nil
}
