// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/internal/platform/validate"
	"github.com/taibuivan/courtdesk/pkg/pagination"
)

type Service struct {
	repo     Repository
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
	}
}

func (service *Service) ListNotifications(context context.Context, filter Filter, params pagination.Params) ([]*Notification, int, error) {
	notifications, total, err := service.repo.List(context, filter, params)
	if err != nil {
		return nil, 0, err
	}

	for _, notification := range notifications {
		notification.KindLabel = notification.Kind.Label()
	}
	return notifications, total, nil
}

// UnreadCount returns the number of unread notifications, read from the
// total of a one-item page.
func (service *Service) UnreadCount(context context.Context) (int, error) {
	_, total, err := service.repo.List(context, Filter{UnreadOnly: true}, pagination.Params{Page: 1, Limit: 1})
	return total, err
}

func (service *Service) GetNotification(context context.Context, id string) (*Notification, error) {
	notification, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	notification.KindLabel = notification.Kind.Label()
	return notification, nil
}

func (service *Service) CreateNotification(context context.Context, input *Input) (*Notification, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	notification, err := service.repo.Create(context, input)
	if err != nil {
		return nil, err
	}
	notification.KindLabel = notification.Kind.Label()

	service.logger.Info("notification_created",
		slog.String("notification_id", notification.ID.String()),
		slog.String("kind", string(notification.Kind)),
	)
	service.recorder.Record(context, audit.ActionCreate, audit.EntityNotification, notification.ID.String(), notification)
	return notification, nil
}

func (service *Service) UpdateNotification(context context.Context, id string, input *Input) (*Notification, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	notification, err := service.repo.Update(context, id, input)
	if err != nil {
		return nil, err
	}
	notification.KindLabel = notification.Kind.Label()

	service.logger.Info("notification_updated", slog.String("notification_id", id))
	service.recorder.Record(context, audit.ActionUpdate, audit.EntityNotification, id, notification)
	return notification, nil
}

func (service *Service) DeleteNotification(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("notification_deleted", slog.String("notification_id", id))
	service.recorder.Record(context, audit.ActionDelete, audit.EntityNotification, id, nil)
	return nil
}

func (service *Service) MarkRead(context context.Context, id string) (*Notification, error) {
	notification, err := service.repo.MarkRead(context, id)
	if err != nil {
		return nil, err
	}
	notification.KindLabel = notification.Kind.Label()

	service.recorder.Record(context, audit.ActionRead, audit.EntityNotification, id, nil)
	return notification, nil
}

func (service *Service) MarkAllRead(context context.Context) (int, error) {
	updated, err := service.repo.MarkAllRead(context)
	if err != nil {
		return 0, err
	}

	service.recorder.Record(context, audit.ActionRead, audit.EntityNotification, "", map[string]int{"updated": updated})
	return updated, nil
}

func validateInput(input *Input) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Message = strings.TrimSpace(input.Message)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 200)
	validator.Required(FieldMessage, input.Message).MaxLen(FieldMessage, input.Message, 5000)
	validator.Custom(FieldKind, !input.Kind.Valid(), "Unknown notification kind")

	for index, role := range input.Audience {
		parsed := sec.ParseRole(string(role))
		validator.Custom(FieldAudience+"["+strconv.Itoa(index)+"]", !parsed.Valid(), "Unknown role "+strconv.Quote(string(role)))
		input.Audience[index] = parsed
	}

	return validator.Err()
}
