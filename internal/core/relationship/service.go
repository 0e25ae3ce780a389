// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relationship

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/platform/validate"
	"github.com/taibuivan/courtdesk/pkg/pagination"
	"github.com/taibuivan/courtdesk/pkg/pointer"
	"github.com/taibuivan/courtdesk/pkg/slug"
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

func (service *Service) ListRelationships(context context.Context, filter Filter, params pagination.Params) ([]*LegalRelationship, int, error) {
	relationships, total, err := service.repo.List(context, filter, params)
	if err != nil {
		return nil, 0, err
	}

	for _, relationship := range relationships {
		relationship.KindLabel = relationship.Kind.Label()
	}
	return relationships, total, nil
}

func (service *Service) GetRelationship(context context.Context, id string) (*LegalRelationship, error) {
	relationship, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	relationship.KindLabel = relationship.Kind.Label()
	return relationship, nil
}

func (service *Service) CreateRelationship(context context.Context, input *Input) (*LegalRelationship, error) {
	if err := prepare(input); err != nil {
		return nil, err
	}

	relationship, err := service.repo.Create(context, input)
	if err != nil {
		return nil, err
	}
	relationship.KindLabel = relationship.Kind.Label()

	service.logger.Info("relationship_created", slog.String("code", relationship.Code))
	service.recorder.Record(context, audit.ActionCreate, audit.EntityLegalRelationship, relationship.ID.String(), relationship)
	return relationship, nil
}

func (service *Service) UpdateRelationship(context context.Context, id string, input *Input) (*LegalRelationship, error) {
	if err := prepare(input); err != nil {
		return nil, err
	}

	relationship, err := service.repo.Update(context, id, input)
	if err != nil {
		return nil, err
	}
	relationship.KindLabel = relationship.Kind.Label()

	service.logger.Info("relationship_updated", slog.String("relationship_id", id))
	service.recorder.Record(context, audit.ActionUpdate, audit.EntityLegalRelationship, id, relationship)
	return relationship, nil
}

func (service *Service) DeleteRelationship(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("relationship_deleted", slog.String("relationship_id", id))
	service.recorder.Record(context, audit.ActionDelete, audit.EntityLegalRelationship, id, nil)
	return nil
}

// prepare fills defaults and validates input.
func prepare(input *Input) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Code = strings.TrimSpace(input.Code)
	if input.Code == "" {
		input.Code = slug.From(input.Name)
	}
	if input.Active == nil {
		input.Active = pointer.To(true)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	validator.Required(FieldCode, input.Code).MaxLen(FieldCode, input.Code, 100)
	if input.Code != "" {
		validator.Slug(FieldCode, input.Code)
	}
	validator.Custom(FieldKind, !input.Kind.Valid(), "Unknown relationship kind")
	validator.MaxLen(FieldDescription, input.Description, 2000)
	return validator.Err()
}
