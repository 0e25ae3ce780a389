// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package decisiontype

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/platform/validate"
	"github.com/taibuivan/courtdesk/pkg/pagination"
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

// ListDecisionTypes returns one page ordered by SortOrder, then name.
func (service *Service) ListDecisionTypes(context context.Context, query string, params pagination.Params) ([]*DecisionType, int, error) {
	decisionTypes, total, err := service.repo.List(context, query, params)
	if err != nil {
		return nil, 0, err
	}

	slices.SortStableFunc(decisionTypes, func(a, b *DecisionType) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), strings.Compare(a.Name, b.Name))
	})
	return decisionTypes, total, nil
}

func (service *Service) GetDecisionType(context context.Context, id string) (*DecisionType, error) {
	return service.repo.Get(context, id)
}

func (service *Service) CreateDecisionType(context context.Context, input *Input) (*DecisionType, error) {
	if err := prepare(input); err != nil {
		return nil, err
	}

	decisionType, err := service.repo.Create(context, input)
	if err != nil {
		return nil, err
	}

	service.logger.Info("decision_type_created", slog.String("code", decisionType.Code))
	service.recorder.Record(context, audit.ActionCreate, audit.EntityDecisionType, decisionType.ID.String(), decisionType)
	return decisionType, nil
}

func (service *Service) UpdateDecisionType(context context.Context, id string, input *Input) (*DecisionType, error) {
	if err := prepare(input); err != nil {
		return nil, err
	}

	decisionType, err := service.repo.Update(context, id, input)
	if err != nil {
		return nil, err
	}

	service.logger.Info("decision_type_updated", slog.String("decision_type_id", id))
	service.recorder.Record(context, audit.ActionUpdate, audit.EntityDecisionType, id, decisionType)
	return decisionType, nil
}

func (service *Service) DeleteDecisionType(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("decision_type_deleted", slog.String("decision_type_id", id))
	service.recorder.Record(context, audit.ActionDelete, audit.EntityDecisionType, id, nil)
	return nil
}

func prepare(input *Input) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Code = strings.TrimSpace(input.Code)
	if input.Code == "" {
		input.Code = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	validator.Required(FieldCode, input.Code).MaxLen(FieldCode, input.Code, 100)
	if input.Code != "" {
		validator.Slug(FieldCode, input.Code)
	}
	validator.MaxLen(FieldDescription, input.Description, 2000)
	validator.Range(FieldSortOrder, input.SortOrder, 0, 9999)
	return validator.Err()
}
