// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package legalcase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/courtdesk/internal/audit"
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

func (service *Service) ListCases(context context.Context, filter Filter, params pagination.Params) ([]*LegalCase, int, error) {
	cases, total, err := service.repo.List(context, filter, params)
	if err != nil {
		return nil, 0, err
	}

	for _, legalCase := range cases {
		legalCase.StatusLabel = legalCase.Status.Label()
	}
	return cases, total, nil
}

func (service *Service) GetCase(context context.Context, id string) (*LegalCase, error) {
	legalCase, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	legalCase.StatusLabel = legalCase.Status.Label()
	return legalCase, nil
}

/*
CreateCase registers a new case.

Description: The case number is normalised to upper case and a missing status
defaults to PENDING before validation.
*/
func (service *Service) CreateCase(context context.Context, input *Input) (*LegalCase, error) {
	normalize(input)
	if input.Status == StatusUnknown {
		input.Status = StatusPending
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	legalCase, err := service.repo.Create(context, input)
	if err != nil {
		return nil, err
	}
	legalCase.StatusLabel = legalCase.Status.Label()

	service.logger.Info("legal_case_created",
		slog.String("case_id", legalCase.ID.String()),
		slog.String("case_number", legalCase.CaseNumber),
	)
	service.recorder.Record(context, audit.ActionCreate, audit.EntityLegalCase, legalCase.ID.String(), legalCase)
	return legalCase, nil
}

func (service *Service) UpdateCase(context context.Context, id string, input *Input) (*LegalCase, error) {
	normalize(input)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	legalCase, err := service.repo.Update(context, id, input)
	if err != nil {
		return nil, err
	}
	legalCase.StatusLabel = legalCase.Status.Label()

	service.logger.Info("legal_case_updated", slog.String("case_id", id))
	service.recorder.Record(context, audit.ActionUpdate, audit.EntityLegalCase, id, legalCase)
	return legalCase, nil
}

func (service *Service) DeleteCase(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("legal_case_deleted", slog.String("case_id", id))
	service.recorder.Record(context, audit.ActionDelete, audit.EntityLegalCase, id, nil)
	return nil
}

// # Helpers

func normalize(input *Input) {
	input.CaseNumber = strings.ToUpper(strings.TrimSpace(input.CaseNumber))
	input.Title = strings.TrimSpace(input.Title)
	input.Plaintiff = strings.TrimSpace(input.Plaintiff)
	input.Defendant = strings.TrimSpace(input.Defendant)
	input.RelationshipCode = strings.TrimSpace(input.RelationshipCode)
}

func validateInput(input *Input) error {
	validator := &validate.Validator{}

	validator.Required(FieldCaseNumber, input.CaseNumber).CaseNumber(FieldCaseNumber, input.CaseNumber)
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 500)
	validator.MaxLen(FieldPlaintiff, input.Plaintiff, 255)
	validator.MaxLen(FieldDefendant, input.Defendant, 255)
	validator.MaxLen(FieldRelationshipCode, input.RelationshipCode, 100)
	validator.Custom(FieldStatus, !input.Status.Valid(), "Unknown case status")
	validator.Date(FieldAcceptedDate, input.AcceptedDate).Date(FieldDecidedDate, input.DecidedDate)

	// ISO dates compare correctly as strings.
	validator.Custom(FieldDecidedDate,
		input.DecidedDate != "" && input.AcceptedDate != "" && input.DecidedDate < input.AcceptedDate,
		"Must not precede the accepted date",
	)

	return validator.Err()
}
