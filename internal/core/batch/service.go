// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package batch

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/platform/validate"
	"github.com/taibuivan/courtdesk/internal/upstream"
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

func (service *Service) ListBatches(context context.Context, filter Filter, params pagination.Params) ([]*Batch, int, error) {
	batches, total, err := service.repo.List(context, filter, params)
	if err != nil {
		return nil, 0, err
	}

	for _, batch := range batches {
		batch.StatusLabel = batch.Status.Label()
	}
	return batches, total, nil
}

func (service *Service) GetBatch(context context.Context, id string) (*Batch, error) {
	batch, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	batch.StatusLabel = batch.Status.Label()
	return batch, nil
}

func (service *Service) CreateBatch(context context.Context, input *Input) (*Batch, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	batch, err := service.repo.Create(context, input)
	if err != nil {
		return nil, err
	}
	batch.StatusLabel = batch.Status.Label()

	service.logger.Info("batch_created", slog.String("batch_id", batch.ID.String()), slog.String("name", batch.Name))
	service.recorder.Record(context, audit.ActionCreate, audit.EntityBatch, batch.ID.String(), batch)
	return batch, nil
}

func (service *Service) UpdateBatch(context context.Context, id string, input *Input) (*Batch, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	batch, err := service.repo.Update(context, id, input)
	if err != nil {
		return nil, err
	}
	batch.StatusLabel = batch.Status.Label()

	service.logger.Info("batch_updated", slog.String("batch_id", id))
	service.recorder.Record(context, audit.ActionUpdate, audit.EntityBatch, id, batch)
	return batch, nil
}

func (service *Service) DeleteBatch(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("batch_deleted", slog.String("batch_id", id))
	service.recorder.Record(context, audit.ActionDelete, audit.EntityBatch, id, nil)
	return nil
}

/*
ImportWorkbook loads the cases of an .xlsx workbook into a batch.

Description: Rows that fail local validation are reported and never sent.
The remaining rows are posted in one request; the API may reject more of them.

Returns:
  - *ImportReport: Accepted count and every rejection, ordered by row
  - error: VALIDATION_ERROR for an unusable workbook, or the API's error
*/
func (service *Service) ImportWorkbook(context context.Context, id string, workbook io.Reader) (*ImportReport, error) {
	// 1. Parse
	rows, rejected, err := ParseWorkbook(workbook)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && len(rejected) == 0 {
		return nil, validate.RequiredError(FieldFile, "The workbook has no case rows")
	}

	// 2. Submit the valid rows
	report := &ImportReport{BatchID: upstream.ID(id)}
	if len(rows) > 0 {
		submitted, err := service.repo.Import(context, id, rows)
		if err != nil {
			return nil, err
		}
		report.Imported = submitted.Imported
		rejected = append(rejected, submitted.Rejected...)
	}

	// 3. Merge
	slices.SortStableFunc(rejected, func(a, b RowError) int { return cmp.Compare(a.Row, b.Row) })
	report.Total = len(rows) + countRows(rejected, rows)
	report.Rejected = rejected
	if report.Rejected == nil {
		report.Rejected = []RowError{}
	}

	service.logger.Info("batch_imported",
		slog.String("batch_id", id),
		slog.Int("total", report.Total),
		slog.Int("imported", report.Imported),
		slog.Int("rejected", len(report.Rejected)),
	)
	service.recorder.Record(context, audit.ActionImport, audit.EntityBatch, id, map[string]int{
		"total":    report.Total,
		"imported": report.Imported,
		"rejected": len(report.Rejected),
	})
	return report, nil
}

// # Helpers

func validateInput(input *Input) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	validator.MaxLen(FieldDescription, input.Description, 2000)
	validator.Date(FieldReceivedDate, input.ReceivedDate)
	return validator.Err()
}

// countRows counts the distinct rejected rows that were never submitted.
func countRows(rejected []RowError, submitted []Row) int {
	sent := make(map[int]bool, len(submitted))
	for _, row := range submitted {
		sent[row.Row] = true
	}

	distinct := make(map[int]bool)
	for _, rowError := range rejected {
		if !sent[rowError.Row] {
			distinct[rowError.Row] = true
		}
	}
	return len(distinct)
}
