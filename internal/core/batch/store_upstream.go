// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package batch

import (
	"context"

	"github.com/taibuivan/courtdesk/internal/upstream"
	"github.com/taibuivan/courtdesk/pkg/pagination"
)

// ResourcePath is the API collection for batches.
const ResourcePath = "/batches"

// UpstreamRepository reads and writes batches through the case-management API.
type UpstreamRepository struct {
	client   *upstream.Client
	resource *upstream.Resource[Batch]
}

func NewUpstreamRepository(client *upstream.Client) *UpstreamRepository {
	return &UpstreamRepository{
		client:   client,
		resource: upstream.NewResource[Batch](client, ResourcePath),
	}
}

func (repository *UpstreamRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Batch, int, error) {
	query := upstream.PageQuery(params.Page, params.Limit)
	if filter.Query != "" {
		query.Set("q", filter.Query)
	}
	if filter.Status != StatusUnknown {
		query.Set("status", string(filter.Status))
	}

	return repository.resource.List(context, query)
}

func (repository *UpstreamRepository) Get(context context.Context, id string) (*Batch, error) {
	return repository.resource.Get(context, id)
}

func (repository *UpstreamRepository) Create(context context.Context, input *Input) (*Batch, error) {
	return repository.resource.Create(context, input)
}

func (repository *UpstreamRepository) Update(context context.Context, id string, input *Input) (*Batch, error) {
	return repository.resource.Update(context, id, input)
}

func (repository *UpstreamRepository) Delete(context context.Context, id string) error {
	return repository.resource.Delete(context, id)
}

// importRequest is the body of POST /batches/{id}/import.
type importRequest struct {
	Cases []Row `json:"cases"`
}

// importResponse is the API's answer to an import.
type importResponse struct {
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors"`
}

func (repository *UpstreamRepository) Import(context context.Context, id string, rows []Row) (*ImportReport, error) {
	var response importResponse
	if err := repository.client.Post(context, repository.resource.Path(id, "import"), importRequest{Cases: rows}, &response); err != nil {
		return nil, err
	}

	return &ImportReport{
		BatchID:  upstream.ID(id),
		Imported: response.Imported,
		Rejected: response.Errors,
	}, nil
}
