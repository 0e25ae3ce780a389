// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package legalcase

import (
	"context"

	"github.com/taibuivan/courtdesk/internal/upstream"
	"github.com/taibuivan/courtdesk/pkg/pagination"
	"github.com/taibuivan/courtdesk/pkg/slice"
)

// ResourcePath is the API collection for cases.
const ResourcePath = "/legal-cases"

// UpstreamRepository reads and writes cases through the case-management API.
type UpstreamRepository struct {
	resource *upstream.Resource[LegalCase]
}

func NewUpstreamRepository(client *upstream.Client) *UpstreamRepository {
	return &UpstreamRepository{resource: upstream.NewResource[LegalCase](client, ResourcePath)}
}

func (repository *UpstreamRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*LegalCase, int, error) {
	query := upstream.PageQuery(params.Page, params.Limit)
	if filter.Query != "" {
		query.Set("q", filter.Query)
	}
	for _, status := range slice.Map(filter.Statuses, func(status CaseStatus) string { return string(status) }) {
		query.Add("status", status)
	}
	if filter.BatchID != "" {
		query.Set("batch_id", filter.BatchID)
	}

	return repository.resource.List(context, query)
}

func (repository *UpstreamRepository) Get(context context.Context, id string) (*LegalCase, error) {
	return repository.resource.Get(context, id)
}

func (repository *UpstreamRepository) Create(context context.Context, input *Input) (*LegalCase, error) {
	return repository.resource.Create(context, input)
}

func (repository *UpstreamRepository) Update(context context.Context, id string, input *Input) (*LegalCase, error) {
	return repository.resource.Update(context, id, input)
}

func (repository *UpstreamRepository) Delete(context context.Context, id string) error {
	return repository.resource.Delete(context, id)
}
