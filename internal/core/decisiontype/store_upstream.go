// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package decisiontype

import (
	"context"

	"github.com/taibuivan/courtdesk/internal/upstream"
	"github.com/taibuivan/courtdesk/pkg/pagination"
)

// ResourcePath is the API collection for decision types.
const ResourcePath = "/decision-types"

type UpstreamRepository struct {
	resource *upstream.Resource[DecisionType]
}

func NewUpstreamRepository(client *upstream.Client) *UpstreamRepository {
	return &UpstreamRepository{resource: upstream.NewResource[DecisionType](client, ResourcePath)}
}

func (repository *UpstreamRepository) List(context context.Context, query string, params pagination.Params) ([]*DecisionType, int, error) {
	values := upstream.PageQuery(params.Page, params.Limit)
	if query != "" {
		values.Set("q", query)
	}
	return repository.resource.List(context, values)
}

func (repository *UpstreamRepository) Get(context context.Context, id string) (*DecisionType, error) {
	return repository.resource.Get(context, id)
}

func (repository *UpstreamRepository) Create(context context.Context, input *Input) (*DecisionType, error) {
	return repository.resource.Create(context, input)
}

func (repository *UpstreamRepository) Update(context context.Context, id string, input *Input) (*DecisionType, error) {
	return repository.resource.Update(context, id, input)
}

func (repository *UpstreamRepository) Delete(context context.Context, id string) error {
	return repository.resource.Delete(context, id)
}
