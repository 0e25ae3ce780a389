// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relationship

import (
	"context"

	"github.com/taibuivan/courtdesk/internal/upstream"
	"github.com/taibuivan/courtdesk/pkg/pagination"
)

// ResourcePath is the API collection for the taxonomy.
const ResourcePath = "/legal-relationships"

type UpstreamRepository struct {
	resource *upstream.Resource[LegalRelationship]
}

func NewUpstreamRepository(client *upstream.Client) *UpstreamRepository {
	return &UpstreamRepository{resource: upstream.NewResource[LegalRelationship](client, ResourcePath)}
}

func (repository *UpstreamRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*LegalRelationship, int, error) {
	query := upstream.PageQuery(params.Page, params.Limit)
	if filter.Query != "" {
		query.Set("q", filter.Query)
	}
	if filter.Kind != KindUnknown {
		query.Set("kind", string(filter.Kind))
	}
	if filter.ActiveOnly {
		query.Set("active", "true")
	}

	return repository.resource.List(context, query)
}

func (repository *UpstreamRepository) Get(context context.Context, id string) (*LegalRelationship, error) {
	return repository.resource.Get(context, id)
}

func (repository *UpstreamRepository) Create(context context.Context, input *Input) (*LegalRelationship, error) {
	return repository.resource.Create(context, input)
}

func (repository *UpstreamRepository) Update(context context.Context, id string, input *Input) (*LegalRelationship, error) {
	return repository.resource.Update(context, id, input)
}

func (repository *UpstreamRepository) Delete(context context.Context, id string) error {
	return repository.resource.Delete(context, id)
}
