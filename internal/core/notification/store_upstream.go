// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"

	"github.com/taibuivan/courtdesk/internal/upstream"
	"github.com/taibuivan/courtdesk/pkg/pagination"
)

// ResourcePath is the API collection for notifications.
const ResourcePath = "/notifications"

type UpstreamRepository struct {
	client   *upstream.Client
	resource *upstream.Resource[Notification]
}

func NewUpstreamRepository(client *upstream.Client) *UpstreamRepository {
	return &UpstreamRepository{
		client:   client,
		resource: upstream.NewResource[Notification](client, ResourcePath),
	}
}

func (repository *UpstreamRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Notification, int, error) {
	query := upstream.PageQuery(params.Page, params.Limit)
	if filter.UnreadOnly {
		query.Set("unread", "true")
	}
	if filter.Kind != KindUnknown {
		query.Set("kind", string(filter.Kind))
	}
	return repository.resource.List(context, query)
}

func (repository *UpstreamRepository) Get(context context.Context, id string) (*Notification, error) {
	return repository.resource.Get(context, id)
}

func (repository *UpstreamRepository) Create(context context.Context, input *Input) (*Notification, error) {
	return repository.resource.Create(context, input)
}

func (repository *UpstreamRepository) Update(context context.Context, id string, input *Input) (*Notification, error) {
	return repository.resource.Update(context, id, input)
}

func (repository *UpstreamRepository) Delete(context context.Context, id string) error {
	return repository.resource.Delete(context, id)
}

func (repository *UpstreamRepository) MarkRead(context context.Context, id string) (*Notification, error) {
	var notification Notification
	if err := repository.client.Patch(context, repository.resource.Path(id, "read"), nil, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (repository *UpstreamRepository) MarkAllRead(context context.Context) (int, error) {
	var response struct {
		Updated int `json:"updated"`
	}
	if err := repository.client.Post(context, repository.resource.Path("read-all"), nil, &response); err != nil {
		return 0, err
	}
	return response.Updated, nil
}
