// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// # Identifiers

// ID is a resource identifier. The API emits numeric ids for legacy tables and
// string ids elsewhere; both decode into the same string form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*id = ID(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*id = ID(number.String())
	return nil
}

// String returns the id as text.
func (id ID) String() string {
	return string(id)
}

// # Resources

// Resource is a typed CRUD collection under one API path.
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds T to the collection at path, e.g. "/legal-cases".
func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

// Path returns the collection path, or the path of one item and its sub-resources.
func (resource *Resource[T]) Path(segments ...string) string {
	var builder strings.Builder
	builder.WriteString(resource.path)
	for _, segment := range segments {
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(segment))
	}
	return builder.String()
}

// PageQuery starts a list query for a 1-indexed page.
func PageQuery(page, limit int) url.Values {
	return url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
}

// List fetches one page. The total falls back to the page length when the
// server sends no meta.
func (resource *Resource[T]) List(ctx context.Context, query url.Values) ([]*T, int, error) {
	var items []*T
	meta, err := resource.client.Get(ctx, resource.path, query, &items)
	if err != nil {
		return nil, 0, err
	}

	if items == nil {
		items = []*T{}
	}
	if meta == nil {
		return items, len(items), nil
	}
	return items, meta.Total, nil
}

// Get fetches one item.
func (resource *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	item := new(T)
	if _, err := resource.client.Get(ctx, resource.Path(id), nil, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Create posts input and returns the stored item.
func (resource *Resource[T]) Create(ctx context.Context, input any) (*T, error) {
	item := new(T)
	if err := resource.client.Post(ctx, resource.path, input, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update replaces the item and returns its stored form.
func (resource *Resource[T]) Update(ctx context.Context, id string, input any) (*T, error) {
	item := new(T)
	if err := resource.client.Put(ctx, resource.Path(id), input, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the item.
func (resource *Resource[T]) Delete(ctx context.Context, id string) error {
	return resource.client.Delete(ctx, resource.Path(id))
}
