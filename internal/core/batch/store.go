// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package batch

import (
	"context"

	"github.com/taibuivan/courtdesk/pkg/pagination"
)

// Repository is the persistence boundary for batches.
type Repository interface {
	List(context context.Context, filter Filter, params pagination.Params) ([]*Batch, int, error)
	Get(context context.Context, id string) (*Batch, error)
	Create(context context.Context, input *Input) (*Batch, error)
	Update(context context.Context, id string, input *Input) (*Batch, error)
	Delete(context context.Context, id string) error

	// Import submits parsed rows. The API answers with its own accepted count
	// and row rejections.
	Import(context context.Context, id string, rows []Row) (*ImportReport, error)
}
