// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package decisiontype

import (
	"context"

	"github.com/taibuivan/courtdesk/pkg/pagination"
)

type Repository interface {
	List(context context.Context, query string, params pagination.Params) ([]*DecisionType, int, error)
	Get(context context.Context, id string) (*DecisionType, error)
	Create(context context.Context, input *Input) (*DecisionType, error)
	Update(context context.Context, id string, input *Input) (*DecisionType, error)
	Delete(context context.Context, id string) error
}
