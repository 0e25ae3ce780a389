// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package legalcase

import (
	"context"

	"github.com/taibuivan/courtdesk/pkg/pagination"
)

// Repository is the persistence boundary for cases.
type Repository interface {
	List(context context.Context, filter Filter, params pagination.Params) ([]*LegalCase, int, error)
	Get(context context.Context, id string) (*LegalCase, error)
	Create(context context.Context, input *Input) (*LegalCase, error)
	Update(context context.Context, id string, input *Input) (*LegalCase, error)
	Delete(context context.Context, id string) error
}
