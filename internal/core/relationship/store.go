// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relationship

import (
	"context"

	"github.com/taibuivan/courtdesk/pkg/pagination"
)

// Repository is the persistence boundary for the taxonomy.
type Repository interface {
	List(context context.Context, filter Filter, params pagination.Params) ([]*LegalRelationship, int, error)
	Get(context context.Context, id string) (*LegalRelationship, error)
	Create(context context.Context, input *Input) (*LegalRelationship, error)
	Update(context context.Context, id string, input *Input) (*LegalRelationship, error)
	Delete(context context.Context, id string) error
}
