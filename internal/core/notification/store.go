// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"

	"github.com/taibuivan/courtdesk/pkg/pagination"
)

type Repository interface {
	List(context context.Context, filter Filter, params pagination.Params) ([]*Notification, int, error)
	Get(context context.Context, id string) (*Notification, error)
	Create(context context.Context, input *Input) (*Notification, error)
	Update(context context.Context, id string, input *Input) (*Notification, error)
	Delete(context context.Context, id string) error

	// MarkRead flags one notification read for the signed-in user.
	MarkRead(context context.Context, id string) (*Notification, error)

	// MarkAllRead flags every notification read and returns how many changed.
	MarkAllRead(context context.Context) (int, error)
}
