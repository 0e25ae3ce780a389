// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import "context"

type Repository interface {
	Insert(context context.Context, entry *Entry) error
	List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error)
}
