// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the identifiers Courtdesk mints itself: request
correlation ids and audit entry keys.

Version 7 values sort by creation time, so audit rows and request logs line
up with the clock without a separate sequence.
*/
package uuid

import "github.com/google/uuid"

// New returns a UUIDv7 string. If the clock-based generator fails it falls
// back to a random (v4) value rather than failing the caller.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

