// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/courtdesk/internal/platform/apperr"
)

// SQLSTATE classes the audit store can hit.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeUndefinedTable      = "42P01"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Record")
	}

	// 2. Constraint violations
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case codeUniqueViolation:
			return apperr.Conflict("Record already exists")
		case codeForeignKeyViolation:
			return apperr.Unprocessable("Referenced record does not exist")
		case codeUndefinedTable:
			return apperr.Internal(fmt.Errorf("%s: schema not migrated: %w", action, err))
		}
	}

	// 3. Anything else is an internal error
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
