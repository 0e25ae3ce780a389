// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/courtdesk/internal/platform/database/schema"
	"github.com/taibuivan/courtdesk/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Insert(context context.Context, entry *Entry) error {
	table := schema.SystemAuditLog
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING %s
	`,
		table.Table, table.ID, table.ActorID, table.ActorRole, table.Action, table.EntityType,
		table.EntityID, table.After, table.IPAddress, table.RequestID, table.CreatedAt,
		table.CreatedAt,
	)

	var after any
	if len(entry.After) > 0 {
		after = string(entry.After)
	}

	err := repository.db.QueryRow(context, query,
		entry.ID, entry.ActorID, entry.ActorRole, string(entry.Action), entry.EntityType,
		entry.EntityID, after, entry.IPAddress, entry.RequestID,
	).Scan(&entry.CreatedAt)

	return dberr.Wrap(err, "insert_audit_entry")
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error) {
	table := schema.SystemAuditLog

	// 1. Build the shared WHERE clause
	var (
		conditions []string
		args       []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, column+" = $"+strconv.Itoa(len(args)))
	}
	add(table.ActorID, filter.ActorID)
	add(table.EntityType, filter.EntityType)
	add(table.Action, string(filter.Action))

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	// 2. Count
	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, table.Table) + where
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_audit_entries")
	}

	// 3. Page
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, COALESCE(%s::text, ''), %s, %s, %s
		FROM %s`,
		table.ID, table.ActorID, table.ActorRole, table.Action, table.EntityType, table.EntityID,
		table.After, table.IPAddress, table.RequestID, table.CreatedAt,
		table.Table,
	) + where + fmt.Sprintf(" ORDER BY %s DESC LIMIT $%d OFFSET $%d", table.CreatedAt, len(args)+1, len(args)+2)

	rows, err := repository.db.Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_audit_entries")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			entry  = &Entry{}
			action string
			after  string
		)
		if err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.ActorRole, &action, &entry.EntityType, &entry.EntityID,
			&after, &entry.IPAddress, &entry.RequestID, &entry.CreatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_audit_entry")
		}
		entry.Action = Action(action)
		if after != "" {
			entry.After = []byte(after)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_audit_entries")
	}

	return entries, total, nil
}
