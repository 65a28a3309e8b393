// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
)

// schema is written in the subset of SQL shared by PostgreSQL and SQLite. Timestamps are
// stored as unix milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS meetings (
		uid             TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		agenda          TEXT NOT NULL DEFAULT '',
		selected_dates  TEXT NOT NULL DEFAULT '[]',
		start_time      TEXT NOT NULL,
		end_time        TEXT NOT NULL,
		date_rule       TEXT NOT NULL DEFAULT '',
		date_rule_start TEXT NOT NULL DEFAULT '',
		created_by      TEXT NOT NULL,
		created_at      BIGINT NOT NULL,
		updated_at      BIGINT NOT NULL,
		revision        BIGINT NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS meeting_availability (
		meeting_uid TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		slots       TEXT NOT NULL DEFAULT '[]',
		created_at  BIGINT NOT NULL,
		updated_at  BIGINT NOT NULL,
		PRIMARY KEY (meeting_uid, user_id)
	)`,
}

// Migrate creates the tables used by the SQL repositories when they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// sqlError translates a database error into a domain error. notFound is wrapped when
// the statement matched no row.
func sqlError(ctx context.Context, err error, entity string, notFound error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.NewNotFoundError(entity+" not found", notFound, err)
	case isUniqueViolation(err):
		return domain.NewConflictError(entity+" already exists", domain.ErrRevisionMismatch, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.NewUnavailableError("store did not respond in time", domain.ErrServiceUnavailable, err)
	}
	slog.ErrorContext(ctx, "sql store error", logging.ErrKey, err, "entity", entity)
	return domain.NewInternalError(fmt.Sprintf("%s store operation failed", entity), domain.ErrInternal, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// SQLite reports constraint failures only through the message.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
