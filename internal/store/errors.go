// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all PressDesk
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
//
// Lookups return nil, nil when the row does not exist. Mutations of a
// missing row return ErrNotFound.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"pressdesk/internal/tree"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrSlugTaken  = errors.New("slug is already in use")
	ErrEmailTaken = errors.New("email is already in use")

	// ErrInvalidReference is returned when a foreign key points at a row
	// that does not exist (for example an unknown parent category).
	ErrInvalidReference = errors.New("referenced record does not exist")

	// ErrInUse is returned when a row cannot be deleted because other rows
	// still reference it (for example a user who authored posts).
	ErrInUse = errors.New("record is still referenced")

	ErrCategoryCycle       = tree.ErrCycle
	ErrCategoryHasChildren = tree.ErrHasChildren
	ErrSelfDelete          = errors.New("you cannot delete your own account")
)

// Postgres error codes mapped to sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapWriteError converts constraint violations into sentinels. onUnique is
// the sentinel for a unique violation on the table being written.
func mapWriteError(err, onUnique error) error {
	switch pgCode(err) {
	case pgUniqueViolation:
		return onUnique
	case pgForeignKeyViolation:
		return ErrInvalidReference
	}
	return err
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// idStrings renders ids for an `= ANY($n::uuid[])` parameter.
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// affected returns ErrNotFound when a statement touched no rows.
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
