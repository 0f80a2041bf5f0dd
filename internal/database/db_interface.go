package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Querier is the subset of sqlx used by repositories. Both *sqlx.DB and
// *sqlx.Tx satisfy it, so repository methods work inside a transaction.
type Querier interface {
	// GetContext scans a single row into dest.
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// SelectContext scans all rows into the slice dest.
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// ExecContext executes a query without returning any rows.
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// QueryRowxContext executes a query expected to return at most one row.
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row

	// Rebind converts "?" placeholders to the driver's bindvar style.
	Rebind(query string) string

	// DriverName returns the name of the driver in use.
	DriverName() string
}

var (
	_ Querier = (*sqlx.DB)(nil)
	_ Querier = (*sqlx.Tx)(nil)
)
