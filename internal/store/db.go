package store

import (
	"context"
	"database/sql"
)

// DBTX is the read surface the stores need. It is implemented by both
// *sql.DB and *sql.Tx, so a store works with a pool or inside a transaction.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
