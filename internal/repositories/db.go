package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx shared by *pgxpool.Pool, pgx.Tx and the
// pgxmock pool, so repositories work unchanged inside and outside a
// transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// DB additionally opens transactions. The booking flow is the only caller
// of Begin in this codebase.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}
