package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var readCommitted = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

// WithTx runs fn in a read-committed transaction. It commits when fn returns
// nil and rolls back otherwise; fn's error is returned unchanged.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, pool, readCommitted, fn)
}
