package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queryable is the subset of pgx operations shared by pools, connections and
// transactions. Repositories run against whichever one the context carries.
type Queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type txKey struct{}

// WithTx runs fn inside a single transaction. The transaction is placed in
// the context so that repository calls made from fn share it; it is rolled
// back if fn returns an error and committed otherwise.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ConnFromContext returns the transaction carried by ctx, or nil when the
// caller is not inside WithTx.
func ConnFromContext(ctx context.Context) Queryable {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	if tx == nil {
		return nil
	}
	return tx
}
