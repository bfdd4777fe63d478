package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgconnCommandTag aliases pgconn.CommandTag so querier's Exec signature
// doesn't have to repeat the import in every repository file.
type pgconnCommandTag = pgconn.CommandTag

// querier is satisfied by both *pgxpool.Pool and pgx.Tx (via poolQuerier
// and txQuerier), so the same repository code serves auto-commit reads
// and WithTx-bound writes.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconnCommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// poolQuerier and txQuerier let every repository's query methods run
// unchanged whether they're bound to the shared pool (auto-commit reads)
// or to a transaction handed in via WithTx.
type poolQuerier struct{ pool *pgxpool.Pool }

func (q poolQuerier) Exec(ctx context.Context, sql string, args ...interface{}) (pgconnCommandTag, error) {
	return q.pool.Exec(ctx, sql, args...)
}

func (q poolQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return q.pool.QueryRow(ctx, sql, args...)
}

func (q poolQuerier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return q.pool.Query(ctx, sql, args...)
}

type txQuerier struct{ tx pgx.Tx }

func (q txQuerier) Exec(ctx context.Context, sql string, args ...interface{}) (pgconnCommandTag, error) {
	return q.tx.Exec(ctx, sql, args...)
}

func (q txQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return q.tx.QueryRow(ctx, sql, args...)
}

func (q txQuerier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return q.tx.Query(ctx, sql, args...)
}
