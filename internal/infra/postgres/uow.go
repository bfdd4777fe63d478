package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
)

// Uow implements gateway.TransactionManager over a pgxpool.Pool.
type Uow struct {
	pool *pgxpool.Pool
}

func NewUow(pool *pgxpool.Pool) *Uow {
	return &Uow{pool: pool}
}

func (u *Uow) Run(ctx context.Context, isolation gateway.Isolation, fn func(ctx context.Context) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: toPgxIsolation(isolation)})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	txCtx := context.WithValue(ctx, gateway.TransactionKey, tx)

	if err := fn(txCtx); err != nil {
		return translateError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return translateError(err)
	}
	committed = true
	return nil
}

func toPgxIsolation(isolation gateway.Isolation) pgx.TxIsoLevel {
	if isolation == gateway.Serializable {
		return pgx.Serializable
	}
	return pgx.ReadCommitted
}
