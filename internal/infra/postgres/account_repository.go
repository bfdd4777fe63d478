package postgres

import (
	"fmt"

	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

type AccountRepository struct {
	pool querier
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: poolQuerier{pool}}
}

func (r *AccountRepository) Create(ctx context.Context, initialBalance money.Decimal) (*domain.Account, error) {
	const q = `
		INSERT INTO accounts (id, balance, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, now(), now())
		RETURNING id, balance, created_at, updated_at`

	account, err := scanAccount(r.pool.QueryRow(ctx, q, money.ToFixed(initialBalance, domain.AccountScale)))
	if err != nil {
		return nil, fmt.Errorf("create account: %w", translateError(err))
	}
	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const q = `SELECT id, balance, created_at, updated_at FROM accounts WHERE id = $1`
	account, err := scanAccount(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, translateError(err)
	}
	return account, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	const q = `UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, q, money.ToFixed(a.Balance, domain.AccountScale), a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("update account %s: %w", a.ID, translateError(err))
	}
	return nil
}

func (r *AccountRepository) WithTx(tx gateway.TransactionObject) gateway.AccountRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &AccountRepository{pool: txQuerier{pgTx}}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a           domain.Account
		balanceText string
	)
	if err := row.Scan(&a.ID, &balanceText, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	balance, err := money.FromString(balanceText)
	if err != nil {
		return nil, fmt.Errorf("parse account balance: %w", err)
	}
	a.Balance = balance
	return &a, nil
}
