package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

// WalletRepository implements gateway.WalletRepository directly over
// pgx/v5: the SQL is hand-written as a query constant inside each method,
// scanned into typed fields with no query-builder or generated layer in
// between.
type WalletRepository struct {
	pool querier
}

func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: poolQuerier{pool}}
}

func (r *WalletRepository) Create(ctx context.Context, initialBalance money.Decimal) (*domain.Wallet, error) {
	const q = `
		INSERT INTO wallets (id, balance, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, now(), now())
		RETURNING id, balance, created_at, updated_at`

	row := r.pool.QueryRow(ctx, q, money.ToFixed(initialBalance, domain.WalletScale))
	return scanWallet(row)
}

func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	const q = `SELECT id, balance, created_at, updated_at FROM wallets WHERE id = $1`
	w, err := scanWallet(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, translateError(err)
	}
	return w, nil
}

func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Wallet, error) {
	const q = `SELECT id, balance, created_at, updated_at FROM wallets WHERE id = $1 FOR UPDATE`
	w, err := scanWallet(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, translateError(err)
	}
	return w, nil
}

func (r *WalletRepository) Update(ctx context.Context, w *domain.Wallet) error {
	const q = `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, q, money.ToFixed(w.Balance, domain.WalletScale), w.UpdatedAt, w.ID)
	if err != nil {
		return fmt.Errorf("update wallet %s: %w", w.ID, translateError(err))
	}
	return nil
}

func (r *WalletRepository) WithTx(tx gateway.TransactionObject) gateway.WalletRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &WalletRepository{pool: txQuerier{pgTx}}
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		w           domain.Wallet
		balanceText string
	)
	if err := row.Scan(&w.ID, &balanceText, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	balance, err := money.FromString(balanceText)
	if err != nil {
		return nil, fmt.Errorf("parse wallet balance: %w", err)
	}
	w.Balance = balance
	return &w, nil
}
