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

type TransactionLogRepository struct {
	pool querier
}

func NewTransactionLogRepository(pool *pgxpool.Pool) *TransactionLogRepository {
	return &TransactionLogRepository{pool: poolQuerier{pool}}
}

func (r *TransactionLogRepository) Insert(ctx context.Context, log *domain.TransactionLog) error {
	const q = `
		INSERT INTO transaction_logs (id, idempotency_key, from_wallet_id, to_wallet_id, amount, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, q,
		log.ID, log.IdempotencyKey, log.FromWalletID, log.ToWalletID,
		money.ToFixed(log.Amount, domain.WalletScale), string(log.Status), nullableText(log.ErrorMessage),
		log.CreatedAt, log.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction log: %w", translateError(err))
	}
	return nil
}

func (r *TransactionLogRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.TransactionLog, error) {
	const q = `
		SELECT id, idempotency_key, from_wallet_id, to_wallet_id, amount, status, coalesce(error_message, ''), created_at, updated_at
		FROM transaction_logs WHERE idempotency_key = $1`

	log, err := scanTransactionLog(r.pool.QueryRow(ctx, q, key))
	if err != nil {
		return nil, translateError(err)
	}
	return log, nil
}

func (r *TransactionLogRepository) UpdateStatus(ctx context.Context, log *domain.TransactionLog) error {
	const q = `UPDATE transaction_logs SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4`
	_, err := r.pool.Exec(ctx, q, string(log.Status), nullableText(log.ErrorMessage), log.UpdatedAt, log.ID)
	if err != nil {
		return fmt.Errorf("update transaction log %s: %w", log.ID, translateError(err))
	}
	return nil
}

func (r *TransactionLogRepository) ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.TransactionLog, error) {
	const q = `
		SELECT id, idempotency_key, from_wallet_id, to_wallet_id, amount, status, coalesce(error_message, ''), created_at, updated_at
		FROM transaction_logs
		WHERE from_wallet_id = $1 OR to_wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, q, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transaction logs for wallet %s: %w", walletID, translateError(err))
	}
	defer rows.Close()

	var logs []*domain.TransactionLog
	for rows.Next() {
		log, err := scanTransactionLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction log row: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *TransactionLogRepository) WithTx(tx gateway.TransactionObject) gateway.TransactionLogRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &TransactionLogRepository{pool: txQuerier{pgTx}}
}

// rowScanner abstracts pgx.Row and pgx.Rows, both exposing Scan.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransactionLog(row rowScanner) (*domain.TransactionLog, error) {
	var (
		log         domain.TransactionLog
		status      string
		amountText  string
	)
	if err := row.Scan(
		&log.ID, &log.IdempotencyKey, &log.FromWalletID, &log.ToWalletID,
		&amountText, &status, &log.ErrorMessage, &log.CreatedAt, &log.UpdatedAt,
	); err != nil {
		return nil, err
	}
	amount, err := money.FromString(amountText)
	if err != nil {
		return nil, fmt.Errorf("parse transaction log amount: %w", err)
	}
	log.Amount = amount
	log.Status = domain.TransactionStatus(status)
	return &log, nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
