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

type LedgerRepository struct {
	pool querier
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: poolQuerier{pool}}
}

// InsertPair writes both rows in a single round trip so a caller can
// never accidentally persist one without the other (invariant I2).
func (r *LedgerRepository) InsertPair(ctx context.Context, debit, credit *domain.Ledger) error {
	const q = `
		INSERT INTO ledgers (id, wallet_id, transaction_log_id, entry_type, amount, balance_before, balance_after, description, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9),
			($10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.pool.Exec(ctx, q,
		debit.ID, debit.WalletID, debit.TransactionLogID, string(debit.EntryType),
		money.ToFixed(debit.Amount, domain.WalletScale), money.ToFixed(debit.BalanceBefore, domain.WalletScale), money.ToFixed(debit.BalanceAfter, domain.WalletScale),
		nullableText(debit.Description), debit.CreatedAt,

		credit.ID, credit.WalletID, credit.TransactionLogID, string(credit.EntryType),
		money.ToFixed(credit.Amount, domain.WalletScale), money.ToFixed(credit.BalanceBefore, domain.WalletScale), money.ToFixed(credit.BalanceAfter, domain.WalletScale),
		nullableText(credit.Description), credit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger pair for transaction %s: %w", debit.TransactionLogID, translateError(err))
	}
	return nil
}

func (r *LedgerRepository) ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.Ledger, error) {
	const q = `
		SELECT id, wallet_id, transaction_log_id, entry_type, amount, balance_before, balance_after, coalesce(description, ''), created_at
		FROM ledgers
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, q, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger rows for wallet %s: %w", walletID, translateError(err))
	}
	defer rows.Close()

	var entries []*domain.Ledger
	for rows.Next() {
		entry, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *LedgerRepository) WithTx(tx gateway.TransactionObject) gateway.LedgerRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &LedgerRepository{pool: txQuerier{pgTx}}
}

func scanLedger(row rowScanner) (*domain.Ledger, error) {
	var (
		entry                                       domain.Ledger
		entryType                                   string
		amountText, balanceBeforeText, balanceAfterText string
	)
	if err := row.Scan(
		&entry.ID, &entry.WalletID, &entry.TransactionLogID, &entryType,
		&amountText, &balanceBeforeText, &balanceAfterText, &entry.Description, &entry.CreatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if entry.Amount, err = money.FromString(amountText); err != nil {
		return nil, fmt.Errorf("parse ledger amount: %w", err)
	}
	if entry.BalanceBefore, err = money.FromString(balanceBeforeText); err != nil {
		return nil, fmt.Errorf("parse ledger balance_before: %w", err)
	}
	if entry.BalanceAfter, err = money.FromString(balanceAfterText); err != nil {
		return nil, fmt.Errorf("parse ledger balance_after: %w", err)
	}
	entry.EntryType = domain.EntryType(entryType)
	return &entry, nil
}
