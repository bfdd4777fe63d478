package gateway

import (
	"context"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
)

// LedgerRepository persists the append-only, immutable double-entry rows
// a completed transfer produces.
type LedgerRepository interface {
	// InsertPair writes both the DEBIT and CREDIT row for one completed
	// transfer in a single call, so callers cannot accidentally persist
	// one without the other.
	InsertPair(ctx context.Context, debit, credit *domain.Ledger) error

	// ListByWallet returns the wallet's ledger rows, descending by
	// CreatedAt, capped at limit. Each row carries its TransactionLogID
	// only; the transaction log itself is not joined in.
	ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.Ledger, error)

	// WithTx rebinds the repository to participate in tx.
	WithTx(tx TransactionObject) LedgerRepository
}
