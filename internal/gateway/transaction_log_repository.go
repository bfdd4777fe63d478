package gateway

import (
	"context"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
)

// TransactionLogRepository persists the idempotency/state-machine record
// for a transfer attempt.
type TransactionLogRepository interface {
	// Insert writes a new row with log's status: PENDING on the transfer
	// path, FAILED for the best-effort failure marker. Returns
	// ErrUniqueViolation when IdempotencyKey already exists.
	Insert(ctx context.Context, log *domain.TransactionLog) error

	// FindByIdempotencyKey is an auto-commit read (no lock held); used
	// both on the fast replay path and to resolve a unique-violation
	// race. Returns ErrNotFound when absent.
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.TransactionLog, error)

	// UpdateStatus transitions a PENDING row to COMPLETED or FAILED.
	// Callers must only invoke this once per row (state machine is
	// one-shot); the repository does not re-validate the prior status.
	UpdateStatus(ctx context.Context, log *domain.TransactionLog) error

	// ListByWallet returns the union of rows where the wallet is source
	// or destination, descending by CreatedAt, capped at limit.
	ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.TransactionLog, error)

	// WithTx rebinds the repository to participate in tx.
	WithTx(tx TransactionObject) TransactionLogRepository
}
