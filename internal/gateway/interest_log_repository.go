package gateway

import (
	"context"
	"time"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
)

// InterestLogRepository persists the append-only, immutable daily
// interest application.
type InterestLogRepository interface {
	// Insert writes a new row. Returns ErrUniqueViolation when
	// (AccountID, CalculationDate) already exists.
	Insert(ctx context.Context, log *domain.InterestLog) error

	// FindByAccountAndDate is an auto-commit read used both for the
	// replay fast path and to resolve a unique-violation race. Returns
	// ErrNotFound when absent.
	FindByAccountAndDate(ctx context.Context, accountID string, date time.Time) (*domain.InterestLog, error)

	// ListByAccount returns rows ordered by CalculationDate descending,
	// capped at limit.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.InterestLog, error)

	// WithTx rebinds the repository to participate in tx.
	WithTx(tx TransactionObject) InterestLogRepository
}
