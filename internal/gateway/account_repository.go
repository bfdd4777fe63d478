package gateway

import (
	"context"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

// AccountRepository is the persistence contract for the interest
// accumulator's Account entity.
type AccountRepository interface {
	Create(ctx context.Context, initialBalance money.Decimal) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// Update persists a.Balance and UpdatedAt.
	Update(ctx context.Context, a *domain.Account) error

	// WithTx rebinds the repository to participate in tx.
	WithTx(tx TransactionObject) AccountRepository
}
