package gateway

import (
	"context"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

// WalletRepository is the persistence contract for Wallet. The usecase
// layer only depends on this interface, never on a concrete driver.
type WalletRepository interface {
	Create(ctx context.Context, initialBalance money.Decimal) (*domain.Wallet, error)
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)

	// GetByIDForUpdate acquires the exclusive row lock (SELECT ... FOR
	// UPDATE), blocking concurrent lockers until the holder's
	// transaction ends. Returns ErrNotFound, never a nil/nil pair.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Wallet, error)

	// Update persists w's Balance and UpdatedAt. Callers must hold w's
	// row lock (via GetByIDForUpdate) within the same transaction.
	Update(ctx context.Context, w *domain.Wallet) error

	// WithTx rebinds the repository to participate in tx.
	WithTx(tx TransactionObject) WalletRepository
}
