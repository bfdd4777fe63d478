package usecase

import (
	"context"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
)

const defaultLedgerListLimit = 50

type ListLedgerUseCase struct {
	ledgers gateway.LedgerRepository
}

func NewListLedger(ledgers gateway.LedgerRepository) *ListLedgerUseCase {
	return &ListLedgerUseCase{ledgers: ledgers}
}

// Execute returns walletID's double-entry history, most recent first. A
// limit of 0 or less falls back to defaultLedgerListLimit.
func (u *ListLedgerUseCase) Execute(ctx context.Context, walletID string, limit int) ([]*domain.Ledger, error) {
	if limit <= 0 {
		limit = defaultLedgerListLimit
	}
	return u.ledgers.ListByWallet(ctx, walletID, limit)
}
