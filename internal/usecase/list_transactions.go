package usecase

import (
	"context"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
)

const defaultTransactionListLimit = 50

type ListTransactionsUseCase struct {
	logs gateway.TransactionLogRepository
}

func NewListTransactions(logs gateway.TransactionLogRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{logs: logs}
}

// Execute returns walletID's transaction history, most recent first. A
// limit of 0 or less falls back to defaultTransactionListLimit.
func (u *ListTransactionsUseCase) Execute(ctx context.Context, walletID string, limit int) ([]*domain.TransactionLog, error) {
	if limit <= 0 {
		limit = defaultTransactionListLimit
	}
	return u.logs.ListByWallet(ctx, walletID, limit)
}
