package usecase

import (
	"context"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
)

const defaultInterestHistoryLimit = 30

type ListInterestHistoryUseCase struct {
	interestLogs gateway.InterestLogRepository
}

func NewListInterestHistory(interestLogs gateway.InterestLogRepository) *ListInterestHistoryUseCase {
	return &ListInterestHistoryUseCase{interestLogs: interestLogs}
}

// Execute returns accountID's interest history, most recent
// calculation_date first. A limit of 0 or less falls back to
// defaultInterestHistoryLimit.
func (u *ListInterestHistoryUseCase) Execute(ctx context.Context, accountID string, limit int) ([]*domain.InterestLog, error) {
	if limit <= 0 {
		limit = defaultInterestHistoryLimit
	}
	return u.interestLogs.ListByAccount(ctx, accountID, limit)
}
