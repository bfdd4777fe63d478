package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

func TestListInterestHistoryUseCase_Execute(t *testing.T) {
	logs := newFakeInterestLogRepository()
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, logs.Insert(context.Background(), &domain.InterestLog{
		ID: "i1", AccountID: "a1", CalculationDate: day1,
		PrincipalBalance: money.MustFromString("100.00000000"), InterestAmount: money.MustFromString("0.07513661"),
		NewBalance: money.MustFromString("100.07513661"), AnnualRate: money.MustFromString("0.275000"), DaysInYear: 366,
		CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, logs.Insert(context.Background(), &domain.InterestLog{
		ID: "i2", AccountID: "a1", CalculationDate: day2,
		PrincipalBalance: money.MustFromString("100.07513661"), InterestAmount: money.MustFromString("0.07519307"),
		NewBalance: money.MustFromString("100.15032968"), AnnualRate: money.MustFromString("0.275000"), DaysInYear: 366,
		CreatedAt: time.Now().UTC(),
	}))

	uc := NewListInterestHistory(logs)
	results, err := uc.Execute(context.Background(), "a1", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "i2", results[0].ID, "most recent calculation_date first")
}
