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

func TestIsLeapYear(t *testing.T) {
	cases := map[int]bool{
		2024: true, 2023: false, 2000: true, 1900: false, 2100: false, 2400: true,
	}
	for year, want := range cases {
		assert.Equal(t, want, isLeapYear(year), "year %d", year)
	}
}

func TestDaysInYear(t *testing.T) {
	assert.Equal(t, 366, daysInYear(2024))
	assert.Equal(t, 365, daysInYear(2023))
	assert.Equal(t, 365, daysInYear(1900))
}

func newTestInterestEngine(accounts *fakeAccountRepository) (*InterestEngine, *fakeInterestLogRepository) {
	logs := newFakeInterestLogRepository()
	engine := NewInterestEngine(accounts, logs, &fakeTxManager{})
	return engine, logs
}

func TestInterestEngine_CalculateDaily_Applies(t *testing.T) {
	account := &domain.Account{ID: "a1", Balance: money.MustFromString("1000.00000000"), CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	accounts := newFakeAccountRepository(account)
	engine, logs := newTestInterestEngine(accounts)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := engine.CalculateDaily(context.Background(), "a1", date)
	require.NoError(t, err)
	assert.True(t, result.IsNew)
	assert.Equal(t, 366, result.Log.DaysInYear, "2024 is a leap year")
	assert.Equal(t, "1000.00000000", money.ToFixed(result.Log.PrincipalBalance, domain.AccountScale))

	wantInterest := money.ToFixedDecimal(money.Mul(money.MustFromString("1000.00000000"), dailyRate(2024)), domain.AccountScale)
	assert.Equal(t, money.ToFixed(wantInterest, domain.AccountScale), money.ToFixed(result.Log.InterestAmount, domain.AccountScale))

	updated, err := accounts.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, money.ToFixed(result.Log.NewBalance, domain.AccountScale), money.ToFixed(updated.Balance, domain.AccountScale))

	found, err := logs.FindByAccountAndDate(context.Background(), "a1", date)
	require.NoError(t, err)
	assert.Equal(t, result.Log.ID, found.ID)
}

func TestInterestEngine_CalculateDaily_Replay(t *testing.T) {
	account := &domain.Account{ID: "a1", Balance: money.MustFromString("1000.00000000"), CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	accounts := newFakeAccountRepository(account)
	engine, _ := newTestInterestEngine(accounts)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	first, err := engine.CalculateDaily(context.Background(), "a1", date)
	require.NoError(t, err)
	require.True(t, first.IsNew)

	second, err := engine.CalculateDaily(context.Background(), "a1", date)
	require.NoError(t, err)
	assert.False(t, second.IsNew)
	assert.Equal(t, first.Log.ID, second.Log.ID)

	updated, err := accounts.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, money.ToFixed(first.Log.NewBalance, domain.AccountScale), money.ToFixed(updated.Balance, domain.AccountScale),
		"a replayed day must not re-apply interest")
}

func TestInterestEngine_CalculateDaily_AccountNotFound(t *testing.T) {
	accounts := newFakeAccountRepository()
	engine, _ := newTestInterestEngine(accounts)

	_, err := engine.CalculateDaily(context.Background(), "missing", time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestInterestEngine_CalculateForRange_Compounds(t *testing.T) {
	account := &domain.Account{ID: "a1", Balance: money.MustFromString("1000.00000000"), CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	accounts := newFakeAccountRepository(account)
	engine, _ := newTestInterestEngine(accounts)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	results, err := engine.CalculateForRange(context.Background(), "a1", start, end)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i := 1; i < len(results); i++ {
		assert.Equal(t, results[i-1].Log.NewBalance, results[i].Log.PrincipalBalance,
			"day %d's principal must be the prior day's new balance", i)
	}

	updated, err := accounts.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, money.ToFixed(results[2].Log.NewBalance, domain.AccountScale), money.ToFixed(updated.Balance, domain.AccountScale))
}

func TestInterestEngine_CalculateDaily_NormalizesTimeOfDay(t *testing.T) {
	account := &domain.Account{ID: "a1", Balance: money.MustFromString("500.00000000"), CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	accounts := newFakeAccountRepository(account)
	engine, _ := newTestInterestEngine(accounts)

	morning := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	first, err := engine.CalculateDaily(context.Background(), "a1", morning)
	require.NoError(t, err)
	require.True(t, first.IsNew)

	evening := time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC)
	second, err := engine.CalculateDaily(context.Background(), "a1", evening)
	require.NoError(t, err)
	assert.False(t, second.IsNew, "same UTC calendar date must replay regardless of time of day")
	assert.Equal(t, first.Log.ID, second.Log.ID)
}
