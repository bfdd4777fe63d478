package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

func newTestWallet(id, balance string) *domain.Wallet {
	return &domain.Wallet{ID: id, Balance: money.MustFromString(balance), CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
}

func newTestTransferEngine(wallets *fakeWalletRepository) (*TransferEngine, *fakeTransactionLogRepository, *fakeLedgerRepository, *fakeEventPublisher) {
	logs := newFakeTransactionLogRepository()
	ledgers := newFakeLedgerRepository()
	publisher := &fakeEventPublisher{}
	engine := NewTransferEngine(wallets, logs, ledgers, &fakeTxManager{}, publisher)
	return engine, logs, ledgers, publisher
}

func TestTransferEngine_Execute_Success(t *testing.T) {
	wallets := newFakeWalletRepository(newTestWallet("w1", "100.00"), newTestWallet("w2", "0.00"))
	engine, _, ledgers, publisher := newTestTransferEngine(wallets)

	result, err := engine.Execute(context.Background(), TransferInput{
		IdempotencyKey: "key-1",
		FromWalletID:   "w1",
		ToWalletID:     "w2",
		Amount:         money.MustFromString("40.00"),
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.IsIdempotent)
	assert.Equal(t, domain.StatusCompleted, result.Log.Status)

	from, err := wallets.GetByID(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, "60.00", money.ToFixed(from.Balance, domain.WalletScale))

	to, err := wallets.GetByID(context.Background(), "w2")
	require.NoError(t, err)
	assert.Equal(t, "40.00", money.ToFixed(to.Balance, domain.WalletScale))

	assert.Len(t, ledgers.entries, 2)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, "transaction.completed", publisher.events[0].RoutingKey)
}

func TestTransferEngine_Execute_Replay(t *testing.T) {
	wallets := newFakeWalletRepository(newTestWallet("w1", "100.00"), newTestWallet("w2", "0.00"))
	engine, _, _, publisher := newTestTransferEngine(wallets)

	input := TransferInput{IdempotencyKey: "key-1", FromWalletID: "w1", ToWalletID: "w2", Amount: money.MustFromString("40.00")}
	first, err := engine.Execute(context.Background(), input)
	require.NoError(t, err)
	require.False(t, first.IsIdempotent)

	second, err := engine.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, second.IsIdempotent)
	assert.Equal(t, first.Log.ID, second.Log.ID)

	from, err := wallets.GetByID(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, "60.00", money.ToFixed(from.Balance, domain.WalletScale), "replay must not debit twice")

	assert.Len(t, publisher.events, 1, "replay must not publish a second event")
}

func TestTransferEngine_Execute_InsufficientFunds(t *testing.T) {
	wallets := newFakeWalletRepository(newTestWallet("w1", "10.00"), newTestWallet("w2", "0.00"))
	engine, logs, _, _ := newTestTransferEngine(wallets)

	result, err := engine.Execute(context.Background(), TransferInput{
		IdempotencyKey: "key-1", FromWalletID: "w1", ToWalletID: "w2", Amount: money.MustFromString("40.00"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.False(t, result.Success)
	assert.Equal(t, domain.StatusFailed, result.Log.Status)

	log, ferr := logs.FindByIdempotencyKey(context.Background(), "key-1")
	require.NoError(t, ferr)
	assert.Equal(t, domain.StatusFailed, log.Status)
}

func TestTransferEngine_Execute_WalletNotFound(t *testing.T) {
	wallets := newFakeWalletRepository(newTestWallet("w1", "100.00"))
	engine, _, _, _ := newTestTransferEngine(wallets)

	result, err := engine.Execute(context.Background(), TransferInput{
		IdempotencyKey: "key-1", FromWalletID: "w1", ToWalletID: "missing", Amount: money.MustFromString("10.00"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	assert.Equal(t, domain.StatusFailed, result.Log.Status)
}

func TestTransferEngine_Execute_RejectsInvalidInput(t *testing.T) {
	wallets := newFakeWalletRepository(newTestWallet("w1", "100.00"), newTestWallet("w2", "0.00"))
	engine, _, _, _ := newTestTransferEngine(wallets)

	_, err := engine.Execute(context.Background(), TransferInput{FromWalletID: "w1", ToWalletID: "w2", Amount: money.MustFromString("10.00")})
	assert.ErrorIs(t, err, domain.ErrMissingIdempotencyKey)

	_, err = engine.Execute(context.Background(), TransferInput{IdempotencyKey: "k", FromWalletID: "w1", ToWalletID: "w2", Amount: money.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)

	_, err = engine.Execute(context.Background(), TransferInput{IdempotencyKey: "k", FromWalletID: "w1", ToWalletID: "w1", Amount: money.MustFromString("1.00")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
}

// TestTransferEngine_Execute_ConcurrentDuplicateRacesToSameLog fires two
// callers with the same idempotency key at once. When both pass the Step A
// fast-path check (nothing committed yet), the race is decided by
// fakeTransactionLogRepository.Insert's own unique-key check, exercising
// attempt()'s errReplayAfterRace branch in whichever caller loses it; when
// the second caller starts after the first committed, it replays via
// Step A instead. Either way both must end on the same log.
func TestTransferEngine_Execute_ConcurrentDuplicateRacesToSameLog(t *testing.T) {
	wallets := newFakeWalletRepository(newTestWallet("w1", "100.00"), newTestWallet("w2", "0.00"))
	engine, _, ledgers, publisher := newTestTransferEngine(wallets)

	input := TransferInput{IdempotencyKey: "key-race", FromWalletID: "w1", ToWalletID: "w2", Amount: money.MustFromString("25.00")}

	var wg sync.WaitGroup
	results := make([]*TransferResult, 2)
	errs := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = engine.Execute(context.Background(), input)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0].Log.ID, results[1].Log.ID, "both callers must agree on the winning log")

	from, err := wallets.GetByID(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, "75.00", money.ToFixed(from.Balance, domain.WalletScale), "the amount must be debited exactly once")

	assert.Len(t, ledgers.entries, 2, "exactly one ledger pair must be written")
	assert.Len(t, publisher.events, 1, "exactly one outcome event must be published")
}
