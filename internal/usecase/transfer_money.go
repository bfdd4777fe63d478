package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

// maxSerializationRetries bounds the serialization-failure retry loop: a
// SERIALIZABLE abort is always retried with nothing caller-visible
// committed, since one attempt runs inside a single transaction that
// either fully commits or fully rolls back.
const maxSerializationRetries = 3

// cacheTTL is the read-through idempotency cache's entry lifetime.
const cacheTTL = 24 * time.Hour

// errReplayAfterRace is returned internally by attempt() when Step C's
// insert loses a unique-violation race; it never escapes Execute.
var errReplayAfterRace = errors.New("usecase: replay after unique violation race")

// TransferInput is the caller-facing command for execute_transfer.
type TransferInput struct {
	IdempotencyKey string
	FromWalletID   string
	ToWalletID     string
	Amount         money.Decimal
}

// TransferResult is what execute_transfer returns on any non-error path,
// including idempotent replays.
type TransferResult struct {
	Log          *domain.TransactionLog
	Success      bool
	IsIdempotent bool
}

// TransferEngine implements the wallet transfer state machine.
type TransferEngine struct {
	wallets   gateway.WalletRepository
	logs      gateway.TransactionLogRepository
	ledgers   gateway.LedgerRepository
	txManager gateway.TransactionManager
	publisher gateway.EventPublisher // optional; nil-safe
	cache     gateway.TransferCache  // optional; nil-safe
	logger    zerolog.Logger

	idGen func() string
	now   func() time.Time
}

// TransferEngineOption customizes a TransferEngine at construction time.
type TransferEngineOption func(*TransferEngine)

// WithLogger attaches a component logger.
func WithLogger(logger zerolog.Logger) TransferEngineOption {
	return func(e *TransferEngine) { e.logger = logger }
}

// WithTransferCache attaches the optional read-through idempotency cache.
func WithTransferCache(cache gateway.TransferCache) TransferEngineOption {
	return func(e *TransferEngine) { e.cache = cache }
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) TransferEngineOption {
	return func(e *TransferEngine) { e.now = now }
}

// WithIDGenerator overrides id generation, for deterministic tests.
func WithIDGenerator(gen func() string) TransferEngineOption {
	return func(e *TransferEngine) { e.idGen = gen }
}

// NewTransferEngine wires the transfer engine's dependencies.
func NewTransferEngine(
	wallets gateway.WalletRepository,
	logs gateway.TransactionLogRepository,
	ledgers gateway.LedgerRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
	opts ...TransferEngineOption,
) *TransferEngine {
	e := &TransferEngine{
		wallets:   wallets,
		logs:      logs,
		ledgers:   ledgers,
		txManager: txManager,
		publisher: publisher,
		logger:    zerolog.Nop(),
		idGen:     uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the execute_transfer state machine end to end: fast-path
// replay, PENDING insert, deterministic dual-wallet locking, debit/credit,
// ledger pair, COMPLETED commit, and bounded serialization retry.
func (e *TransferEngine) Execute(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.IdempotencyKey == "" {
		return nil, domain.ErrMissingIdempotencyKey
	}
	if money.Compare(input.Amount, money.Zero) <= 0 {
		return nil, domain.ErrInvalidTransfer
	}
	if input.FromWalletID == input.ToWalletID {
		return nil, domain.ErrInvalidTransfer
	}

	// Step A: fast path, no transaction.
	if existing, err := e.logs.FindByIdempotencyKey(ctx, input.IdempotencyKey); err == nil {
		e.populateCache(ctx, existing)
		return replayResult(existing), nil
	} else if !errors.Is(err, gateway.ErrNotFound) {
		return nil, fmt.Errorf("lookup idempotency key: %w", err)
	}

	var (
		result      *TransferResult
		resultErr   error
		failureCode *domain.Error
	)

	for attempt := 1; attempt <= maxSerializationRetries; attempt++ {
		log := e.newPendingLog(input)

		fc, err := e.attempt(ctx, input, log)
		if err == nil {
			failureCode = fc
			result = &TransferResult{Log: log, Success: failureCode == nil}
			resultErr = nil
			break
		}

		if errors.Is(err, errReplayAfterRace) {
			result, resultErr = e.resolveReplayAfterRace(ctx, input.IdempotencyKey)
			break
		}

		if errors.Is(err, gateway.ErrSerializationFailure) {
			e.logger.Warn().Str("idempotency_key", input.IdempotencyKey).Int("attempt", attempt).Msg("serialization failure, retrying transfer")
			if attempt == maxSerializationRetries {
				result, resultErr = nil, domain.ErrTransient.WithCause(err)
			}
			continue
		}

		e.bestEffortMarkFailed(ctx, log, err)
		result, resultErr = nil, fmt.Errorf("transfer state machine: %w", err)
		break
	}

	if resultErr != nil {
		return nil, resultErr
	}

	if result != nil && !result.IsIdempotent {
		e.populateCache(ctx, result.Log)
		e.publishOutcome(ctx, result.Log)
	}

	if failureCode != nil {
		return result, failureCode
	}
	return result, nil
}

func (e *TransferEngine) newPendingLog(input TransferInput) *domain.TransactionLog {
	now := e.now()
	return &domain.TransactionLog{
		ID:             e.idGen(),
		IdempotencyKey: input.IdempotencyKey,
		FromWalletID:   input.FromWalletID,
		ToWalletID:     input.ToWalletID,
		Amount:         input.Amount,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// attempt runs Steps C-I inside one SERIALIZABLE transaction. It returns
// a non-nil *domain.Error only when the transaction committed a FAILED
// log for a caller-visible reason (WalletNotFound/InsufficientFunds);
// any other non-nil err means the transaction rolled back.
func (e *TransferEngine) attempt(ctx context.Context, input TransferInput, log *domain.TransactionLog) (*domain.Error, error) {
	var failureCode *domain.Error

	err := e.txManager.Run(ctx, gateway.Serializable, func(txCtx context.Context) error {
		txObj := txCtx.Value(gateway.TransactionKey)
		if txObj == nil {
			return domain.ErrInternalInconsistency.WithCause(errors.New("no transaction object in context"))
		}

		logsTx := e.logs.WithTx(txObj)
		walletsTx := e.wallets.WithTx(txObj)
		ledgersTx := e.ledgers.WithTx(txObj)

		// Step C.
		if err := logsTx.Insert(txCtx, log); err != nil {
			if errors.Is(err, gateway.ErrUniqueViolation) {
				return errReplayAfterRace
			}
			return fmt.Errorf("insert transaction log: %w", err)
		}

		// Step D: deterministic lock ordering.
		first, second := input.FromWalletID, input.ToWalletID
		if second < first {
			first, second = second, first
		}

		locked := make(map[string]*domain.Wallet, 2)
		for _, id := range []string{first, second} {
			w, err := walletsTx.GetByIDForUpdate(txCtx, id)
			if errors.Is(err, gateway.ErrNotFound) {
				locked[id] = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("lock wallet %s: %w", id, err)
			}
			locked[id] = w
		}

		fromWallet, toWallet := locked[input.FromWalletID], locked[input.ToWalletID]

		// Step E.
		if fromWallet == nil || toWallet == nil {
			log.ErrorMessage = missingWalletMessage(input, fromWallet, toWallet)
			return e.commitFailure(txCtx, logsTx, log, domain.ErrWalletNotFound, &failureCode)
		}

		// Step F.
		if !fromWallet.HasSufficientFunds(input.Amount) {
			log.ErrorMessage = fmt.Sprintf(
				"insufficient funds in wallet %s: available %s, required %s",
				fromWallet.ID, money.ToFixed(fromWallet.Balance, domain.WalletScale), money.ToFixed(input.Amount, domain.WalletScale),
			)
			return e.commitFailure(txCtx, logsTx, log, domain.ErrInsufficientFunds, &failureCode)
		}

		// Step G.
		fromBefore, toBefore := fromWallet.Balance, toWallet.Balance
		fromWallet.Debit(input.Amount)
		toWallet.Credit(input.Amount)
		fromWallet.UpdatedAt, toWallet.UpdatedAt = e.now(), e.now()

		if err := walletsTx.Update(txCtx, fromWallet); err != nil {
			return fmt.Errorf("update from wallet: %w", err)
		}
		if err := walletsTx.Update(txCtx, toWallet); err != nil {
			return fmt.Errorf("update to wallet: %w", err)
		}

		// Step H.
		createdAt := e.now()
		debit := &domain.Ledger{
			ID: e.idGen(), WalletID: fromWallet.ID, TransactionLogID: log.ID,
			EntryType: domain.EntryDebit, Amount: input.Amount,
			BalanceBefore: fromBefore, BalanceAfter: fromWallet.Balance, CreatedAt: createdAt,
		}
		credit := &domain.Ledger{
			ID: e.idGen(), WalletID: toWallet.ID, TransactionLogID: log.ID,
			EntryType: domain.EntryCredit, Amount: input.Amount,
			BalanceBefore: toBefore, BalanceAfter: toWallet.Balance, CreatedAt: createdAt,
		}
		if err := ledgersTx.InsertPair(txCtx, debit, credit); err != nil {
			return fmt.Errorf("insert ledger pair: %w", err)
		}

		// Step I.
		log.Status = domain.StatusCompleted
		log.UpdatedAt = e.now()
		if err := logsTx.UpdateStatus(txCtx, log); err != nil {
			return fmt.Errorf("complete transaction log: %w", err)
		}
		return nil
	})

	return failureCode, err
}

// commitFailure transitions log to FAILED and asks the surrounding
// transaction to commit (return nil) rather than roll back, since a
// FAILED terminal state is itself the durable, correct outcome.
func (e *TransferEngine) commitFailure(ctx context.Context, logsTx gateway.TransactionLogRepository, log *domain.TransactionLog, code *domain.Error, out **domain.Error) error {
	log.Status = domain.StatusFailed
	log.UpdatedAt = e.now()
	if err := logsTx.UpdateStatus(ctx, log); err != nil {
		return fmt.Errorf("fail transaction log: %w", err)
	}
	*out = code
	return nil
}

func missingWalletMessage(input TransferInput, fromWallet, toWallet *domain.Wallet) string {
	switch {
	case fromWallet == nil && toWallet == nil:
		return fmt.Sprintf("wallets not found: %s, %s", input.FromWalletID, input.ToWalletID)
	case fromWallet == nil:
		return fmt.Sprintf("source wallet not found: %s", input.FromWalletID)
	default:
		return fmt.Sprintf("destination wallet not found: %s", input.ToWalletID)
	}
}

// resolveReplayAfterRace handles Step C's unique-violation branch: the
// transaction already rolled back, so this reads outside any
// transaction and replays whatever the winning concurrent caller
// committed.
func (e *TransferEngine) resolveReplayAfterRace(ctx context.Context, idempotencyKey string) (*TransferResult, error) {
	log, err := e.logs.FindByIdempotencyKey(ctx, idempotencyKey)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, domain.ErrInternalInconsistency.WithCause(
			fmt.Errorf("unique violation on %q but no row found on replay fetch", idempotencyKey))
	}
	if err != nil {
		return nil, fmt.Errorf("resolve replay after race: %w", err)
	}
	return replayResult(log), nil
}

// bestEffortMarkFailed tries to leave a FAILED record behind after an
// unexpected error rolled back the original attempt, in a fresh
// transaction. It never returns an error to its caller: failure here is
// swallowed rather than propagated, since the original error already
// describes what went wrong.
func (e *TransferEngine) bestEffortMarkFailed(ctx context.Context, log *domain.TransactionLog, cause error) {
	log.Status = domain.StatusFailed
	log.ErrorMessage = fmt.Sprintf("internal error: %v", cause)
	log.UpdatedAt = e.now()

	err := e.txManager.Run(ctx, gateway.ReadCommitted, func(txCtx context.Context) error {
		txObj := txCtx.Value(gateway.TransactionKey)
		logsTx := e.logs.WithTx(txObj)
		return logsTx.Insert(txCtx, log)
	})
	if err != nil {
		e.logger.Error().Err(err).Str("idempotency_key", log.IdempotencyKey).Msg("best-effort failure marker did not persist")
	}
}

func replayResult(log *domain.TransactionLog) *TransferResult {
	return &TransferResult{
		Log:          log,
		Success:      log.Status == domain.StatusCompleted,
		IsIdempotent: true,
	}
}

func (e *TransferEngine) populateCache(ctx context.Context, log *domain.TransactionLog) {
	if e.cache == nil {
		return
	}
	resp := gateway.CachedTransferResponse{
		LogID:          log.ID,
		Status:         string(log.Status),
		Success:        log.Status == domain.StatusCompleted,
		IdempotencyKey: log.IdempotencyKey,
	}
	if err := e.cache.Set(ctx, log.IdempotencyKey, resp, cacheTTL); err != nil {
		e.logger.Warn().Err(err).Str("idempotency_key", log.IdempotencyKey).Msg("failed to populate idempotency cache")
	}
}

func (e *TransferEngine) publishOutcome(ctx context.Context, log *domain.TransactionLog) {
	if e.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"transaction_id":  log.ID,
		"idempotency_key": log.IdempotencyKey,
		"from_wallet":     log.FromWalletID,
		"to_wallet":       log.ToWalletID,
		"amount":          money.ToFixed(log.Amount, domain.WalletScale),
		"status":          string(log.Status),
	}
	routingKey := "transaction.completed"
	if log.Status == domain.StatusFailed {
		routingKey = "transaction.failed"
	}
	if err := e.publisher.Publish(ctx, "ledger_events", routingKey, event); err != nil {
		e.logger.Warn().Err(err).Str("routing_key", routingKey).Msg("failed to publish transfer event")
	}
}
