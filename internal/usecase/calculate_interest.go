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

// annualRateLiteral is the fixed annual interest rate accounts accrue at.
const annualRateLiteral = "0.275"

var annualRate = money.MustFromString(annualRateLiteral)

// isLeapYear applies the Gregorian rule.
func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// daysInYear returns 366 for leap years, 365 otherwise.
func daysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

// dailyRate divides the fixed annual rate by the calendar year's day
// count, at money's configured division precision.
func dailyRate(year int) money.Decimal {
	return money.Div(annualRate, money.FromInt(int64(daysInYear(year))))
}

// normalizeCalculationDate truncates t to its UTC calendar date, the
// representation the (account_id, calculation_date) uniqueness
// constraint is keyed on.
func normalizeCalculationDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InterestResult is what calculate_daily_interest returns on any
// non-error path, including replays of an already-applied day.
type InterestResult struct {
	Log       *domain.InterestLog
	IsNew     bool
	DailyRate money.Decimal
}

// InterestEngine implements the daily interest accumulation protocol.
type InterestEngine struct {
	accounts     gateway.AccountRepository
	interestLogs gateway.InterestLogRepository
	txManager    gateway.TransactionManager
	publisher    gateway.EventPublisher // optional; nil-safe
	logger       zerolog.Logger

	idGen func() string
	now   func() time.Time
}

// InterestEngineOption customizes an InterestEngine at construction time.
type InterestEngineOption func(*InterestEngine)

// WithInterestLogger attaches a component logger.
func WithInterestLogger(logger zerolog.Logger) InterestEngineOption {
	return func(e *InterestEngine) { e.logger = logger }
}

// WithInterestPublisher attaches the optional domain-event publisher.
func WithInterestPublisher(publisher gateway.EventPublisher) InterestEngineOption {
	return func(e *InterestEngine) { e.publisher = publisher }
}

// WithInterestClock overrides the time source, for deterministic tests.
func WithInterestClock(now func() time.Time) InterestEngineOption {
	return func(e *InterestEngine) { e.now = now }
}

// WithInterestIDGenerator overrides id generation, for deterministic
// tests.
func WithInterestIDGenerator(gen func() string) InterestEngineOption {
	return func(e *InterestEngine) { e.idGen = gen }
}

// NewInterestEngine wires the interest engine's dependencies.
func NewInterestEngine(
	accounts gateway.AccountRepository,
	interestLogs gateway.InterestLogRepository,
	txManager gateway.TransactionManager,
	opts ...InterestEngineOption,
) *InterestEngine {
	e := &InterestEngine{
		accounts:     accounts,
		interestLogs: interestLogs,
		txManager:    txManager,
		logger:       zerolog.Nop(),
		idGen:        uuid.NewString,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CalculateDaily runs calculate_daily_interest: replay fast path, load the
// account, compute the day's interest at the calendar year's daily rate,
// and commit the new log and balance together.
func (e *InterestEngine) CalculateDaily(ctx context.Context, accountID string, date time.Time) (*InterestResult, error) {
	calcDate := normalizeCalculationDate(date)
	year := calcDate.Year()

	// Step 2: replay fast path.
	if existing, err := e.interestLogs.FindByAccountAndDate(ctx, accountID, calcDate); err == nil {
		return &InterestResult{Log: existing, IsNew: false, DailyRate: dailyRate(existing.CalculationDate.Year())}, nil
	} else if !errors.Is(err, gateway.ErrNotFound) {
		return nil, fmt.Errorf("lookup interest log: %w", err)
	}

	// Step 3.
	account, err := e.accounts.GetByID(ctx, accountID)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	// Step 4.
	rate := dailyRate(year)
	principal := account.Balance
	interest := money.ToFixedDecimal(money.Mul(principal, rate), domain.AccountScale)
	newBalance := money.ToFixedDecimal(money.Add(principal, interest), domain.AccountScale)

	log := &domain.InterestLog{
		ID:               e.idGen(),
		AccountID:        accountID,
		CalculationDate:  calcDate,
		PrincipalBalance: principal,
		InterestAmount:   interest,
		NewBalance:       newBalance,
		AnnualRate:       money.ToFixedDecimal(annualRate, domain.InterestRateScale),
		DaysInYear:       daysInYear(year),
		CreatedAt:        e.now(),
	}

	// Step 5.
	err = e.txManager.Run(ctx, gateway.ReadCommitted, func(txCtx context.Context) error {
		txObj := txCtx.Value(gateway.TransactionKey)
		if txObj == nil {
			return domain.ErrInternalInconsistency.WithCause(errors.New("no transaction object in context"))
		}

		logsTx := e.interestLogs.WithTx(txObj)
		accountsTx := e.accounts.WithTx(txObj)

		if err := logsTx.Insert(txCtx, log); err != nil {
			if errors.Is(err, gateway.ErrUniqueViolation) {
				return errReplayAfterRace
			}
			return fmt.Errorf("insert interest log: %w", err)
		}

		account.Balance = newBalance
		account.UpdatedAt = e.now()
		if err := accountsTx.Update(txCtx, account); err != nil {
			return fmt.Errorf("update account balance: %w", err)
		}
		return nil
	})

	// Step 6: race loss, no balance re-application.
	if errors.Is(err, errReplayAfterRace) {
		existing, ferr := e.interestLogs.FindByAccountAndDate(ctx, accountID, calcDate)
		if errors.Is(ferr, gateway.ErrNotFound) {
			return nil, domain.ErrInternalInconsistency.WithCause(
				fmt.Errorf("unique violation on (%s, %s) but no row found on replay fetch", accountID, calcDate.Format("2006-01-02")))
		}
		if ferr != nil {
			return nil, fmt.Errorf("resolve interest replay after race: %w", ferr)
		}
		return &InterestResult{Log: existing, IsNew: false, DailyRate: dailyRate(existing.CalculationDate.Year())}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("apply daily interest: %w", err)
	}

	e.publishApplied(ctx, log)
	return &InterestResult{Log: log, IsNew: true, DailyRate: rate}, nil
}

func (e *InterestEngine) publishApplied(ctx context.Context, log *domain.InterestLog) {
	if e.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"interest_log_id":  log.ID,
		"account_id":       log.AccountID,
		"calculation_date": log.CalculationDate.Format("2006-01-02"),
		"principal":        money.ToFixed(log.PrincipalBalance, domain.AccountScale),
		"interest_amount":  money.ToFixed(log.InterestAmount, domain.AccountScale),
		"new_balance":      money.ToFixed(log.NewBalance, domain.AccountScale),
	}
	if err := e.publisher.Publish(ctx, "ledger_events", "interest.applied", event); err != nil {
		e.logger.Warn().Err(err).Str("account_id", log.AccountID).Msg("failed to publish interest applied event")
	}
}

// CalculateForRange runs calculate_interest_for_date_range: each day is
// its own transaction, so partial progress survives a mid-range error.
// Compounding happens naturally because each iteration reads the
// account's balance as of the previous iteration's commit.
func (e *InterestEngine) CalculateForRange(ctx context.Context, accountID string, start, end time.Time) ([]*InterestResult, error) {
	start, end = normalizeCalculationDate(start), normalizeCalculationDate(end)

	var results []*InterestResult
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		result, err := e.CalculateDaily(ctx, accountID, day)
		if err != nil {
			return results, fmt.Errorf("interest range stopped at %s: %w", day.Format("2006-01-02"), err)
		}
		results = append(results, result)
	}
	return results, nil
}
