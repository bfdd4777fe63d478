package domain

import (
	"time"

	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

// InterestRateScale is the fractional-digit precision annual_rate is
// persisted at.
const InterestRateScale = 6

// InterestLog is one append-only, immutable daily interest application.
// A unique (AccountID, CalculationDate) pair makes per-day application
// idempotent.
type InterestLog struct {
	ID               string
	AccountID        string
	CalculationDate  time.Time // UTC calendar date, truncated to midnight
	PrincipalBalance money.Decimal
	InterestAmount   money.Decimal
	NewBalance       money.Decimal
	AnnualRate       money.Decimal
	DaysInYear       int
	CreatedAt        time.Time
}
