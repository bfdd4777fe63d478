package domain

import (
	"time"

	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

// AccountScale is the fractional-digit precision interest-accumulator
// accounts persist balances at (sub-micro units).
const AccountScale = 8

// Account is an interest-accumulator savings account. Its lifecycle is
// analogous to Wallet's: created with an optional non-negative initial
// balance, mutated only by interest application, never deleted.
type Account struct {
	ID        string
	Balance   money.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
