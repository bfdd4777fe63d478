package domain

import (
	"time"

	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

// EntryType distinguishes the two rows a COMPLETED TransactionLog always
// produces: one DEBIT against the source wallet, one CREDIT against the
// destination, each carrying the balance immediately before and after it
// applied.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// Ledger is one append-only, immutable bookkeeping row. Exactly two exist
// per COMPLETED TransactionLog, sharing TransactionLogID, with equal
// Amount and opposite EntryType (double-entry conservation — debits and
// credits always balance).
type Ledger struct {
	ID               string
	WalletID         string
	TransactionLogID string
	EntryType        EntryType
	Amount           money.Decimal
	BalanceBefore    money.Decimal
	BalanceAfter     money.Decimal
	Description      string
	CreatedAt        time.Time
}
