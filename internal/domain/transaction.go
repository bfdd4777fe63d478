package domain

import (
	"time"

	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

// TransactionStatus is the terminal/non-terminal state of a
// TransactionLog. Once a row leaves PENDING it never returns to it.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// TransactionLog is the idempotency record and state-machine row for one
// transfer attempt. It is inserted PENDING before any balance mutation
// and transitions exactly once to COMPLETED or FAILED.
type TransactionLog struct {
	ID             string
	IdempotencyKey string
	FromWalletID   string
	ToWalletID     string
	Amount         money.Decimal
	Status         TransactionStatus
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsTerminal reports whether the log has left PENDING.
func (t *TransactionLog) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}
