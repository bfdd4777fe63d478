package domain

import (
	"time"

	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

// WalletScale is the fractional-digit precision wallets persist at
// (cents).
const WalletScale = 2

// Wallet is a transfer-engine account. Clean Architecture: this entity
// knows nothing about JSON or SQL.
type Wallet struct {
	ID        string
	Balance   money.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSufficientFunds reports whether w can afford amount.
func (w *Wallet) HasSufficientFunds(amount money.Decimal) bool {
	return money.Compare(w.Balance, amount) >= 0
}

// Debit lowers the balance by amount without checking sufficiency. The
// caller validates it via HasSufficientFunds inside the same locked
// transaction first; that check lives in the usecase so it can attach a
// descriptive error message to the failed TransactionLog.
func (w *Wallet) Debit(amount money.Decimal) {
	w.Balance = money.Sub(w.Balance, amount)
}

// Credit raises the balance by amount.
func (w *Wallet) Credit(amount money.Decimal) {
	w.Balance = money.Add(w.Balance, amount)
}
