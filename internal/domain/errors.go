package domain

import "fmt"

// Error is the sum-typed result the engine boundary returns for every
// caller-visible failure: a stable Code an adapter can switch on, a
// human-readable Message, and an optional wrapped cause so %w-style
// chains survive the adapter boundary without leaking into Code/Message.
type Error struct {
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause returns a copy of e carrying cause, for logging context
// without changing the caller-visible Code/Message.
func (e *Error) WithCause(cause error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: cause}
}

// Is lets errors.Is(err, domain.ErrWalletNotFound) match any *Error with
// the same Code, including one returned by WithCause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrInvalidTransfer       = &Error{Code: "INVALID_TRANSFER", Message: "transfer amount must be positive and wallets must differ"}
	ErrMissingIdempotencyKey = &Error{Code: "MISSING_IDEMPOTENCY_KEY", Message: "idempotency key is required"}
	ErrWalletNotFound        = &Error{Code: "WALLET_NOT_FOUND", Message: "wallet not found"}
	ErrAccountNotFound       = &Error{Code: "ACCOUNT_NOT_FOUND", Message: "account not found"}
	ErrInsufficientFunds     = &Error{Code: "INSUFFICIENT_FUNDS", Message: "wallet balance is lower than the transfer amount"}
	ErrInternalInconsistency = &Error{Code: "INTERNAL_INCONSISTENCY", Message: "an invariant was violated"}
	ErrTransient             = &Error{Code: "TRANSIENT", Message: "the operation could not complete after bounded retries"}
)
