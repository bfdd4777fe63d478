package gateway

import (
	"context"
	"errors"
)

// TransactionObject is the opaque "badge" carrying a concrete database
// transaction handle through the gateway interfaces, so a repository can
// be rebound to participate in the caller's transaction via WithTx.
type TransactionObject interface{}

// Isolation names the transaction isolation level a TransactionManager.Run
// call requires. The transfer engine's state-machine transaction requests
// Serializable (its best-effort failure marker runs at ReadCommitted); the
// interest engine accepts ReadCommitted.
type Isolation int

const (
	ReadCommitted Isolation = iota
	Serializable
)

// TransactionManager is the Unit-of-Work abstraction: begin a scope at the
// requested isolation level, run fn with that scope injected into ctx,
// commit on success, roll back on any error or panic. A transaction
// manager that has already committed or rolled back treats a repeat
// commit/rollback as a no-op.
type TransactionManager interface {
	Run(ctx context.Context, isolation Isolation, fn func(ctx context.Context) error) error
}

// TransactionKeyType avoids key collisions in context.Context.
type TransactionKeyType string

const TransactionKey TransactionKeyType = "transaction"

// ErrUniqueViolation is the distinguishable signal a repository's
// insert returns when a unique constraint (idempotency_key, or the
// (account_id, calculation_date) pair) collides. Usecases use
// errors.Is against this sentinel to enter the replay path; it is never
// surfaced to a caller directly.
var ErrUniqueViolation = errors.New("gateway: unique constraint violation")

// ErrSerializationFailure is the distinguishable signal a repository
// returns when the database aborts a transaction because it could not
// be serialized against a concurrent one. The transfer engine retries a
// bounded number of times (each attempt is one transaction, so nothing
// caller-visible has committed) and surfaces domain.ErrTransient once the
// retries are used up. The interest engine does not retry.
var ErrSerializationFailure = errors.New("gateway: serialization failure")

// ErrNotFound is returned by Find-style reads when no row matches. It is
// an infrastructure-level signal; usecases translate it to the relevant
// domain.Error (WalletNotFound, AccountNotFound) or treat absence as a
// legitimate outcome (idempotency-key lookups).
var ErrNotFound = errors.New("gateway: not found")
