package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
)

// pgUniqueViolation and pgSerializationFailure are the Postgres SQLSTATE
// codes the usecase layer needs to distinguish from any other failure.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

// translateError maps a raw pgx/pgconn error onto the gateway's
// distinguishable sentinels. Anything it doesn't recognize passes
// through unchanged, so callers still see a wrapped, logged error.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return gateway.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return gateway.ErrUniqueViolation
		case pgSerializationFailure:
			return gateway.ErrSerializationFailure
		}
	}
	return err
}
