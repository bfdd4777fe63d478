package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
)

// writeDomainError maps *domain.Error.Code to an HTTP status code;
// anything that isn't a *domain.Error is an opaque internal error.
func writeDomainError(w http.ResponseWriter, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		log.Error().Err(err).Msg("unmapped internal error")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	switch domainErr.Code {
	case domain.ErrInvalidTransfer.Code, domain.ErrMissingIdempotencyKey.Code, domain.ErrInsufficientFunds.Code:
		respondError(w, http.StatusBadRequest, domainErr.Message)
	case domain.ErrWalletNotFound.Code, domain.ErrAccountNotFound.Code:
		respondError(w, http.StatusNotFound, domainErr.Message)
	default:
		log.Error().Err(domainErr).Msg("internal inconsistency or transient failure")
		respondError(w, http.StatusInternalServerError, domainErr.Message)
	}
}
