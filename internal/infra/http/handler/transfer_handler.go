package handler

import (
	"encoding/json"
	"net/http"

	"github.com/collinsceleb/idempotent-wallet/internal/money"
	"github.com/collinsceleb/idempotent-wallet/internal/usecase"
)

// TransferHandler exposes execute_transfer over HTTP. The
// Idempotency-Key header is the caller's idempotency key — there is no
// separate idempotency middleware; the engine owns replay detection.
type TransferHandler struct {
	transferEngine *usecase.TransferEngine
}

func NewTransferHandler(transferEngine *usecase.TransferEngine) *TransferHandler {
	return &TransferHandler{transferEngine: transferEngine}
}

type createTransferRequest struct {
	FromWalletID string `json:"from_wallet_id"`
	ToWalletID   string `json:"to_wallet_id"`
	Amount       string `json:"amount"`
}

type createTransferResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	IsIdempotent  bool   `json:"is_idempotent"`
}

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	amount, err := money.FromString(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	input := usecase.TransferInput{
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
		FromWalletID:   req.FromWalletID,
		ToWalletID:     req.ToWalletID,
		Amount:         amount,
	}

	result, err := h.transferEngine.Execute(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if result.IsIdempotent {
		status = http.StatusOK
	}

	respondJSON(w, status, createTransferResponse{
		TransactionID: result.Log.ID,
		Status:        string(result.Log.Status),
		IsIdempotent:  result.IsIdempotent,
	})
}
