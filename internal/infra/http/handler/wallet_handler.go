package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
	"github.com/collinsceleb/idempotent-wallet/internal/usecase"
)

// WalletHandler exposes create_wallet, get_wallet and wallet-scoped
// transaction/ledger history over HTTP.
type WalletHandler struct {
	createWalletUC     *usecase.CreateWalletUseCase
	getWalletUC        *usecase.GetWalletUseCase
	listTransactionsUC *usecase.ListTransactionsUseCase
	listLedgerUC       *usecase.ListLedgerUseCase
}

func NewWalletHandler(
	createWalletUC *usecase.CreateWalletUseCase,
	getWalletUC *usecase.GetWalletUseCase,
	listTransactionsUC *usecase.ListTransactionsUseCase,
	listLedgerUC *usecase.ListLedgerUseCase,
) *WalletHandler {
	return &WalletHandler{
		createWalletUC:     createWalletUC,
		getWalletUC:        getWalletUC,
		listTransactionsUC: listTransactionsUC,
		listLedgerUC:       listLedgerUC,
	}
}

type createWalletRequest struct {
	InitialBalance string `json:"initial_balance"`
}

type walletResponse struct {
	ID        string `json:"id"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newWalletResponse(w *usecase.CreateWalletOutput) walletResponse {
	return walletResponseFromWallet(w.Wallet)
}

func walletResponseFromWallet(w *domain.Wallet) walletResponse {
	return walletResponse{
		ID:        w.ID,
		Balance:   money.ToFixed(w.Balance, domain.WalletScale),
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	balance := money.Zero
	if req.InitialBalance != "" {
		parsed, err := money.FromString(req.InitialBalance)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid initial_balance")
			return
		}
		balance = parsed
	}

	output, err := h.createWalletUC.Execute(r.Context(), usecase.CreateWalletInput{InitialBalance: balance})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newWalletResponse(output))
}

func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	wallet, err := h.getWalletUC.Execute(r.Context(), walletID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, walletResponseFromWallet(wallet))
}

func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	logs, err := h.listTransactionsUC.Execute(r.Context(), walletID, 0)
	if err != nil {
		log.Error().Err(err).Str("wallet_id", walletID).Msg("failed to list transactions")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, logs)
}

func (h *WalletHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	entries, err := h.listLedgerUC.Execute(r.Context(), walletID, 0)
	if err != nil {
		log.Error().Err(err).Str("wallet_id", walletID).Msg("failed to list ledger entries")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
