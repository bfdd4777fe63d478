package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
	"github.com/collinsceleb/idempotent-wallet/internal/usecase"
)

// AccountHandler exposes create_account and get_account over HTTP.
type AccountHandler struct {
	createAccountUC *usecase.CreateAccountUseCase
	getAccountUC    *usecase.GetAccountUseCase
}

func NewAccountHandler(createAccountUC *usecase.CreateAccountUseCase, getAccountUC *usecase.GetAccountUseCase) *AccountHandler {
	return &AccountHandler{createAccountUC: createAccountUC, getAccountUC: getAccountUC}
}

type createAccountRequest struct {
	InitialBalance string `json:"initial_balance"`
}

type accountResponse struct {
	ID        string `json:"id"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func accountResponseFromAccount(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Balance:   money.ToFixed(a.Balance, domain.AccountScale),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
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

	account, err := h.createAccountUC.Execute(r.Context(), usecase.CreateAccountInput{InitialBalance: balance})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, accountResponseFromAccount(account))
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	account, err := h.getAccountUC.Execute(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, accountResponseFromAccount(account))
}
