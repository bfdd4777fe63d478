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

// InterestHandler exposes calculate_daily_interest and
// list_interest_history over HTTP.
type InterestHandler struct {
	interestEngine        *usecase.InterestEngine
	listInterestHistoryUC *usecase.ListInterestHistoryUseCase
}

func NewInterestHandler(interestEngine *usecase.InterestEngine, listInterestHistoryUC *usecase.ListInterestHistoryUseCase) *InterestHandler {
	return &InterestHandler{interestEngine: interestEngine, listInterestHistoryUC: listInterestHistoryUC}
}

type calculateInterestRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, UTC calendar date; empty means today
}

type interestLogResponse struct {
	ID               string `json:"id"`
	AccountID        string `json:"account_id"`
	CalculationDate  string `json:"calculation_date"`
	PrincipalBalance string `json:"principal_balance"`
	InterestAmount   string `json:"interest_amount"`
	NewBalance       string `json:"new_balance"`
	AnnualRate       string `json:"annual_rate"`
	DaysInYear       int    `json:"days_in_year"`
}

func interestLogResponseFromLog(l *domain.InterestLog) interestLogResponse {
	return interestLogResponse{
		ID:               l.ID,
		AccountID:        l.AccountID,
		CalculationDate:  l.CalculationDate.Format("2006-01-02"),
		PrincipalBalance: money.ToFixed(l.PrincipalBalance, domain.AccountScale),
		InterestAmount:   money.ToFixed(l.InterestAmount, domain.AccountScale),
		NewBalance:       money.ToFixed(l.NewBalance, domain.AccountScale),
		AnnualRate:       money.ToFixed(l.AnnualRate, domain.InterestRateScale),
		DaysInYear:       l.DaysInYear,
	}
}

func (h *InterestHandler) CalculateDaily(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	var req calculateInterestRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid payload")
			return
		}
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	result, err := h.interestEngine.CalculateDaily(r.Context(), accountID, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if !result.IsNew {
		status = http.StatusOK
	}
	respondJSON(w, status, interestLogResponseFromLog(result.Log))
}

func (h *InterestHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	logs, err := h.listInterestHistoryUC.Execute(r.Context(), accountID, 0)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	responses := make([]interestLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, interestLogResponseFromLog(l))
	}
	respondJSON(w, http.StatusOK, responses)
}
