package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/kinko-ledger/internal/adapter/http/dto"
	"github.com/iho/kinko-ledger/internal/infrastructure/metrics"
	"github.com/iho/kinko-ledger/internal/usecase"
)

// DepositService defines the behavior needed by DepositHandler.
type DepositService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) error
	RecordSettlement(ctx context.Context, input usecase.SettlementInput) (string, error)
}

// DepositHandler handles deposit and settlement HTTP requests.
type DepositHandler struct {
	depositUC DepositService
	metrics   *metrics.Metrics
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositUC DepositService, m *metrics.Metrics) *DepositHandler {
	return &DepositHandler{depositUC: depositUC, metrics: m}
}

// Create credits external funds to an account, debiting the clearing
// account for the same amount.
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.depositUC.Deposit(r.Context(), req.ToUseCaseInput()); err != nil {
		writeError(w, mapDomainError(err), "failed to apply deposit", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.DepositsProcessed.Inc()
		h.metrics.DepositAmount.Observe(float64(req.AmountCents))
	}

	writeJSON(w, http.StatusCreated, dto.DepositResponse{Status: "applied"})
}

// CreateSettlement records a provider payout against the clearing
// account.
func (h *DepositHandler) CreateSettlement(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	reference, err := h.depositUC.RecordSettlement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record settlement", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.SettlementsRecorded.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.SettlementResponse{Reference: reference})
}
