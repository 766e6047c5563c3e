package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/kinko-ledger/internal/adapter/http/dto"
	"github.com/iho/kinko-ledger/internal/infrastructure/metrics"
	"github.com/iho/kinko-ledger/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (string, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, metrics: m}
}

// Create moves funds between two accounts and returns the correlation
// reference shared by the two resulting entries.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	reference, err := h.transferUC.Transfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		if h.metrics != nil {
			h.metrics.TransferErrors.WithLabelValues(errorLabel(err)).Inc()
		}

		writeError(w, mapDomainError(err), "failed to create transfer", err.Error())

		return
	}

	if h.metrics != nil {
		h.metrics.TransfersCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.TransferResponse{Reference: reference})
}
