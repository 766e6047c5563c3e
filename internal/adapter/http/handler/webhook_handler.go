package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/iho/kinko-ledger/internal/adapter/http/dto"
	"github.com/iho/kinko-ledger/internal/infrastructure/metrics"
	"github.com/iho/kinko-ledger/internal/usecase"
)

// SignatureHeader carries the provider's HMAC over the raw body.
const SignatureHeader = "X-Webhook-Signature"

// paymentSucceededType is the only event type the ledger acts on.
const paymentSucceededType = "payment_intent.succeeded"

// WebhookService defines the behavior needed by WebhookHandler.
type WebhookService interface {
	HandlePaymentSucceeded(ctx context.Context, input usecase.PaymentEventInput) (bool, error)
}

// WebhookHandler receives payment provider callbacks.
type WebhookHandler struct {
	webhookUC WebhookService
	secret    string
	metrics   *metrics.Metrics
}

// NewWebhookHandler creates a new WebhookHandler. An empty secret
// disables signature verification.
func NewWebhookHandler(webhookUC WebhookService, secret string, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{
		webhookUC: webhookUC,
		secret:    secret,
		metrics:   m,
	}
}

// HandlePayment processes a payment event delivery. Redeliveries of an
// already applied event return 200 with processed=false so the
// provider stops retrying.
func (h *WebhookHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body", err.Error())
		return
	}

	if h.secret != "" && !h.verifySignature(body, r.Header.Get(SignatureHeader)) {
		writeError(w, http.StatusUnauthorized, "invalid signature", "")
		return
	}

	var event dto.PaymentWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload", err.Error())
		return
	}

	if event.ID == "" {
		writeError(w, http.StatusBadRequest, "missing event id", "")
		return
	}

	if event.Type != paymentSucceededType {
		// Unhandled event types are acknowledged, not errors.
		writeJSON(w, http.StatusOK, dto.WebhookResponse{Processed: false})
		return
	}

	processed, err := h.webhookUC.HandlePaymentSucceeded(r.Context(), event.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to process payment event", err.Error())
		return
	}

	if h.metrics != nil && !processed {
		h.metrics.WebhookEventsDuplicate.Inc()
	}

	writeJSON(w, http.StatusOK, dto.WebhookResponse{Processed: processed})
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
