package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/kinko-ledger/internal/adapter/http/dto"
	"github.com/iho/kinko-ledger/internal/domain"
	"github.com/iho/kinko-ledger/internal/usecase"
)

type webhookServiceStub struct {
	handleFn func(ctx context.Context, input usecase.PaymentEventInput) (bool, error)
}

func (s *webhookServiceStub) HandlePaymentSucceeded(ctx context.Context, input usecase.PaymentEventInput) (bool, error) {
	return s.handleFn(ctx, input)
}

func paymentEventBody(t *testing.T, id, eventType, accountID string, amount int64) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"id":   id,
		"type": eventType,
		"data": map[string]any{
			"object": map[string]any{
				"amount": amount,
				"metadata": map[string]any{
					"account_uuid": accountID,
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return body
}

func TestWebhookHandler_HandlePayment_Success(t *testing.T) {
	var captured usecase.PaymentEventInput

	handler := NewWebhookHandler(&webhookServiceStub{
		handleFn: func(ctx context.Context, input usecase.PaymentEventInput) (bool, error) {
			captured = input
			return true, nil
		},
	}, "", nil)

	body := paymentEventBody(t, "evt-1", "payment_intent.succeeded", "acc-1", 500)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandlePayment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if captured.EventID != "evt-1" || captured.AccountID != "acc-1" || captured.AmountCents != 500 {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp dto.WebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Processed {
		t.Fatal("expected processed=true")
	}
}

func TestWebhookHandler_HandlePayment_Duplicate(t *testing.T) {
	handler := NewWebhookHandler(&webhookServiceStub{
		handleFn: func(ctx context.Context, input usecase.PaymentEventInput) (bool, error) {
			return false, nil
		},
	}, "", nil)

	body := paymentEventBody(t, "evt-1", "payment_intent.succeeded", "acc-1", 500)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandlePayment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", rec.Code)
	}

	var resp dto.WebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Processed {
		t.Fatal("expected processed=false for duplicate")
	}
}

func TestWebhookHandler_HandlePayment_UnhandledType(t *testing.T) {
	handler := NewWebhookHandler(&webhookServiceStub{
		handleFn: func(ctx context.Context, input usecase.PaymentEventInput) (bool, error) {
			t.Fatal("HandlePaymentSucceeded should not be called")
			return false, nil
		},
	}, "", nil)

	body := paymentEventBody(t, "evt-1", "payment_intent.payment_failed", "acc-1", 500)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandlePayment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unhandled type, got %d", rec.Code)
	}
}

func TestWebhookHandler_HandlePayment_MissingEventID(t *testing.T) {
	handler := NewWebhookHandler(&webhookServiceStub{
		handleFn: func(ctx context.Context, input usecase.PaymentEventInput) (bool, error) {
			t.Fatal("HandlePaymentSucceeded should not be called")
			return false, nil
		},
	}, "", nil)

	body := paymentEventBody(t, "", "payment_intent.succeeded", "acc-1", 500)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandlePayment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWebhookHandler_HandlePayment_Signature(t *testing.T) {
	const secret = "shh"

	handler := NewWebhookHandler(&webhookServiceStub{
		handleFn: func(ctx context.Context, input usecase.PaymentEventInput) (bool, error) {
			return true, nil
		},
	}, secret, nil)

	body := paymentEventBody(t, "evt-1", "payment_intent.succeeded", "acc-1", 500)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	t.Run("valid signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
		req.Header.Set(SignatureHeader, signature)
		rec := httptest.NewRecorder()

		handler.HandlePayment(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("invalid signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
		req.Header.Set(SignatureHeader, "deadbeef")
		rec := httptest.NewRecorder()

		handler.HandlePayment(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandlePayment(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestWebhookHandler_HandlePayment_DepositError(t *testing.T) {
	handler := NewWebhookHandler(&webhookServiceStub{
		handleFn: func(ctx context.Context, input usecase.PaymentEventInput) (bool, error) {
			return true, domain.ErrAccountNotFound
		},
	}, "", nil)

	body := paymentEventBody(t, "evt-1", "payment_intent.succeeded", "acc-missing", 500)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandlePayment(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
