package usecase

import (
	"context"

	"github.com/rs/zerolog"
)

// Depositor is the slice of DepositUseCase the webhook flow needs.
type Depositor interface {
	Deposit(ctx context.Context, input DepositInput) error
}

// WebhookUseCase applies externally triggered credits at most once.
// Payment providers redeliver events on timeouts and retries, and two
// deliveries of the same event may race; the durable event record is
// what guarantees a single application.
type WebhookUseCase struct {
	events   WebhookEventStore
	deposits Depositor
	logger   zerolog.Logger
}

// NewWebhookUseCase creates a new WebhookUseCase.
func NewWebhookUseCase(events WebhookEventStore, deposits Depositor, logger zerolog.Logger) *WebhookUseCase {
	return &WebhookUseCase{
		events:   events,
		deposits: deposits,
		logger:   logger,
	}
}

// PaymentEventInput represents a provider payment-succeeded event.
type PaymentEventInput struct {
	EventID     string
	AccountID   string
	AmountCents int64
}

// HandlePaymentSucceeded deposits the event amount unless the event id
// has been seen before. It returns false when the event was a
// duplicate and was skipped; that outcome is a normal return value,
// not an error.
func (uc *WebhookUseCase) HandlePaymentSucceeded(ctx context.Context, input PaymentEventInput) (bool, error) {
	first, err := uc.events.ProcessOnce(ctx, input.EventID)
	if err != nil {
		return false, err
	}

	if !first {
		uc.logger.Info().
			Str("event_id", input.EventID).
			Msg("duplicate payment event skipped")

		return false, nil
	}

	err = uc.deposits.Deposit(ctx, DepositInput{
		AccountID:   input.AccountID,
		AmountCents: input.AmountCents,
		Reference:   input.EventID,
	})
	if err != nil {
		// The event record stays in processing state: the credit was
		// never applied and at-most-once still holds.
		uc.logger.Error().
			Err(err).
			Str("event_id", input.EventID).
			Str("account_id", input.AccountID).
			Msg("deposit for payment event failed")

		return true, err
	}

	if err := uc.events.MarkDone(ctx, input.EventID); err != nil {
		// The deposit is durable; a stale processing status only
		// affects reporting.
		uc.logger.Warn().
			Err(err).
			Str("event_id", input.EventID).
			Msg("failed to mark payment event done")
	}

	return true, nil
}
