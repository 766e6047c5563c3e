package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/kinko-ledger/internal/usecase"
	"github.com/iho/kinko-ledger/internal/usecase/mocks"
)

type stubDepositor struct {
	calls      atomic.Int64
	depositErr error
}

func (s *stubDepositor) Deposit(ctx context.Context, input usecase.DepositInput) error {
	s.calls.Add(1)
	return s.depositErr
}

func TestWebhookUseCase_HandlePaymentSucceeded(t *testing.T) {
	input := usecase.PaymentEventInput{
		EventID:     "evt-1",
		AccountID:   "acc-1",
		AmountCents: 500,
	}

	t.Run("first delivery deposits", func(t *testing.T) {
		events := mocks.NewMockWebhookEventStore()
		deposits := &stubDepositor{}
		uc := usecase.NewWebhookUseCase(events, deposits, zerolog.Nop())

		processed, err := uc.HandlePaymentSucceeded(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !processed {
			t.Error("expected the first delivery to be processed")
		}

		if got := deposits.calls.Load(); got != 1 {
			t.Errorf("deposit calls = %d, want 1", got)
		}

		if got := events.Status("evt-1"); got != "done" {
			t.Errorf("event status = %q, want done", got)
		}
	})

	t.Run("duplicate delivery is skipped", func(t *testing.T) {
		events := mocks.NewMockWebhookEventStore()
		deposits := &stubDepositor{}
		uc := usecase.NewWebhookUseCase(events, deposits, zerolog.Nop())

		if _, err := uc.HandlePaymentSucceeded(context.Background(), input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		processed, err := uc.HandlePaymentSucceeded(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if processed {
			t.Error("expected the duplicate delivery to be skipped")
		}

		if got := deposits.calls.Load(); got != 1 {
			t.Errorf("deposit calls = %d, want 1", got)
		}
	})

	t.Run("deposit failure keeps event claimed", func(t *testing.T) {
		events := mocks.NewMockWebhookEventStore()
		deposits := &stubDepositor{depositErr: errors.New("connection reset")}
		uc := usecase.NewWebhookUseCase(events, deposits, zerolog.Nop())

		processed, err := uc.HandlePaymentSucceeded(context.Background(), input)
		if err == nil {
			t.Fatal("expected an error")
		}

		if !processed {
			t.Error("expected the delivery to count as processed")
		}

		if got := events.Status("evt-1"); got == "done" {
			t.Error("expected the event not to be marked done")
		}
	})

	t.Run("guard store failure surfaces", func(t *testing.T) {
		events := mocks.NewMockWebhookEventStore()
		events.ProcessOnceFunc = func(ctx context.Context, eventID string) (bool, error) {
			return false, errors.New("connection reset")
		}
		deposits := &stubDepositor{}
		uc := usecase.NewWebhookUseCase(events, deposits, zerolog.Nop())

		if _, err := uc.HandlePaymentSucceeded(context.Background(), input); err == nil {
			t.Fatal("expected an error")
		}

		if got := deposits.calls.Load(); got != 0 {
			t.Errorf("deposit calls = %d, want 0", got)
		}
	})
}

func TestWebhookUseCase_ConcurrentDeliveries(t *testing.T) {
	events := mocks.NewMockWebhookEventStore()
	deposits := &stubDepositor{}
	uc := usecase.NewWebhookUseCase(events, deposits, zerolog.Nop())

	input := usecase.PaymentEventInput{
		EventID:     "evt-1",
		AccountID:   "acc-1",
		AmountCents: 500,
	}

	const deliveries = 10

	var processedCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			processed, err := uc.HandlePaymentSucceeded(context.Background(), input)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if processed {
				processedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := processedCount.Load(); got != 1 {
		t.Errorf("processed deliveries = %d, want exactly 1", got)
	}

	if got := deposits.calls.Load(); got != 1 {
		t.Errorf("deposit calls = %d, want exactly 1", got)
	}
}
