package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/kinko-ledger/internal/domain"
)

// WebhookEventStore implements usecase.WebhookEventStore with a
// durable unique-keyed table. The conflict-free insert is what makes
// the guard race-safe: two concurrent deliveries of the same event id
// resolve inside PostgreSQL, and exactly one insert takes effect.
type WebhookEventStore struct {
	pool *pgxpool.Pool
}

// NewWebhookEventStore creates a new WebhookEventStore.
func NewWebhookEventStore(pool *pgxpool.Pool) *WebhookEventStore {
	return &WebhookEventStore{pool: pool}
}

const claimEventSQL = `
	INSERT INTO webhook_events (event_id, status)
	VALUES ($1, 'processing')
	ON CONFLICT (event_id) DO NOTHING
`

// ProcessOnce claims eventID. It reports true for exactly one caller
// per id, across processes and restarts.
func (s *WebhookEventStore) ProcessOnce(ctx context.Context, eventID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, claimEventSQL, eventID)
	if err != nil {
		return false, fmt.Errorf("%w: claiming webhook event: %w", domain.ErrStorage, err)
	}

	return tag.RowsAffected() == 1, nil
}

const markEventDoneSQL = `
	UPDATE webhook_events
	SET status = 'done', updated_at = now()
	WHERE event_id = $1
`

// MarkDone records that the event's effect has been applied.
func (s *WebhookEventStore) MarkDone(ctx context.Context, eventID string) error {
	_, err := s.pool.Exec(ctx, markEventDoneSQL, eventID)
	if err != nil {
		return fmt.Errorf("%w: marking webhook event done: %w", domain.ErrStorage, err)
	}

	return nil
}
