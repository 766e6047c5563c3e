package usecase

import (
	"context"
	"time"

	"github.com/iho/kinko-ledger/internal/domain"
)

// AccountStore reconstitutes account aggregates from persisted entries
// and appends newly produced entries back to storage.
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	Load(ctx context.Context, id string) (*domain.Account, error)
	// LoadForUpdate reconstitutes the accounts with their rows locked
	// for the duration of tx. Callers must pass ids in sorted order so
	// concurrent units of work acquire locks in the same order.
	LoadForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	// Save appends the account's pending entries within tx. Previously
	// persisted entries are never touched.
	Save(ctx context.Context, tx Transaction, account *domain.Account) error
}

// WebhookEventStore records which external event ids have been
// processed. The record must be durable: it guards against redelivery
// across process restarts, not just within one process.
type WebhookEventStore interface {
	// ProcessOnce inserts a record for eventID if none exists. Exactly
	// one concurrent caller observes true for a given id.
	ProcessOnce(ctx context.Context, eventID string) (bool, error)
	MarkDone(ctx context.Context, eventID string) error
}

// LedgerStore aggregates over the whole ledger.
type LedgerStore interface {
	// Totals returns the signed sum over all entries and the signed
	// sum over settlement entries alone.
	Totals(ctx context.Context) (total, settled int64, err error)
	// UnbalancedReferences returns correlation references whose
	// entries do not net to zero.
	UnbalancedReferences(ctx context.Context, limit int) ([]string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs a unit of work when it fails in a retryable way
// (deadlock, serialization failure).
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage for the HTTP layer.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request may be retried.
	Release(ctx context.Context, key string) error
}
