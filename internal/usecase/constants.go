package usecase

import "time"

const (
	// DefaultCurrency is assigned to accounts created without an
	// explicit currency.
	DefaultCurrency = "USD"

	// SettlementReferencePrefix marks entries that record external
	// funds arriving in clearing custody. Settlement entries are the
	// only entries without a balancing counterpart, so consistency
	// checks treat them separately.
	SettlementReferencePrefix = "settlement:"

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
