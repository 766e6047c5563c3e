package dto

import (
	"time"

	"github.com/iho/kinko-ledger/internal/domain"
)

// AccountResponse represents an account in API responses. The balance
// is derived from the account's entries at read time; there is no
// stored balance to report.
type AccountResponse struct {
	ID           string `json:"id"`
	Currency     string `json:"currency"`
	BalanceCents int64  `json:"balance_cents"`
	Balance      string `json:"balance"`
	Status       string `json:"status"`
}

// AccountFromDomain converts a domain account to a response. Accounts are
// active for their whole lifetime; the status field is there for clients
// that branch on it.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	balance := domain.NewMoney(a.Balance(), a.Currency())

	return &AccountResponse{
		ID:           a.ID(),
		Currency:     a.Currency(),
		BalanceCents: balance.AmountCents,
		Balance:      balance.String(),
		Status:       "active",
	}
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Direction   string    `json:"direction"`
	Reference   string    `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		AmountCents: e.AmountCents,
		Currency:    e.Currency,
		Direction:   string(e.Direction),
		Reference:   e.Reference,
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TransferResponse carries the correlation reference shared by the
// transfer's two entries.
type TransferResponse struct {
	Reference string `json:"reference"`
}

// DepositResponse acknowledges an applied deposit.
type DepositResponse struct {
	Status string `json:"status"`
}

// SettlementResponse carries the reference written to the settlement
// entry.
type SettlementResponse struct {
	Reference string `json:"reference"`
}

// WebhookResponse tells the provider whether the event was applied or
// recognized as a duplicate.
type WebhookResponse struct {
	Processed bool `json:"processed"`
}

// ConsistencyResponse reports the outcome of a ledger consistency
// check.
type ConsistencyResponse struct {
	Consistent bool `json:"consistent"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
