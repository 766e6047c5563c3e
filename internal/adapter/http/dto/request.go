package dto

import (
	"github.com/iho/kinko-ledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Currency string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Currency: r.Currency,
	}
}

// CreateTransferRequest represents a request to transfer funds between
// two accounts. Amounts are integer cents; fractional cents do not
// exist on the wire or anywhere else.
type CreateTransferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		AmountCents:   r.AmountCents,
		Currency:      r.Currency,
	}
}

// CreateDepositRequest represents a request to credit external funds
// to an account.
type CreateDepositRequest struct {
	AccountID   string `json:"account_id"`
	AmountCents int64  `json:"amount_cents"`
	Reference   string `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDepositRequest) ToUseCaseInput() usecase.DepositInput {
	return usecase.DepositInput{
		AccountID:   r.AccountID,
		AmountCents: r.AmountCents,
		Reference:   r.Reference,
	}
}

// CreateSettlementRequest represents a payment provider payout being
// recorded against the clearing account.
type CreateSettlementRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Reference   string `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateSettlementRequest) ToUseCaseInput() usecase.SettlementInput {
	return usecase.SettlementInput{
		AmountCents: r.AmountCents,
		Reference:   r.Reference,
	}
}

// PaymentWebhookEvent is the provider's event envelope. Only the
// fields the deposit flow needs are decoded.
type PaymentWebhookEvent struct {
	ID   string             `json:"id"`
	Type string             `json:"type"`
	Data PaymentWebhookData `json:"data"`
}

// PaymentWebhookData wraps the event payload object.
type PaymentWebhookData struct {
	Object PaymentWebhookObject `json:"object"`
}

// PaymentWebhookObject carries the payment details.
type PaymentWebhookObject struct {
	AmountCents int64                   `json:"amount"`
	Metadata    PaymentWebhookRouteInfo `json:"metadata"`
}

// PaymentWebhookRouteInfo carries the metadata attached when the
// payment was initiated; it routes the credit to an account.
type PaymentWebhookRouteInfo struct {
	AccountID string `json:"account_uuid"`
}

// ToUseCaseInput converts to use case input.
func (e *PaymentWebhookEvent) ToUseCaseInput() usecase.PaymentEventInput {
	return usecase.PaymentEventInput{
		EventID:     e.ID,
		AccountID:   e.Data.Object.Metadata.AccountID,
		AmountCents: e.Data.Object.AmountCents,
	}
}
