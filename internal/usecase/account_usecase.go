package usecase

import (
	"context"

	"github.com/iho/kinko-ledger/internal/domain"
)

// AccountUseCase handles account provisioning and read access.
type AccountUseCase struct {
	accounts AccountStore
	idGen    IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accounts AccountStore, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accounts: accounts,
		idGen:    idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Currency string
}

// CreateAccount provisions a new empty account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	currency := input.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	account := domain.NewAccount(uc.idGen.Generate(), currency, nil)

	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount reconstitutes an account, giving access to its derived
// balance.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accounts.Load(ctx, id)
}

// ListEntries returns the full entry history of an account in creation
// order.
func (uc *AccountUseCase) ListEntries(ctx context.Context, id string) ([]domain.LedgerEntry, error) {
	account, err := uc.accounts.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	return account.Entries(), nil
}
