package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/kinko-ledger/internal/domain"
)

// DepositUseCase credits externally received funds to an account. The
// counterpart leg is a debit on the system clearing account, which
// represents custody of funds already collected from the payment
// processor. That keeps the whole ledger zero-sum: every cent credited
// to a user traces to a debit somewhere in the system.
type DepositUseCase struct {
	txManager         TransactionManager
	accounts          AccountStore
	retrier           Retrier
	idGen             IDGenerator
	clearingAccountID string
}

// NewDepositUseCase creates a new DepositUseCase. The clearing account
// identity comes from configuration, never from ambient process state.
func NewDepositUseCase(
	txManager TransactionManager,
	accounts AccountStore,
	retrier Retrier,
	idGen IDGenerator,
	clearingAccountID string,
) *DepositUseCase {
	return &DepositUseCase{
		txManager:         txManager,
		accounts:          accounts,
		retrier:           retrier,
		idGen:             idGen,
		clearingAccountID: clearingAccountID,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountID   string
	AmountCents int64
	// Reference correlates the two deposit legs. Webhook-triggered
	// deposits pass the provider event id; when empty a fresh id is
	// generated.
	Reference string
}

// Deposit credits the destination account and debits the clearing
// account atomically. An InsufficientFunds failure on the clearing leg
// signals a bookkeeping inconsistency upstream: deposits may only move
// funds the clearing account already holds in custody.
func (uc *DepositUseCase) Deposit(ctx context.Context, input DepositInput) error {
	if input.AccountID == uc.clearingAccountID {
		return domain.ErrSameAccount
	}

	if input.AmountCents <= 0 {
		return domain.ErrInvalidAmount
	}

	reference := input.Reference
	if reference == "" {
		reference = uc.idGen.Generate()
	}

	ids := []string{input.AccountID, uc.clearingAccountID}
	sort.Strings(ids)

	return uc.retrier.Retry(ctx, func() error {
		return uc.execute(ctx, ids, input, reference)
	})
}

func (uc *DepositUseCase) execute(ctx context.Context, ids []string, input DepositInput, reference string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accounts.LoadForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	if len(accounts) != len(ids) {
		return domain.ErrAccountNotFound
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID()] = a
	}

	destination := byID[input.AccountID]
	clearing := byID[uc.clearingAccountID]

	if destination == nil || clearing == nil {
		return domain.ErrAccountNotFound
	}

	if destination.Currency() != clearing.Currency() {
		return domain.ErrCurrencyMismatch
	}

	money := domain.NewMoney(input.AmountCents, destination.Currency())

	if err := destination.Credit(money, reference); err != nil {
		return err
	}

	if err := clearing.Debit(money, reference); err != nil {
		return err
	}

	if err := uc.accounts.Save(ctx, tx, destination); err != nil {
		return err
	}

	if err := uc.accounts.Save(ctx, tx, clearing); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	return nil
}

// SettlementInput represents input for recording a settlement.
type SettlementInput struct {
	AmountCents int64
	// Reference identifies the provider payout; when empty a fresh id
	// is generated.
	Reference string
}

// RecordSettlement credits the clearing account with funds paid out by
// the payment processor. Settlement entries are true external inflows,
// the only entries carrying no balancing counterpart, and are tagged
// with a settlement reference so consistency checks can recognize
// them. It returns the full reference written to the entry.
func (uc *DepositUseCase) RecordSettlement(ctx context.Context, input SettlementInput) (string, error) {
	if input.AmountCents <= 0 {
		return "", domain.ErrInvalidAmount
	}

	ref := input.Reference
	if ref == "" {
		ref = uc.idGen.Generate()
	}
	reference := SettlementReferencePrefix + ref

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}
		defer tx.Rollback(ctx)

		accounts, err := uc.accounts.LoadForUpdate(ctx, tx, []string{uc.clearingAccountID})
		if err != nil {
			return err
		}

		if len(accounts) != 1 {
			return domain.ErrAccountNotFound
		}

		clearing := accounts[0]

		money := domain.NewMoney(input.AmountCents, clearing.Currency())
		if err := clearing.Credit(money, reference); err != nil {
			return err
		}

		if err := uc.accounts.Save(ctx, tx, clearing); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return reference, nil
}
