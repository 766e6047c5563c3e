package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/kinko-ledger/internal/domain"
)

// TransferUseCase moves money between two accounts as one atomic unit
// of work: a debit on the source and a credit on the destination, both
// tagged with a shared correlation reference.
type TransferUseCase struct {
	txManager TransactionManager
	accounts  AccountStore
	retrier   Retrier
	idGen     IDGenerator
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accounts AccountStore,
	retrier Retrier,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager: txManager,
		accounts:  accounts,
		retrier:   retrier,
		idGen:     idGen,
	}
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	AmountCents   int64
	Currency      string
}

// Transfer debits the source account and credits the destination
// account, persisting both legs atomically. It returns the correlation
// reference shared by the two entries. On any error nothing is
// persisted; the aggregates mutated in memory are discarded.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (string, error) {
	if input.FromAccountID == input.ToAccountID {
		return "", domain.ErrSameAccount
	}

	money := domain.NewMoney(input.AmountCents, input.Currency)
	if !money.IsPositive() {
		return "", domain.ErrInvalidAmount
	}

	// Sorted lock order keeps concurrent transfers between the same
	// pair of accounts from deadlocking.
	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	reference := uc.idGen.Generate()

	err := uc.retrier.Retry(ctx, func() error {
		return uc.execute(ctx, ids, input, money, reference)
	})
	if err != nil {
		return "", err
	}

	return reference, nil
}

func (uc *TransferUseCase) execute(ctx context.Context, ids []string, input TransferInput, money domain.Money, reference string) error {
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

	from := byID[input.FromAccountID]
	to := byID[input.ToAccountID]

	if from == nil || to == nil {
		return domain.ErrAccountNotFound
	}

	if err := from.Debit(money, reference); err != nil {
		return err
	}

	if err := to.Credit(money, reference); err != nil {
		return err
	}

	if err := uc.accounts.Save(ctx, tx, from); err != nil {
		return err
	}

	if err := uc.accounts.Save(ctx, tx, to); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	return nil
}
