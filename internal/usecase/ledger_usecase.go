package usecase

import (
	"context"
	"errors"
)

var (
	// ErrInconsistentLedger is returned when the ledger does not
	// balance.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: entries do not balance")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledger LedgerStore
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledger LedgerStore) *LedgerUseCase {
	return &LedgerUseCase{
		ledger: ledger,
	}
}

// CheckConsistency verifies that the ledger is balanced: the signed
// sum over every entry must equal the settlement inflows (the only
// entries without a counterpart leg), and every transfer or deposit
// reference must net to zero across its two legs.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	total, settled, err := uc.ledger.Totals(ctx)
	if err != nil {
		return false, err
	}

	if total != settled {
		return false, ErrInconsistentLedger
	}

	unbalanced, err := uc.ledger.UnbalancedReferences(ctx, 10)
	if err != nil {
		return false, err
	}

	if len(unbalanced) > 0 {
		return false, ErrInconsistentLedger
	}

	return true, nil
}
