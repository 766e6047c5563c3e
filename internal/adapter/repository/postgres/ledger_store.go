package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/kinko-ledger/internal/domain"
	"github.com/iho/kinko-ledger/internal/usecase"
)

// LedgerStore implements usecase.LedgerStore with aggregate queries
// over the whole entry table.
type LedgerStore struct {
	pool *pgxpool.Pool
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

const totalsSQL = `
	SELECT
		COALESCE(SUM(CASE WHEN entry_type = 'credit' THEN amount_cents ELSE -amount_cents END), 0),
		COALESCE(SUM(CASE
			WHEN reference LIKE $1 || '%'
			THEN CASE WHEN entry_type = 'credit' THEN amount_cents ELSE -amount_cents END
			ELSE 0
		END), 0)
	FROM ledger_entries
`

// Totals returns the signed sum over every entry and the signed sum
// over settlement entries alone. A balanced ledger has the two equal:
// settlements are the only entries without a counterpart leg.
func (s *LedgerStore) Totals(ctx context.Context) (int64, int64, error) {
	var total, settled int64

	err := s.pool.QueryRow(ctx, totalsSQL, usecase.SettlementReferencePrefix).Scan(&total, &settled)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: summing ledger: %w", domain.ErrStorage, err)
	}

	return total, settled, nil
}

const unbalancedReferencesSQL = `
	SELECT reference
	FROM ledger_entries
	WHERE reference IS NOT NULL
	  AND reference NOT LIKE $1 || '%'
	GROUP BY reference
	HAVING SUM(CASE WHEN entry_type = 'credit' THEN amount_cents ELSE -amount_cents END) <> 0
	ORDER BY reference
	LIMIT $2
`

// UnbalancedReferences returns correlation references whose entries do
// not net to zero, excluding settlement references, which are one
// sided on purpose.
func (s *LedgerStore) UnbalancedReferences(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx, unbalancedReferencesSQL, usecase.SettlementReferencePrefix, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: finding unbalanced references: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var references []string

	for rows.Next() {
		var reference string
		if err := rows.Scan(&reference); err != nil {
			return nil, fmt.Errorf("%w: scanning reference: %w", domain.ErrStorage, err)
		}
		references = append(references, reference)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading references: %w", domain.ErrStorage, err)
	}

	return references, nil
}
