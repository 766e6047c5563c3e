package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/kinko-ledger/internal/domain"
	"github.com/iho/kinko-ledger/internal/usecase"
)

type accountQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountStore implements usecase.AccountStore on top of PostgreSQL.
// Accounts are reconstituted from their entry rows; no balance column
// exists to drift out of sync.
type AccountStore struct {
	pool accountQuerier
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return newAccountStoreWithPool(pool)
}

func newAccountStoreWithPool(pool accountQuerier) *AccountStore {
	return &AccountStore{pool: pool}
}

const createAccountSQL = `
	INSERT INTO accounts (id, currency)
	VALUES ($1, $2)
`

// Create provisions a new account row.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	_, err := s.pool.Exec(ctx, createAccountSQL, account.ID(), account.Currency())
	if err != nil {
		return fmt.Errorf("%w: creating account: %w", domain.ErrStorage, err)
	}

	return nil
}

const getAccountSQL = `
	SELECT id, currency
	FROM accounts
	WHERE id = $1
`

const getEntriesSQL = `
	SELECT account_id, amount_cents, currency, entry_type, reference, id, created_at
	FROM ledger_entries
	WHERE account_id = $1
	ORDER BY id
`

// Load reconstitutes an account from its row and full entry history.
func (s *AccountStore) Load(ctx context.Context, id string) (*domain.Account, error) {
	var accountID, currency string

	err := s.pool.QueryRow(ctx, getAccountSQL, id).Scan(&accountID, &currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, fmt.Errorf("%w: loading account: %w", domain.ErrStorage, err)
	}

	rows, err := s.pool.Query(ctx, getEntriesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("%w: loading entries: %w", domain.ErrStorage, err)
	}

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	return domain.NewAccount(accountID, currency, entries), nil
}

const lockAccountsSQL = `
	SELECT id, currency
	FROM accounts
	WHERE id = ANY($1)
	ORDER BY id
	FOR UPDATE
`

const getEntriesForAccountsSQL = `
	SELECT account_id, amount_cents, currency, entry_type, reference, id, created_at
	FROM ledger_entries
	WHERE account_id = ANY($1)
	ORDER BY id
`

// LoadForUpdate reconstitutes accounts with their rows locked for the
// duration of tx. The lock query orders by id so that concurrent units
// of work acquire locks in the same order regardless of transfer
// direction; callers pass ids pre-sorted for the same reason.
func (s *AccountStore) LoadForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, lockAccountsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: locking accounts: %w", domain.ErrStorage, err)
	}

	type accountRow struct {
		id       string
		currency string
	}

	var accountRows []accountRow

	for rows.Next() {
		var row accountRow
		if err := rows.Scan(&row.id, &row.currency); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: scanning account: %w", domain.ErrStorage, err)
		}
		accountRows = append(accountRows, row)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: locking accounts: %w", domain.ErrStorage, err)
	}

	entryRows, err := pgxTx.Query(ctx, getEntriesForAccountsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: loading entries: %w", domain.ErrStorage, err)
	}

	entriesByAccount, err := scanEntriesByAccount(entryRows)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(accountRows))
	for _, row := range accountRows {
		accounts = append(accounts, domain.NewAccount(row.id, row.currency, entriesByAccount[row.id]))
	}

	return accounts, nil
}

const insertEntrySQL = `
	INSERT INTO ledger_entries (account_id, amount_cents, currency, entry_type, reference)
	VALUES ($1, $2, $3, $4, $5)
`

// Save appends the account's pending entries within tx. Persisted
// entries are immutable and never rewritten.
func (s *AccountStore) Save(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx := tx.(*Tx).PgxTx()

	for _, entry := range account.NewEntries() {
		record := entryToRecord(account.ID(), entry)

		_, err := pgxTx.Exec(ctx, insertEntrySQL,
			record.AccountID,
			record.AmountCents,
			record.Currency,
			record.EntryType,
			record.Reference,
		)
		if err != nil {
			return fmt.Errorf("%w: inserting entry: %w", domain.ErrStorage, err)
		}
	}

	return nil
}

func scanEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()

	var entries []domain.LedgerEntry

	for rows.Next() {
		var record entryRecord

		err := rows.Scan(
			&record.AccountID,
			&record.AmountCents,
			&record.Currency,
			&record.EntryType,
			&record.Reference,
			&record.Sequence,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning entry: %w", domain.ErrStorage, err)
		}

		entry, err := entryFromRecord(record)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading entries: %w", domain.ErrStorage, err)
	}

	return entries, nil
}

func scanEntriesByAccount(rows pgx.Rows) (map[string][]domain.LedgerEntry, error) {
	defer rows.Close()

	entries := make(map[string][]domain.LedgerEntry)

	for rows.Next() {
		var record entryRecord

		err := rows.Scan(
			&record.AccountID,
			&record.AmountCents,
			&record.Currency,
			&record.EntryType,
			&record.Reference,
			&record.Sequence,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning entry: %w", domain.ErrStorage, err)
		}

		entry, err := entryFromRecord(record)
		if err != nil {
			return nil, err
		}

		entries[record.AccountID] = append(entries[record.AccountID], entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading entries: %w", domain.ErrStorage, err)
	}

	return entries, nil
}
