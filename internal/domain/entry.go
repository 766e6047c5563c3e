package domain

import "time"

// EntryDirection tells whether an entry moves money into or out of an
// account.
type EntryDirection string

const (
	EntryDebit  EntryDirection = "debit"
	EntryCredit EntryDirection = "credit"
)

// LedgerEntry is one immutable signed movement against a single
// account. The sign of AmountCents is always consistent with
// Direction: credits contribute positively to the balance, debits
// negatively. Entries are never edited or deleted; corrections are new
// opposing entries.
type LedgerEntry struct {
	AmountCents int64
	Currency    string
	Direction   EntryDirection
	Reference   string
	CreatedAt   time.Time
}

// NewLedgerEntry builds an entry with the direction derived from the
// amount sign. CreatedAt is assigned by storage and populated on load.
func NewLedgerEntry(amountCents int64, currency, reference string) LedgerEntry {
	direction := EntryCredit
	if amountCents < 0 {
		direction = EntryDebit
	}

	return LedgerEntry{
		AmountCents: amountCents,
		Currency:    currency,
		Direction:   direction,
		Reference:   reference,
	}
}
