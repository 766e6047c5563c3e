package postgres

import (
	"fmt"
	"time"

	"github.com/iho/kinko-ledger/internal/domain"
)

// entryRecord is the storage shape of a ledger entry: a typed row with
// a strictly positive magnitude. The signed in-memory representation
// and this typed one are two encodings of the same value; the codec
// below is the only place that maps between them.
type entryRecord struct {
	AccountID   string
	AmountCents int64
	Currency    string
	EntryType   string
	Reference   *string
	Sequence    int64
	CreatedAt   time.Time
}

// entryToRecord encodes a signed entry as a typed row. The magnitude
// is always positive; zero amounts are rejected by the domain before
// entries exist, so every entry has a well-defined type.
func entryToRecord(accountID string, e domain.LedgerEntry) entryRecord {
	record := entryRecord{
		AccountID:   accountID,
		AmountCents: e.AmountCents,
		Currency:    e.Currency,
		EntryType:   string(e.Direction),
		CreatedAt:   e.CreatedAt,
	}

	if e.AmountCents < 0 {
		record.AmountCents = -e.AmountCents
	}

	if e.Reference != "" {
		ref := e.Reference
		record.Reference = &ref
	}

	return record
}

// entryFromRecord decodes a typed row back into a signed entry.
func entryFromRecord(r entryRecord) (domain.LedgerEntry, error) {
	if r.AmountCents <= 0 {
		return domain.LedgerEntry{}, fmt.Errorf("%w: entry %d has non-positive magnitude %d",
			domain.ErrStorage, r.Sequence, r.AmountCents)
	}

	var direction domain.EntryDirection
	switch r.EntryType {
	case string(domain.EntryDebit):
		direction = domain.EntryDebit
	case string(domain.EntryCredit):
		direction = domain.EntryCredit
	default:
		return domain.LedgerEntry{}, fmt.Errorf("%w: entry %d has unknown type %q",
			domain.ErrStorage, r.Sequence, r.EntryType)
	}

	amount := r.AmountCents
	if direction == domain.EntryDebit {
		amount = -amount
	}

	var reference string
	if r.Reference != nil {
		reference = *r.Reference
	}

	return domain.LedgerEntry{
		AmountCents: amount,
		Currency:    r.Currency,
		Direction:   direction,
		Reference:   reference,
		CreatedAt:   r.CreatedAt,
	}, nil
}
