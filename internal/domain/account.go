package domain

// Account is the ledger aggregate for a single identity. The balance
// is always derived from entries, never stored. Entries loaded from
// storage are kept apart from entries produced in the current unit of
// work so the store persists exactly the delta.
type Account struct {
	id        string
	currency  string
	persisted []LedgerEntry
	pending   []LedgerEntry
}

// NewAccount reconstitutes an account from its persisted entries. A
// brand-new account has none.
func NewAccount(id, currency string, persisted []LedgerEntry) *Account {
	return &Account{
		id:        id,
		currency:  currency,
		persisted: persisted,
	}
}

// ID returns the account identity.
func (a *Account) ID() string {
	return a.id
}

// Currency returns the account currency.
func (a *Account) Currency() string {
	return a.currency
}

// Balance is the signed sum over every entry, persisted and pending.
func (a *Account) Balance() int64 {
	var total int64
	for _, e := range a.persisted {
		total += e.AmountCents
	}

	for _, e := range a.pending {
		total += e.AmountCents
	}

	return total
}

// Credit appends a pending credit entry tagged with reference.
func (a *Account) Credit(money Money, reference string) error {
	if err := a.validateAmount(money); err != nil {
		return err
	}

	a.register(money.AmountCents, reference)

	return nil
}

// Debit appends a pending debit entry tagged with reference. A debit
// that would drive the balance negative is rejected.
func (a *Account) Debit(money Money, reference string) error {
	if err := a.validateAmount(money); err != nil {
		return err
	}

	if a.Balance()-money.AmountCents < 0 {
		return ErrInsufficientFunds
	}

	a.register(-money.AmountCents, reference)

	return nil
}

// Entries returns a copy of every entry in creation order, persisted
// first. Mutating the returned slice does not affect the account.
func (a *Account) Entries() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(a.persisted)+len(a.pending))
	out = append(out, a.persisted...)
	out = append(out, a.pending...)

	return out
}

// NewEntries returns a copy of the entries produced since the account
// was loaded, still pending persistence.
func (a *Account) NewEntries() []LedgerEntry {
	out := make([]LedgerEntry, len(a.pending))
	copy(out, a.pending)

	return out
}

func (a *Account) validateAmount(money Money) error {
	if !money.IsPositive() {
		return ErrInvalidAmount
	}

	if money.Currency != a.currency {
		return ErrCurrencyMismatch
	}

	return nil
}

func (a *Account) register(amountCents int64, reference string) {
	a.pending = append(a.pending, NewLedgerEntry(amountCents, a.currency, reference))
}
