package domain

import (
	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"BRL": "R$",
	"EUR": "€",
	"GBP": "£",
}

// Money is an immutable amount expressed in minor currency units
// (cents) plus a currency tag. Negative and zero amounts are legal
// values; rejecting non-positive amounts for credits and debits is the
// Account's job, not Money's.
type Money struct {
	AmountCents int64
	Currency    string
}

// NewMoney creates a Money value. No sign validation happens here.
func NewMoney(amountCents int64, currency string) Money {
	return Money{AmountCents: amountCents, Currency: currency}
}

// IsPositive reports whether the amount is strictly positive.
func (m Money) IsPositive() bool {
	return m.AmountCents > 0
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.AmountCents == 0
}

// IsNegative reports whether the amount is strictly negative.
func (m Money) IsNegative() bool {
	return m.AmountCents < 0
}

// Equal reports structural equality: same amount and same currency.
func (m Money) Equal(other Money) bool {
	return m.AmountCents == other.AmountCents && m.Currency == other.Currency
}

// String renders the amount in major units with the currency symbol,
// falling back to the raw currency code when no symbol is known.
func (m Money) String() string {
	symbol, ok := currencySymbols[m.Currency]
	if !ok {
		symbol = m.Currency
	}

	major := decimal.NewFromInt(m.AmountCents).Div(decimal.NewFromInt(100))

	return symbol + major.StringFixed(2)
}
