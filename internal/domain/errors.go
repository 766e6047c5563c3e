package domain

import "errors"

var (
	// Account errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds for this operation")
	ErrAccountNotFound   = errors.New("account not found")
	ErrCurrencyMismatch  = errors.New("operation currency does not match account currency")

	// Transfer errors
	ErrSameAccount = errors.New("cannot transfer to same account")

	// Infrastructure errors
	ErrStorage = errors.New("storage failure")
)
