package services

import "errors"

// Common service errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrBorrowerHasDebt    = errors.New("borrower still owns loans or advances")
	ErrInvalidPayment     = errors.New("payment amount must be positive")
	ErrDuplicate          = errors.New("duplicate record")
)
