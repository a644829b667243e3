package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("not authorized to pay for this job")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrInvalidDeposit    = errors.New("no unpaid jobs to calculate deposit from")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoData            = errors.New("no data found for the given date range")
	ErrInternal          = errors.New("internal error")

	// ErrInvalidDateRange also matches ErrInvalidInput.
	ErrInvalidDateRange = fmt.Errorf("%w: invalid date range", ErrInvalidInput)
)
