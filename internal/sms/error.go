package sms

import "errors"

var (
	ErrEmptyMessage  = errors.New("message cannot be empty")
	ErrUnrecognized  = errors.New("invalid M-PESA message format")
	ErrInvalidAmount = errors.New("transaction amount must be positive")
	ErrInvalidNumber = errors.New("invalid phone number format")
	ErrInvalidDate   = errors.New("invalid date/time format")
	ErrFutureDate    = errors.New("transaction date cannot be in the future")

	ErrNotFound       = errors.New("transaction not found")
	ErrDuplicate      = errors.New("transaction already recorded")
	ErrAlreadyMatched = errors.New("transaction is already matched to an order")
)
