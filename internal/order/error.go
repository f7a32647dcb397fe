package order

import (
	"errors"

	"orderdesk/internal/pricing"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("status change not allowed")
	ErrInvalidProduct    = errors.New("product id must be numeric")
	ErrInvalidCustomer   = errors.New("customer id must be numeric")

	ErrPaymentExceedsBalance = pricing.ErrPaymentExceedsBalance
	ErrInvalidAmount         = pricing.ErrInvalidAmount
)
