package customer

import "errors"

var (
	ErrNameRequired  = errors.New("customer name is required")
	ErrTermTooShort  = errors.New("search term must be at least 3 characters")
	ErrNotFound      = errors.New("customer not found")
	ErrHasOrders     = errors.New("customer has associated orders that must be removed first")
	ErrInvalidNumber = errors.New("invalid phone number")
)
