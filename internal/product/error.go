package product

import "errors"

var (
	ErrNameRequired  = errors.New("product name is required")
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrNegativeStock = errors.New("stock cannot be negative")
	ErrInvalidType   = errors.New("product type must be one of ELECTRONICS, FURNITURE, CLOTHING, FOOD, OTHER")
	ErrNotFound      = errors.New("product not found")
	ErrHasOrders     = errors.New("product has associated orders that must be removed first")
)
