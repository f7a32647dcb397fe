package stubapi

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrReferenced   = errors.New("could not execute statement; constraint violation; foreign key still referenced")
	ErrDuplicate    = errors.New("duplicate transaction")
)
