package pricing

import (
	"errors"
	"strings"
)

var (
	ErrInvalidAmount         = errors.New("payment amount must be greater than zero")
	ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")
)

// ValidationError carries every rule a draft failed. It never reaches the
// network.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid order: " + strings.Join(msgs, "; ")
}

// Has reports whether field failed at least one rule.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
