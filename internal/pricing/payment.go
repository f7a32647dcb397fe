package pricing

import (
	"fmt"
	"strings"

	"orderdesk/internal/format"
	"orderdesk/internal/status"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a money amount typed by the user.
func ParseAmount(text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, text)
	}
	return d, nil
}

// CheckPayment rejects a payment before it is sent: the amount must be
// positive and must not exceed what is still owed.
func CheckPayment(amount, remaining decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(remaining) {
		return fmt.Errorf("%w: %s is more than the %s still owed",
			ErrPaymentExceedsBalance, format.Money(amount), format.Money(remaining))
	}
	return nil
}

// Remaining is total minus paid, never below zero.
func Remaining(total, paid decimal.Decimal) decimal.Decimal {
	r := total.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r.Round(2)
}

func PaymentStatusFor(paid, total decimal.Decimal) status.PaymentStatus {
	switch {
	case paid.IsPositive() && paid.GreaterThanOrEqual(total):
		return status.Paid
	case paid.IsPositive():
		return status.Partial
	default:
		return status.Unpaid
	}
}
