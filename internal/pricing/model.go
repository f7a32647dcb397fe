package pricing

import (
	"strings"

	"orderdesk/internal/status"

	"github.com/shopspring/decimal"
)

// LineItem is one product row of an order being composed.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l LineItem) Subtotal() decimal.Decimal {
	return LineSubtotal(l.Quantity, l.UnitPrice)
}

// Valid reports whether the row counts toward "at least one valid product":
// a product is selected, quantity is positive and the price is not negative.
func (l LineItem) Valid() bool {
	return strings.TrimSpace(l.ProductID) != "" && l.Quantity > 0 && !l.UnitPrice.IsNegative()
}

// Draft is an order that has not been submitted yet.
type Draft struct {
	CustomerID  string
	DateOfEvent string // YYYY-MM-DD
	Status      status.OrderStatus
	LineItems   []LineItem
}

func (d Draft) Total() decimal.Decimal {
	return OrderTotal(d.LineItems)
}

// ValidItems drops rows that would not pass validation. These are what gets
// submitted.
func (d Draft) ValidItems() []LineItem {
	var items []LineItem
	for _, item := range d.LineItems {
		if item.Valid() {
			items = append(items, item)
		}
	}
	return items
}

// StatusOrDefault is the draft's status, Pending when unset.
func (d Draft) StatusOrDefault() status.OrderStatus {
	if d.Status == "" {
		return status.Pending
	}
	return d.Status
}

type Policy struct {
	MaxQuantity       int
	MaxUnitPrice      decimal.Decimal
	RequireFutureDate bool
}

func DefaultPolicy() Policy {
	return Policy{
		MaxQuantity:       1000,
		MaxUnitPrice:      decimal.NewFromInt(1_000_000),
		RequireFutureDate: true,
	}
}
