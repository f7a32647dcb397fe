package stubapi

import (
	"time"

	"orderdesk/internal/sms"
	"orderdesk/internal/status"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID     int64
	Name   string
	Number string
}

type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Stock int
	Type  string
}

type Item struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

type Order struct {
	ID         int64
	CustomerID int64
	Status     status.OrderStatus
	Date       string
	Items      []Item
	Total      decimal.Decimal
	Paid       decimal.Decimal
}

// NewOrder is an order as submitted, before the store checks it.
type NewOrder struct {
	CustomerID int64
	Date       string
	Status     string
	Items      []Item
	Total      decimal.Decimal
}

// Transaction is a payment confirmation received over the SMS webhook.
// OrderID is 0 until some of the money has been applied to an order.
type Transaction struct {
	ID      int64
	Code    string
	Amount  decimal.Decimal
	Name    string
	Number  string
	Date    time.Time
	Status  sms.Status
	OrderID int64
	Raw     string
}
