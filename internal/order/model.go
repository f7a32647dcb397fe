package order

import (
	"orderdesk/internal/pricing"
	"orderdesk/internal/status"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              int64              `json:"id"`
	CustomerName    string             `json:"customerName"`
	CustomerNumber  string             `json:"customerNumber"`
	Status          status.OrderStatus `json:"status"`
	Date            string             `json:"date"`
	Products        []Product          `json:"products"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	PaidAmount      decimal.Decimal    `json:"paidAmount"`
	RemainingAmount decimal.Decimal    `json:"remainingAmount"`
	// PaymentStatus is shown as sent; Payment derives it from the amounts.
	PaymentStatus string `json:"paymentStatus"`
}

type Product struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity,omitempty"`
}

// Balance is what is still owed. The server's remainingAmount wins when set.
func (o Order) Balance() decimal.Decimal {
	if o.RemainingAmount.IsPositive() {
		return o.RemainingAmount
	}
	return pricing.Remaining(o.TotalAmount, o.PaidAmount)
}

func (o Order) Payment() status.PaymentStatus {
	return pricing.PaymentStatusFor(o.PaidAmount, o.TotalAmount)
}

// SearchQuery filters by exactly one of customer name or event date.
type SearchQuery struct {
	CustomerName string
	Date         string
}

type createRequest struct {
	CustomerID      int64              `json:"customerId"`
	DateOfEvent     string             `json:"dateOfEvent"`
	Status          status.OrderStatus `json:"status"`
	OrderItems      []itemRequest      `json:"orderItems"`
	TotalAmount     float64            `json:"totalAmount"`
	PaidAmount      float64            `json:"paidAmount"`
	RemainingAmount float64            `json:"remainingAmount"`
}

type itemRequest struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	ItemPrice float64 `json:"itemPrice"`
}

type statusRequest struct {
	Status status.OrderStatus `json:"status"`
}
