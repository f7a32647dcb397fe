package sms

import "github.com/shopspring/decimal"

// Status is where a payment transaction stands against the order book.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusMatched   Status = "MATCHED"
	StatusPartial   Status = "PARTIALLY_MATCHED"
	StatusUnmatched Status = "UNMATCHED"
)

var statusLabels = map[Status]string{
	StatusPending:   "Pending",
	StatusMatched:   "Matched",
	StatusPartial:   "Partially matched",
	StatusUnmatched: "Unmatched",
}

// Applied reports whether some of the money already went to an order.
func (s Status) Applied() bool {
	return s == StatusMatched || s == StatusPartial
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Transaction is one M-PESA payment confirmation as stored by the backend.
type Transaction struct {
	ID              int64           `json:"id"`
	TransactionID   string          `json:"transactionId"`
	Amount          decimal.Decimal `json:"amount"`
	CustomerName    string          `json:"customerName"`
	CustomerNumber  string          `json:"customerNumber"`
	TransactionDate string          `json:"transactionDate"`
	Status          Status          `json:"status"`
	OrderID         *int64          `json:"orderId,omitempty"`
	RawMessage      string          `json:"rawMessage,omitempty"`
}

// Receipt is the backend's answer to a forwarded message.
type Receipt struct {
	Status      string      `json:"status"`
	Transaction Transaction `json:"transaction"`
	Matched     bool        `json:"matched"`
	OrderID     *int64      `json:"orderId"`
}

type webhookRequest struct {
	Message string `json:"message"`
}
