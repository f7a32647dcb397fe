package status

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStatus = errors.New("unknown status")

type OrderStatus string

const (
	Pending    OrderStatus = "PENDING"
	InProgress OrderStatus = "IN_PROGRESS"
	Completed  OrderStatus = "COMPLETED"
	Delivered  OrderStatus = "DELIVERED"
	Cancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{Pending, InProgress, Completed, Delivered, Cancelled}

var transitions = map[OrderStatus][]OrderStatus{
	Pending:    {InProgress, Cancelled},
	InProgress: {Completed, Cancelled},
	Completed:  {Delivered},
}

var descriptions = map[OrderStatus]string{
	Pending:    "Waiting to start",
	InProgress: "Production started",
	Completed:  "Production complete",
	Delivered:  "Delivered to client",
	Cancelled:  "Order cancelled",
}

// ParseOrder accepts any case and spaces or dashes in place of underscores,
// so "in progress" parses as InProgress.
func ParseOrder(raw string) (OrderStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	s := OrderStatus(normalized)
	if _, ok := descriptions[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

func (s OrderStatus) Valid() bool {
	_, ok := descriptions[s]
	return ok
}

// CanTransition reports whether an order may move from s to next.
// Delivered and Cancelled are terminal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Next returns the statuses reachable from s in one step.
func (s OrderStatus) Next() []OrderStatus {
	return append([]OrderStatus(nil), transitions[s]...)
}

func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func (s OrderStatus) Description() string {
	return descriptions[s]
}

// Label is the human form, e.g. "In Progress".
func (s OrderStatus) Label() string {
	words := strings.Split(strings.ToLower(string(s)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (s OrderStatus) Color() string {
	return colorFor(string(s))
}

type PaymentStatus string

const (
	Unpaid  PaymentStatus = "UNPAID"
	Partial PaymentStatus = "PARTIAL"
	Paid    PaymentStatus = "PAID"
)

func ParsePayment(raw string) (PaymentStatus, error) {
	p := PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch p {
	case Unpaid, Partial, Paid:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

func (p PaymentStatus) Color() string {
	return colorFor(string(p))
}

// DefaultColor is used for anything without an assigned color.
const DefaultColor = "#95a5a6"

var colors = map[string]string{
	string(Pending):    "#f1c40f",
	string(InProgress): "#3498db",
	string(Completed):  "#27ae60",
	string(Delivered):  "#2ecc71",
	string(Cancelled):  "#e74c3c",
	string(Unpaid):     "#e74c3c",
	string(Partial):    "#f1c40f",
	string(Paid):       "#27ae60",
}

func colorFor(s string) string {
	if c, ok := colors[s]; ok {
		return c
	}
	return DefaultColor
}
