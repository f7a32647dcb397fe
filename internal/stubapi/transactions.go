package stubapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"orderdesk/internal/pricing"
	"orderdesk/internal/sms"
	"orderdesk/internal/status"

	"github.com/shopspring/decimal"
)

type duplicateError struct {
	code string
}

func (e *duplicateError) Error() string {
	return "Transaction already processed: " + e.code
}

func (e *duplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// --- Transactions ---

func (s *Store) Transactions() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.transactions, func(t Transaction) int64 { return t.ID })
}

func (s *Store) UnmatchedTransactions() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Transaction
	for _, t := range sortedValues(s.transactions, func(t Transaction) int64 { return t.ID }) {
		if t.Status == sms.StatusUnmatched {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) Transaction(id int64) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok {
		return Transaction{}, &notFoundError{kind: "Transaction", id: id}
	}
	return t, nil
}

// RecordTransaction stores a forwarded M-PESA confirmation and applies its
// money to the sender's open orders. Each confirmation code is accepted once.
func (s *Store) RecordTransaction(raw string) (Transaction, error) {
	msg, err := sms.ParseMessage(raw, s.now())
	switch {
	case errors.Is(err, sms.ErrEmptyMessage):
		return Transaction{}, invalid("Message cannot be empty")
	case err != nil:
		return Transaction{}, invalid("Invalid message format: " + err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.codes[msg.Code]; seen {
		return Transaction{}, &duplicateError{code: msg.Code}
	}

	t := Transaction{
		ID:     s.next("transaction"),
		Code:   msg.Code,
		Amount: msg.Amount,
		Name:   msg.Name,
		Number: msg.Number,
		Date:   msg.Date,
		Status: sms.StatusPending,
		Raw:    msg.Raw,
	}
	s.allocate(&t)

	s.transactions[t.ID] = t
	s.codes[t.Code] = t.ID
	return t, nil
}

// allocate spreads the transaction amount over the sender's orders that
// still owe money, oldest event first. When the number belongs to more than
// one customer the name on the confirmation decides; if it cannot, nothing
// is applied. Must be called with mu held.
func (s *Store) allocate(t *Transaction) {
	byCustomer := map[int64][]Order{}
	for _, o := range s.orders {
		c, ok := s.customers[o.CustomerID]
		if !ok || c.Number != t.Number || o.Status == status.Cancelled {
			continue
		}
		if pricing.Remaining(o.Total, o.Paid).IsPositive() {
			byCustomer[c.ID] = append(byCustomer[c.ID], o)
		}
	}

	var orders []Order
	switch len(byCustomer) {
	case 0:
		t.Status = sms.StatusUnmatched
		return
	case 1:
		for _, list := range byCustomer {
			orders = list
		}
	default:
		for id, list := range byCustomer {
			if strings.EqualFold(s.customers[id].Name, t.Name) {
				orders = list
				break
			}
		}
		if orders == nil {
			t.Status = sms.StatusUnmatched
			return
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Date != orders[j].Date {
			return orders[i].Date < orders[j].Date
		}
		return orders[i].ID < orders[j].ID
	})

	left := t.Amount
	for _, o := range orders {
		if !left.IsPositive() {
			break
		}
		pay := decimal.Min(left, pricing.Remaining(o.Total, o.Paid))
		o.Paid = o.Paid.Add(pay).Round(2)
		s.orders[o.ID] = o
		t.OrderID = o.ID
		left = left.Sub(pay)
	}

	if left.IsPositive() {
		t.Status = sms.StatusPartial
		return
	}
	t.Status = sms.StatusMatched
}

// MatchTransaction applies the whole transaction to orderID by hand. Only
// transactions none of whose money has been applied yet qualify.
func (s *Store) MatchTransaction(id, orderID int64) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return Transaction{}, &notFoundError{kind: "Transaction", id: id}
	}
	o, ok := s.orders[orderID]
	if !ok {
		return Transaction{}, &notFoundError{kind: "Order", id: orderID}
	}
	if t.OrderID != 0 {
		return Transaction{}, invalid(fmt.Sprintf("Transaction already matched to order %d", t.OrderID))
	}

	if _, err := s.applyPayment(o, t.Amount); err != nil {
		return Transaction{}, err
	}
	t.OrderID = orderID
	t.Status = sms.StatusMatched
	s.transactions[id] = t
	return t, nil
}

func (s *Store) DeleteTransaction(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return &notFoundError{kind: "Transaction", id: id}
	}
	delete(s.transactions, id)
	delete(s.codes, t.Code)
	return nil
}
