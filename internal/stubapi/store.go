package stubapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"orderdesk/internal/format"
	"orderdesk/internal/pricing"
	"orderdesk/internal/product"
	"orderdesk/internal/status"

	"github.com/shopspring/decimal"
)

// InputError carries the messages shown to the caller for a rejected
// request. It matches ErrInvalidInput.
type InputError struct {
	Messages []string
}

func invalid(messages ...string) *InputError {
	return &InputError{Messages: messages}
}

func (e *InputError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

type notFoundError struct {
	kind string
	id   int64
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.kind, e.id)
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Store keeps every resource in memory. IDs are assigned per resource
// starting at 1 and never reused.
type Store struct {
	mu           sync.RWMutex
	customers    map[int64]Customer
	products     map[int64]Product
	orders       map[int64]Order
	transactions map[int64]Transaction
	codes        map[string]int64
	seq          map[string]int64
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		customers:    map[int64]Customer{},
		products:     map[int64]Product{},
		orders:       map[int64]Order{},
		transactions: map[int64]Transaction{},
		codes:        map[string]int64{},
		seq:          map[string]int64{},
		now:          time.Now,
	}
}

func (s *Store) next(kind string) int64 {
	s.seq[kind]++
	return s.seq[kind]
}

// --- Customers ---

func (s *Store) Customers() []Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.customers, func(c Customer) int64 { return c.ID })
}

// SearchCustomers matches name case-insensitively, or the digits of number
// anywhere in the stored phone number (a leading 0 reads as 254). number
// wins when both are set.
func (s *Store) SearchCustomers(name, number string) []Customer {
	name = strings.ToLower(strings.TrimSpace(name))
	digits := onlyDigits(number)
	if strings.HasPrefix(digits, "0") {
		digits = "254" + digits[1:]
	}

	var out []Customer
	for _, c := range s.Customers() {
		switch {
		case digits != "":
			if strings.Contains(c.Number, digits) {
				out = append(out, c)
			}
		case name != "":
			if strings.Contains(strings.ToLower(c.Name), name) {
				out = append(out, c)
			}
		}
	}
	return out
}

func (s *Store) AddCustomer(name, number string) (Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Customer{}, invalid("Customer name is required")
	}
	normalized, err := format.NormalizePhone(number)
	if err != nil {
		return Customer{}, invalid("Invalid phone number format")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := Customer{ID: s.next("customer"), Name: name, Number: normalized}
	s.customers[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCustomer(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return &notFoundError{kind: "Customer", id: id}
	}
	for _, o := range s.orders {
		if o.CustomerID == id {
			return fmt.Errorf("delete customer %d: %w", id, ErrReferenced)
		}
	}
	delete(s.customers, id)
	return nil
}

// OrderCount is the number of orders placed by the customer.
func (s *Store) OrderCount(customerID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			n++
		}
	}
	return n
}

// --- Products ---

func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.products, func(p Product) int64 { return p.ID })
}

// SearchProducts matches the term against the name, or the type exactly.
func (s *Store) SearchProducts(term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))

	var out []Product
	for _, p := range s.Products() {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.EqualFold(p.Type, term) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) AddProduct(name string, price decimal.Decimal, stock int, kind string) (Product, error) {
	var problems []string
	name = strings.TrimSpace(name)
	if name == "" {
		problems = append(problems, "Product name is required")
	}
	if price.IsNegative() {
		problems = append(problems, "Price cannot be negative")
	}
	if stock < 0 {
		problems = append(problems, "Stock cannot be negative")
	}
	t, err := product.ParseType(kind)
	if err != nil {
		problems = append(problems, "Invalid product type")
	}
	if len(problems) > 0 {
		return Product{}, invalid(problems...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := Product{ID: s.next("product"), Name: name, Price: price.Round(2), Stock: stock, Type: string(t)}
	s.products[p.ID] = p
	return p, nil
}

func (s *Store) DeleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return &notFoundError{kind: "Product", id: id}
	}
	for _, o := range s.orders {
		for _, it := range o.Items {
			if it.ProductID == id {
				return fmt.Errorf("delete product %d: %w", id, ErrReferenced)
			}
		}
	}
	delete(s.products, id)
	return nil
}

// --- Orders ---

func (s *Store) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.orders, func(o Order) int64 { return o.ID })
}

// SearchOrders filters by event date when set, otherwise by customer name.
func (s *Store) SearchOrders(customerName, date string) []Order {
	customerName = strings.ToLower(strings.TrimSpace(customerName))
	date = strings.TrimSpace(date)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Order
	for _, o := range sortedValues(s.orders, func(o Order) int64 { return o.ID }) {
		switch {
		case date != "":
			if o.Date == date {
				out = append(out, o)
			}
		case customerName != "":
			if strings.Contains(strings.ToLower(s.customers[o.CustomerID].Name), customerName) {
				out = append(out, o)
			}
		}
	}
	return out
}

// Customer looks a customer up by id.
func (s *Store) Customer(id int64) (Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	return c, ok
}

func (s *Store) Product(id int64) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

// AddOrder checks the order the way the backend does: known customer, a
// date, at least one line, known products, and a total equal to the sum of
// the rounded line subtotals.
func (s *Store) AddOrder(in NewOrder) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var problems []string
	if _, ok := s.customers[in.CustomerID]; !ok {
		problems = append(problems, "Customer not found")
	}
	if strings.TrimSpace(in.Date) == "" {
		problems = append(problems, "Date of event is required")
	}
	if len(in.Items) == 0 {
		problems = append(problems, "At least one product is required")
	}

	lines := make([]pricing.LineItem, 0, len(in.Items))
	for i, it := range in.Items {
		if _, ok := s.products[it.ProductID]; !ok {
			problems = append(problems, fmt.Sprintf("Line %d: product not found with id: %d", i+1, it.ProductID))
		}
		if it.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("Line %d: quantity must be at least 1", i+1))
		}
		if it.Price.IsNegative() {
			problems = append(problems, fmt.Sprintf("Line %d: price cannot be negative", i+1))
		}
		lines = append(lines, pricing.LineItem{Quantity: it.Quantity, UnitPrice: it.Price})
	}

	st := status.Pending
	if strings.TrimSpace(in.Status) != "" {
		parsed, err := status.ParseOrder(in.Status)
		if err != nil {
			problems = append(problems, "Invalid order status")
		}
		st = parsed
	}
	if len(problems) > 0 {
		return Order{}, invalid(problems...)
	}

	total := pricing.OrderTotal(lines)
	if !total.Equal(in.Total.Round(2)) {
		return Order{}, invalid("Total amount mismatch")
	}

	o := Order{
		ID:         s.next("order"),
		CustomerID: in.CustomerID,
		Status:     st,
		Date:       in.Date,
		Items:      append([]Item(nil), in.Items...),
		Total:      total,
		Paid:       decimal.Zero,
	}
	s.orders[o.ID] = o
	return o, nil
}

func (s *Store) DeleteOrder(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return &notFoundError{kind: "Order", id: id}
	}
	for _, tx := range s.transactions {
		if tx.OrderID == id {
			return fmt.Errorf("delete order %d: %w", id, ErrReferenced)
		}
	}
	delete(s.orders, id)
	return nil
}

// UpdateStatus moves an order along its lifecycle. Setting the current
// status again is accepted as a no-op.
func (s *Store) UpdateStatus(id int64, raw string) (Order, error) {
	if strings.TrimSpace(raw) == "" {
		return Order{}, invalid("Status cannot be empty")
	}
	next, err := status.ParseOrder(raw)
	if err != nil {
		return Order{}, invalid("Invalid status. Must be one of: " + statusList())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, &notFoundError{kind: "Order", id: id}
	}
	if o.Status != next && !o.Status.CanTransition(next) {
		return Order{}, invalid(fmt.Sprintf("Cannot change status from %s to %s", o.Status, next))
	}
	o.Status = next
	s.orders[id] = o
	return o, nil
}

// RecordPayment adds amount to what has been paid on the order.
func (s *Store) RecordPayment(id int64, amount decimal.Decimal) (Order, error) {
	if !amount.IsPositive() {
		return Order{}, invalid("Payment amount must be greater than zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, &notFoundError{kind: "Order", id: id}
	}
	return s.applyPayment(o, amount)
}

// applyPayment must be called with mu held.
func (s *Store) applyPayment(o Order, amount decimal.Decimal) (Order, error) {
	remaining := pricing.Remaining(o.Total, o.Paid)
	if err := pricing.CheckPayment(amount, remaining); err != nil {
		if errors.Is(err, pricing.ErrPaymentExceedsBalance) {
			return Order{}, invalid("Payment amount exceeds remaining balance")
		}
		return Order{}, invalid(err.Error())
	}

	o.Paid = o.Paid.Add(amount).Round(2)
	s.orders[o.ID] = o
	return o, nil
}

func statusList() string {
	names := make([]string, len(status.OrderStatuses))
	for i, st := range status.OrderStatuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sortedValues[T any](m map[int64]T, id func(T) int64) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}
