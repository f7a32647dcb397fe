package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"orderdesk/internal/format"
)

const (
	FieldCustomer = "customer"
	FieldDate     = "dateOfEvent"
	FieldStatus   = "status"
	FieldProducts = "products"
)

const (
	MsgSelectCustomer = "Please select a customer"
	MsgFutureDate     = "Please select a future date"
	MsgValidDate      = "Please select a valid date"
	MsgInvalidStatus  = "Invalid order status"
	MsgNeedProduct    = "At least one valid product is required"
	MsgZeroTotal      = "Order total must be greater than zero"
)

const dateLayout = "2006-01-02"

type FieldError struct {
	Field   string
	Message string
}

type Result struct {
	IsValid bool
	Errors  []FieldError
}

func (r Result) Messages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// Err is nil for a valid result, otherwise a *ValidationError.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return &ValidationError{Fields: r.Errors}
}

// Validator decides whether a draft may be submitted. The zero value uses
// DefaultPolicy and the wall clock.
type Validator struct {
	Policy Policy
	Now    func() time.Time
}

func NewValidator(p Policy) *Validator {
	return &Validator{Policy: p, Now: time.Now}
}

// Validate runs every rule and reports every failure.
func (v *Validator) Validate(d Draft) Result {
	policy := v.policy()
	var errs []FieldError
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	if !positiveID(d.CustomerID) {
		add(FieldCustomer, MsgSelectCustomer)
	}

	if msg := v.checkDate(d.DateOfEvent, policy); msg != "" {
		add(FieldDate, msg)
	}

	if !d.StatusOrDefault().Valid() {
		add(FieldStatus, MsgInvalidStatus)
	}

	valid := d.ValidItems()
	if len(valid) == 0 {
		add(FieldProducts, MsgNeedProduct)
	} else if !OrderTotal(valid).IsPositive() {
		add(FieldProducts, MsgZeroTotal)
	}

	for i, item := range d.LineItems {
		if policy.MaxQuantity > 0 && item.Quantity > policy.MaxQuantity {
			add(FieldProducts, fmt.Sprintf("Line %d: quantity exceeds maximum limit of %d", i+1, policy.MaxQuantity))
		}
		if policy.MaxUnitPrice.IsPositive() && item.UnitPrice.GreaterThan(policy.MaxUnitPrice) {
			add(FieldProducts, fmt.Sprintf("Line %d: price exceeds maximum limit of %s", i+1, format.Money(policy.MaxUnitPrice)))
		}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func (v *Validator) policy() Policy {
	if v.Policy == (Policy{}) {
		return DefaultPolicy()
	}
	return v.Policy
}

func (v *Validator) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

func (v *Validator) checkDate(raw string, p Policy) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MsgFutureDate
	}

	now := v.now()
	date, err := time.ParseInLocation(dateLayout, raw, now.Location())
	if err != nil {
		return MsgValidDate
	}

	if p.RequireFutureDate {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if date.Before(today) {
			return MsgFutureDate
		}
	}
	return ""
}

func positiveID(raw string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return err == nil && n > 0
}
