package sms

import (
	"regexp"
	"strings"
	"time"

	"orderdesk/internal/format"

	"github.com/shopspring/decimal"
)

// DateLayout is how transaction timestamps travel on the wire.
const DateLayout = "2006-01-02T15:04:05"

// messageDateLayout reads the "5/3/24" + "2:30 PM" pair of a confirmation.
const messageDateLayout = "2/1/06 3:04 PM"

var (
	confirmationRegex = regexp.MustCompile(
		`([A-Z0-9]+)\s+Confirmed\.\s+Ksh([\d,]+\.?\d*)\s+sent\s+to\s+([A-Z\s]+)\s+(\d+)\s+on\s+(\d{1,2}/\d{1,2}/\d{2})\s+at\s+(\d{1,2}:\d{2}\s+[AP]M)`,
	)
	amountNoiseRegex = regexp.MustCompile(`[^\d.]`)
)

// Message is a parsed payment confirmation.
type Message struct {
	Code   string
	Amount decimal.Decimal
	Name   string
	Number string
	Date   time.Time
	Raw    string
}

// ParseMessage extracts a payment from an M-PESA confirmation such as
//
//	QK12ABC345 Confirmed. Ksh1,500.00 sent to JOHN DOE 0712345678 on 5/3/24 at 2:30 PM
//
// The amount is rounded to cents and the number normalized to +254 form.
// Confirmations dated after now are refused.
func ParseMessage(raw string, now time.Time) (Message, error) {
	if strings.TrimSpace(raw) == "" {
		return Message{}, ErrEmptyMessage
	}

	m := confirmationRegex.FindStringSubmatch(raw)
	if m == nil {
		return Message{}, ErrUnrecognized
	}

	amount, err := decimal.NewFromString(amountNoiseRegex.ReplaceAllString(m[2], ""))
	if err != nil {
		return Message{}, ErrInvalidAmount
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return Message{}, ErrInvalidAmount
	}

	number, err := format.NormalizePhone(m[4])
	if err != nil {
		return Message{}, ErrInvalidNumber
	}

	when, err := time.ParseInLocation(messageDateLayout, m[5]+" "+strings.Join(strings.Fields(m[6]), " "), now.Location())
	if err != nil {
		return Message{}, ErrInvalidDate
	}
	if when.After(now) {
		return Message{}, ErrFutureDate
	}

	return Message{
		Code:   m[1],
		Amount: amount,
		Name:   strings.Join(strings.Fields(m[3]), " "),
		Number: number,
		Date:   when,
		Raw:    raw,
	}, nil
}
