package sms

import (
	"strconv"
	"strings"

	"orderdesk/internal/format"
)

var tableHeaders = []string{"ID", "CODE", "AMOUNT", "FROM", "PHONE", "DATE", "STATUS", "ORDER"}

func toTableRow(t Transaction) []string {
	order := "-"
	if t.OrderID != nil {
		order = "#" + strconv.FormatInt(*t.OrderID, 10)
	}
	return []string{
		strconv.FormatInt(t.ID, 10),
		format.Or(t.TransactionID, "-"),
		format.Money(t.Amount),
		format.Or(t.CustomerName, "-"),
		format.Or(format.DisplayPhone(t.CustomerNumber), "-"),
		format.Or(displayDate(t.TransactionDate), "-"),
		t.Status.Label(),
		order,
	}
}

// displayDate drops the seconds and the "T" of a wire timestamp.
func displayDate(ts string) string {
	ts = strings.Replace(ts, "T", " ", 1)
	if len(ts) > len("2006-01-02 15:04") {
		ts = ts[:len("2006-01-02 15:04")]
	}
	return ts
}
