package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is the display prefix for every amount shown to the user.
const Currency = "KES"

var printer = message.NewPrinter(language.English)

// Money renders an amount for display only, e.g. "KES 1,234.50".
// The result must never be parsed back for arithmetic.
func Money(amount decimal.Decimal) string {
	f := amount.Round(2).InexactFloat64()
	return Currency + " " + printer.Sprint(number.Decimal(f, number.Scale(2)))
}
