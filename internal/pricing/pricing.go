package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// LineSubtotal is quantity times price rounded to cents. Quantity below 1
// counts as 1 and a negative price counts as 0.
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	if quantity < 1 {
		quantity = 1
	}
	if unitPrice.IsNegative() {
		unitPrice = decimal.Zero
	}
	return decimal.NewFromInt(int64(quantity)).Mul(unitPrice).Round(2)
}

// OrderTotal sums the rounded subtotals, so rounding happens per line
// before summation.
func OrderTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

// ParseLineItem builds a row from raw form input. Text that does not start
// with a number reads as 0; "12 pcs" reads as 12.
func ParseLineItem(productID, quantityText, priceText string) LineItem {
	return LineItem{
		ProductID: strings.TrimSpace(productID),
		Quantity:  parseQuantity(quantityText),
		UnitPrice: parsePrice(priceText),
	}
}

func parseQuantity(text string) int {
	digits := leadingInt.FindString(strings.TrimSpace(text))
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func parsePrice(text string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero
	}
	return d
}
