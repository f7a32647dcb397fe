package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"orderdesk/internal/format"
	"orderdesk/internal/pricing"
)

var tableHeaders = []string{"ID", "CUSTOMER", "PHONE", "DATE", "STATUS", "PRODUCTS", "TOTAL", "PAID", "BALANCE", "PAYMENT"}

// toCreateRequest turns a validated draft into the wire body. Only valid
// line items are sent and the total is recomputed from them. Unit prices go
// out as entered so the server arrives at the same total.
func toCreateRequest(d pricing.Draft) (createRequest, error) {
	customerID, err := strconv.ParseInt(strings.TrimSpace(d.CustomerID), 10, 64)
	if err != nil {
		return createRequest{}, fmt.Errorf("%w: %q", ErrInvalidCustomer, d.CustomerID)
	}

	valid := d.ValidItems()
	items := make([]itemRequest, 0, len(valid))
	for _, item := range valid {
		productID, err := strconv.ParseInt(item.ProductID, 10, 64)
		if err != nil {
			return createRequest{}, fmt.Errorf("%w: %q", ErrInvalidProduct, item.ProductID)
		}
		items = append(items, itemRequest{
			ProductID: productID,
			Quantity:  item.Quantity,
			ItemPrice: item.UnitPrice.InexactFloat64(),
		})
	}

	total := pricing.OrderTotal(valid).InexactFloat64()
	return createRequest{
		CustomerID:      customerID,
		DateOfEvent:     strings.TrimSpace(d.DateOfEvent),
		Status:          d.StatusOrDefault(),
		OrderItems:      items,
		TotalAmount:     total,
		PaidAmount:      0,
		RemainingAmount: total,
	}, nil
}

func toTableRow(o Order) []string {
	return []string{
		strconv.FormatInt(o.ID, 10),
		format.Or(o.CustomerName, "-"),
		format.Or(format.DisplayPhone(o.CustomerNumber), "-"),
		format.Or(o.Date, "-"),
		o.Status.Label(),
		format.Or(productNames(o.Products), "-"),
		format.Money(o.TotalAmount),
		format.Money(o.PaidAmount),
		format.Money(o.Balance()),
		string(o.Payment()),
	}
}

func productNames(products []Product) string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		if p.Quantity > 1 {
			names = append(names, fmt.Sprintf("%s x%d", p.Name, p.Quantity))
			continue
		}
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

// toSearchQuery treats a YYYY-MM-DD term as a date and anything else as a
// customer name.
func toSearchQuery(term string) SearchQuery {
	if isDate(term) {
		return SearchQuery{Date: term}
	}
	return SearchQuery{CustomerName: term}
}

func isDate(term string) bool {
	_, err := time.Parse("2006-01-02", term)
	return err == nil
}
