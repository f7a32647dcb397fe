package product

import (
	"strconv"

	"orderdesk/internal/format"
)

var tableHeaders = []string{"ID", "NAME", "TYPE", "PRICE", "STOCK"}

func toCreateRequest(p NewProduct) createRequest {
	return createRequest{
		Name:  p.Name,
		Price: p.Price.Round(2).InexactFloat64(),
		Stock: p.Stock,
		Type:  p.Type,
	}
}

func toTableRow(p Product) []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		format.Or(p.Name, "-"),
		format.Or(string(p.Type), "-"),
		format.Money(p.Price),
		strconv.Itoa(p.Stock),
	}
}
