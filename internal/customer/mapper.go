package customer

import (
	"strconv"
	"strings"

	"orderdesk/internal/format"
)

var tableHeaders = []string{"ID", "NAME", "PHONE", "ORDERS"}

func toTableRow(c Customer) []string {
	return []string{
		strconv.FormatInt(c.ID, 10),
		format.Or(c.Name, "-"),
		format.Or(format.DisplayPhone(c.Number), "-"),
		strconv.Itoa(c.OrderCount),
	}
}

// toSearchQuery sends numeric terms to the number filter and everything
// else to the name filter.
func toSearchQuery(term string) SearchQuery {
	if format.IsNumeric(term) {
		return SearchQuery{Number: strings.ReplaceAll(term, " ", "")}
	}
	return SearchQuery{Name: term}
}
