package customer

type Customer struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Number     string `json:"number"`
	OrderCount int    `json:"orderCount"`
}

type NewCustomer struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// SearchQuery targets exactly one backend filter.
type SearchQuery struct {
	Name   string
	Number string
}
