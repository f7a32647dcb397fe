package stubapi

type customerRequest struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

type customerResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Number     string `json:"number"`
	OrderCount int    `json:"orderCount"`
}

type productRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
	Type  string  `json:"type"`
}

type productResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
	Type  string  `json:"type"`
}

type orderRequest struct {
	CustomerID  int64              `json:"customerId"`
	DateOfEvent string             `json:"dateOfEvent"`
	Status      string             `json:"status"`
	OrderItems  []orderItemRequest `json:"orderItems"`
	TotalAmount float64            `json:"totalAmount"`
}

type orderItemRequest struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	ItemPrice float64 `json:"itemPrice"`
}

type orderResponse struct {
	ID              int64                  `json:"id"`
	CustomerName    string                 `json:"customerName"`
	CustomerNumber  string                 `json:"customerNumber"`
	Status          string                 `json:"status"`
	Date            string                 `json:"date"`
	Products        []orderProductResponse `json:"products"`
	TotalAmount     float64                `json:"totalAmount"`
	PaidAmount      float64                `json:"paidAmount"`
	RemainingAmount float64                `json:"remainingAmount"`
	PaymentStatus   string                 `json:"paymentStatus"`
}

type orderProductResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// statusRequest accepts both the current and the older field name.
type statusRequest struct {
	Status    string `json:"status"`
	NewStatus string `json:"newStatus"`
}

type transactionResponse struct {
	ID              int64   `json:"id"`
	TransactionID   string  `json:"transactionId"`
	Amount          float64 `json:"amount"`
	CustomerName    string  `json:"customerName"`
	CustomerNumber  string  `json:"customerNumber"`
	TransactionDate string  `json:"transactionDate"`
	Status          string  `json:"status"`
	OrderID         *int64  `json:"orderId,omitempty"`
	RawMessage      string  `json:"rawMessage"`
}

type webhookRequest struct {
	Message string `json:"message"`
}

type receiptResponse struct {
	Status      string              `json:"status"`
	Transaction transactionResponse `json:"transaction"`
	Matched     bool                `json:"matched"`
	OrderID     *int64              `json:"orderId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Errors []string `json:"errors"`
}
