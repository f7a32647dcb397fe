package stubapi

import (
	"orderdesk/internal/pricing"
	"orderdesk/internal/sms"

	"github.com/shopspring/decimal"
)

func (h *Handler) toCustomerResponse(c Customer) customerResponse {
	return customerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Number:     c.Number,
		OrderCount: h.store.OrderCount(c.ID),
	}
}

func (h *Handler) toCustomerResponses(customers []Customer) []customerResponse {
	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, h.toCustomerResponse(c))
	}
	return out
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price.InexactFloat64(),
		Stock: p.Stock,
		Type:  p.Type,
	}
}

func toProductResponses(products []Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func (h *Handler) toOrderResponse(o Order) orderResponse {
	c, _ := h.store.Customer(o.CustomerID)

	products := make([]orderProductResponse, 0, len(o.Items))
	for _, it := range o.Items {
		p, _ := h.store.Product(it.ProductID)
		products = append(products, orderProductResponse{Name: p.Name, Quantity: it.Quantity})
	}

	return orderResponse{
		ID:              o.ID,
		CustomerName:    c.Name,
		CustomerNumber:  c.Number,
		Status:          string(o.Status),
		Date:            o.Date,
		Products:        products,
		TotalAmount:     o.Total.InexactFloat64(),
		PaidAmount:      o.Paid.InexactFloat64(),
		RemainingAmount: pricing.Remaining(o.Total, o.Paid).InexactFloat64(),
		PaymentStatus:   string(pricing.PaymentStatusFor(o.Paid, o.Total)),
	}
}

func (h *Handler) toOrderResponses(orders []Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, h.toOrderResponse(o))
	}
	return out
}

func toNewOrder(req orderRequest) NewOrder {
	items := make([]Item, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		items = append(items, Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     decimal.NewFromFloat(it.ItemPrice),
		})
	}
	return NewOrder{
		CustomerID: req.CustomerID,
		Date:       req.DateOfEvent,
		Status:     req.Status,
		Items:      items,
		Total:      decimal.NewFromFloat(req.TotalAmount),
	}
}

func toTransactionResponse(t Transaction) transactionResponse {
	var orderID *int64
	if t.OrderID != 0 {
		id := t.OrderID
		orderID = &id
	}
	return transactionResponse{
		ID:              t.ID,
		TransactionID:   t.Code,
		Amount:          t.Amount.InexactFloat64(),
		CustomerName:    t.Name,
		CustomerNumber:  t.Number,
		TransactionDate: t.Date.Format(sms.DateLayout),
		Status:          string(t.Status),
		OrderID:         orderID,
		RawMessage:      t.Raw,
	}
}

func toTransactionResponses(txs []Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

func toReceiptResponse(t Transaction) receiptResponse {
	tx := toTransactionResponse(t)
	return receiptResponse{
		Status:      "success",
		Transaction: tx,
		Matched:     t.Status == sms.StatusMatched,
		OrderID:     tx.OrderID,
	}
}
