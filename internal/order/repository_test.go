package order

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"orderdesk/internal/fetch"
	"orderdesk/internal/pricing"
	"orderdesk/internal/status"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, key string, target fetch.Target, opts ...fetch.Option) (fetch.Outcome, error) {
	args := m.Called(ctx, key, target)
	return args.Get(0).(fetch.Outcome), args.Error(1)
}

func data(body string) fetch.Outcome {
	return fetch.Outcome{Kind: fetch.KindData, Status: http.StatusOK, Body: []byte(body)}
}

const orderJSON = `{
	"id": 4,
	"customerName": "Jane Doe",
	"customerNumber": "+254712345678",
	"status": "PENDING",
	"date": "2026-03-20",
	"products": [{"name": "Sofa"}],
	"totalAmount": 150.5,
	"paidAmount": 50,
	"remainingAmount": 100.5,
	"paymentStatus": "Partial payment received"
}`

func TestRepository_List(t *testing.T) {
	ctx := context.Background()
	exec := new(MockExecutor)
	exec.On("Execute", ctx, "orders", fetch.Get("/api/orders", nil)).Return(data("["+orderJSON+"]"), nil)

	rows, err := NewRepository(exec).List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	o := rows[0]
	assert.Equal(t, int64(4), o.ID)
	assert.Equal(t, status.Pending, o.Status)
	assert.Equal(t, []Product{{Name: "Sofa"}}, o.Products)
	assert.Equal(t, "100.5", o.Balance().String())
	assert.Equal(t, status.Partial, o.Payment())
}

func TestRepository_Search(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		query SearchQuery
		want  url.Values
	}{
		{"By customer", SearchQuery{CustomerName: "jane"}, url.Values{"customerName": {"jane"}}},
		{"By date", SearchQuery{Date: "2026-03-20"}, url.Values{"date": {"2026-03-20"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := new(MockExecutor)
			exec.On("Execute", ctx, "orderSearch", fetch.Get("/api/orders/search", tt.want)).Return(data(`[]`), nil)

			_, err := NewRepository(exec).Search(ctx, tt.query)
			require.NoError(t, err)
			exec.AssertExpectations(t)
		})
	}
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	draft := pricing.Draft{
		CustomerID:  "7",
		DateOfEvent: "2026-03-20",
		LineItems: []pricing.LineItem{
			{ProductID: "1", Quantity: 2, UnitPrice: decimal.RequireFromString("50")},
			{ProductID: "", Quantity: 1, UnitPrice: decimal.RequireFromString("999")},
		},
	}
	want := createRequest{
		CustomerID:      7,
		DateOfEvent:     "2026-03-20",
		Status:          status.Pending,
		OrderItems:      []itemRequest{{ProductID: 1, Quantity: 2, ItemPrice: 50}},
		TotalAmount:     100,
		RemainingAmount: 100,
	}

	t.Run("Sends only valid items", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Execute", ctx, "createOrder", fetch.Post("/api/orders/new", want)).
			Return(data(orderJSON), nil)

		created, err := NewRepository(exec).Create(ctx, draft)
		require.NoError(t, err)
		assert.Equal(t, int64(4), created.ID)
		exec.AssertExpectations(t)
	})

	t.Run("Non numeric product id", func(t *testing.T) {
		exec := new(MockExecutor)
		bad := draft
		bad.LineItems = []pricing.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}}

		_, err := NewRepository(exec).Create(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidProduct)
		exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Sub cent price sent as entered", func(t *testing.T) {
		exec := new(MockExecutor)
		fine := draft
		fine.LineItems = []pricing.LineItem{{ProductID: "1", Quantity: 3, UnitPrice: decimal.RequireFromString("0.335")}}
		body := createRequest{
			CustomerID:      7,
			DateOfEvent:     "2026-03-20",
			Status:          status.Pending,
			OrderItems:      []itemRequest{{ProductID: 1, Quantity: 3, ItemPrice: 0.335}},
			TotalAmount:     1.01,
			RemainingAmount: 1.01,
		}
		exec.On("Execute", ctx, "createOrder", fetch.Post("/api/orders/new", body)).
			Return(data(orderJSON), nil)

		_, err := NewRepository(exec).Create(ctx, fine)
		require.NoError(t, err)
		exec.AssertExpectations(t)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	exec := new(MockExecutor)
	exec.On("Execute", ctx, "orderStatus:4",
		fetch.Put("/api/orders/4/status", nil, statusRequest{Status: status.InProgress})).
		Return(data(orderJSON), nil)

	o, err := NewRepository(exec).UpdateStatus(ctx, 4, status.InProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(4), o.ID)
}

func TestRepository_RecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Execute", ctx, "orderPayment:4",
			fetch.Put("/api/orders/4/paid", url.Values{"paidAmount": {"20.50"}}, nil)).
			Return(data(orderJSON), nil)

		_, err := NewRepository(exec).RecordPayment(ctx, 4, decimal.RequireFromString("20.5"))
		require.NoError(t, err)
	})

	t.Run("Server rejects", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Execute", ctx, "orderPayment:4", mock.Anything).
			Return(fetch.Outcome{Kind: fetch.KindFailed}, &fetch.HTTPError{Status: 400, Message: "Payment amount must be greater than zero"})

		_, err := NewRepository(exec).RecordPayment(ctx, 4, decimal.Zero)
		assert.EqualError(t, err, "record payment on order 4: Payment amount must be greater than zero")
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	exec := new(MockExecutor)
	exec.On("Execute", ctx, "deleteOrder:4", fetch.Delete("/api/orders/4")).
		Return(fetch.Outcome{Kind: fetch.KindFailed}, &fetch.HTTPError{Status: 404, Message: "Order not found"})

	err := NewRepository(exec).Delete(ctx, 4)
	assert.ErrorIs(t, err, fetch.ErrNotFound)
}
