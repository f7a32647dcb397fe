package sms

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"orderdesk/internal/fetch"

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

const txJSON = `{"id":3,"transactionId":"QK1","amount":1500,"customerName":"JOHN DOE","customerNumber":"+254712345678","transactionDate":"2024-03-05T14:30:00","status":"MATCHED","orderId":7}`

func TestRepository_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("All", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Execute", ctx, "smsTransactions", fetch.Get("/api/sms", nil)).Return(data("["+txJSON+"]"), nil)

		rows, err := NewRepository(exec).List(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "QK1", rows[0].TransactionID)
		assert.Equal(t, "1500.00", rows[0].Amount.StringFixed(2))
		require.NotNil(t, rows[0].OrderID)
		assert.Equal(t, int64(7), *rows[0].OrderID)
		exec.AssertExpectations(t)
	})

	t.Run("Unmatched shares the list slot", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Execute", ctx, "smsTransactions", fetch.Get("/api/sms/unmatched", nil)).Return(data("[]"), nil)

		rows, err := NewRepository(exec).Unmatched(ctx)
		require.NoError(t, err)
		assert.Empty(t, rows)
		exec.AssertExpectations(t)
	})

	t.Run("Cancelled", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Execute", ctx, "smsTransactions", mock.Anything).Return(fetch.Outcome{Kind: fetch.KindCancelled}, nil)

		_, err := NewRepository(exec).List(ctx)
		assert.ErrorIs(t, err, fetch.ErrCancelled)
	})
}

func TestRepository_Find(t *testing.T) {
	ctx := context.Background()
	exec := new(MockExecutor)
	exec.On("Execute", ctx, "smsTransaction:3", fetch.Get("/api/sms/3", nil)).Return(data(txJSON), nil)

	tx, err := NewRepository(exec).Find(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, tx.Status)
	exec.AssertExpectations(t)
}

func TestRepository_Record(t *testing.T) {
	ctx := context.Background()
	exec := new(MockExecutor)
	exec.On("Execute", ctx, "recordSms", fetch.Post("/api/sms/webhook", webhookRequest{Message: "msg"})).
		Return(data(`{"status":"success","transaction":`+txJSON+`,"matched":true,"orderId":7}`), nil)

	receipt, err := NewRepository(exec).Record(ctx, "msg")
	require.NoError(t, err)
	assert.True(t, receipt.Matched)
	assert.Equal(t, int64(3), receipt.Transaction.ID)
	exec.AssertExpectations(t)
}

func TestRepository_Match(t *testing.T) {
	ctx := context.Background()
	exec := new(MockExecutor)
	exec.On("Execute", ctx, "matchSms:3", fetch.Put("/api/sms/3/match", url.Values{"orderId": {"7"}}, nil)).
		Return(data(txJSON), nil)

	tx, err := NewRepository(exec).Match(ctx, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), *tx.OrderID)
	exec.AssertExpectations(t)
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("No content", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Execute", ctx, "deleteSms:3", fetch.Delete("/api/sms/3")).
			Return(fetch.Outcome{Kind: fetch.KindOK, Status: http.StatusNoContent}, nil)

		assert.NoError(t, NewRepository(exec).Delete(ctx, 3))
	})

	t.Run("Not found", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Execute", ctx, "deleteSms:3", mock.Anything).
			Return(fetch.Outcome{Kind: fetch.KindFailed}, &fetch.HTTPError{Status: http.StatusNotFound, Message: "Transaction not found with id: 3"})

		err := NewRepository(exec).Delete(ctx, 3)
		assert.ErrorIs(t, err, fetch.ErrNotFound)
		assert.Contains(t, err.Error(), "delete transaction 3")
	})
}
