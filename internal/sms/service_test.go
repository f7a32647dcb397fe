package sms

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"orderdesk/internal/fetch"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context) ([]Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockRepository) Unmatched(ctx context.Context) ([]Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockRepository) Find(ctx context.Context, id int64) (Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Transaction), args.Error(1)
}

func (m *MockRepository) Record(ctx context.Context, message string) (Receipt, error) {
	args := m.Called(ctx, message)
	return args.Get(0).(Receipt), args.Error(1)
}

func (m *MockRepository) Match(ctx context.Context, id, orderID int64) (Transaction, error) {
	args := m.Called(ctx, id, orderID)
	return args.Get(0).(Transaction), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// --- Helpers ---

const validMessage = "QK1 Confirmed. Ksh20.00 sent to JANE DOE 0712345678 on 5/3/24 at 2:30 PM"

func orderRef(id int64) *int64 {
	return &id
}

var (
	matched = Transaction{
		ID: 1, TransactionID: "QK0", Amount: decimal.NewFromInt(50), CustomerName: "JANE DOE",
		CustomerNumber: "+254712345678", TransactionDate: "2024-03-01T09:00:00", Status: StatusMatched, OrderID: orderRef(4),
	}
	stray = Transaction{
		ID: 2, TransactionID: "QK9", Amount: decimal.NewFromInt(15), CustomerName: "JOHN ROE",
		CustomerNumber: "+254799000111", TransactionDate: "2024-03-02T10:15:00", Status: StatusUnmatched,
	}
)

func newService(repo Repository) *service {
	s := NewService(repo).(*service)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) }
	return s
}

func loadedAll(t *testing.T, repo *MockRepository, rows ...Transaction) *service {
	t.Helper()
	ctx := context.Background()
	repo.On("List", ctx).Return(rows, nil).Once()
	s := newService(repo)
	_, err := s.List(ctx)
	require.NoError(t, err)
	return s
}

// --- Tests ---

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure keeps the previous rows", func(t *testing.T) {
		repo := new(MockRepository)
		s := loadedAll(t, repo, matched)
		repo.On("List", ctx).Return(nil, &fetch.HTTPError{Status: 500, Message: "boom"}).Once()

		rows, err := s.List(ctx)
		assert.Error(t, err)
		assert.Equal(t, []Transaction{matched}, rows)
	})

	t.Run("Cancelled is silent", func(t *testing.T) {
		repo := new(MockRepository)
		s := loadedAll(t, repo, matched)
		repo.On("Unmatched", ctx).Return(nil, fetch.ErrCancelled).Once()

		rows, err := s.Unmatched(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []Transaction{matched}, rows)
	})
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("Unparseable message never reaches the server", func(t *testing.T) {
		repo := new(MockRepository)
		s := newService(repo)

		_, err := s.Record(ctx, "Your airtime balance is Ksh10")
		assert.ErrorIs(t, err, ErrUnrecognized)
		_, err = s.Record(ctx, "QK1 Confirmed. Ksh20.00 sent to JANE DOE 0712345678 on 5/3/25 at 2:30 PM")
		assert.ErrorIs(t, err, ErrFutureDate)
		repo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("Recorded row joins the full list", func(t *testing.T) {
		repo := new(MockRepository)
		s := loadedAll(t, repo, matched)
		repo.On("Record", ctx, validMessage).Return(Receipt{Status: "success", Transaction: stray}, nil)

		receipt, err := s.Record(ctx, validMessage)
		require.NoError(t, err)
		assert.False(t, receipt.Matched)
		assert.Equal(t, []Transaction{matched, stray}, s.Rows())
	})

	t.Run("Matched row stays out of the unmatched list", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Unmatched", ctx).Return([]Transaction{stray}, nil)
		repo.On("Record", ctx, validMessage).Return(Receipt{Transaction: matched, Matched: true, OrderID: orderRef(4)}, nil)
		s := newService(repo)
		_, err := s.Unmatched(ctx)
		require.NoError(t, err)

		_, err = s.Record(ctx, validMessage)
		require.NoError(t, err)
		assert.Equal(t, []Transaction{stray}, s.Rows())
	})

	t.Run("Duplicate code", func(t *testing.T) {
		repo := new(MockRepository)
		s := newService(repo)
		repo.On("Record", ctx, validMessage).
			Return(Receipt{}, &fetch.HTTPError{Status: http.StatusConflict, Message: "Transaction already processed: QK1"})

		_, err := s.Record(ctx, validMessage)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.Contains(t, err.Error(), "QK1")
	})
}

func TestService_Match(t *testing.T) {
	ctx := context.Background()

	t.Run("Applied transaction refused locally", func(t *testing.T) {
		repo := new(MockRepository)
		s := loadedAll(t, repo, matched)

		_, err := s.Match(ctx, matched.ID, 9)
		assert.ErrorIs(t, err, ErrAlreadyMatched)
		repo.AssertNotCalled(t, "Match", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Row replaced in the full list", func(t *testing.T) {
		repo := new(MockRepository)
		s := loadedAll(t, repo, stray)
		done := stray
		done.Status = StatusMatched
		done.OrderID = orderRef(9)
		repo.On("Match", ctx, stray.ID, int64(9)).Return(done, nil)

		got, err := s.Match(ctx, stray.ID, 9)
		require.NoError(t, err)
		assert.Equal(t, done, got)
		assert.Equal(t, []Transaction{done}, s.Rows())
	})

	t.Run("Row leaves the unmatched list", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Unmatched", ctx).Return([]Transaction{stray}, nil)
		repo.On("Match", ctx, stray.ID, int64(9)).Return(matched, nil)
		s := newService(repo)
		_, err := s.Unmatched(ctx)
		require.NoError(t, err)

		_, err = s.Match(ctx, stray.ID, 9)
		require.NoError(t, err)
		assert.Empty(t, s.Rows())
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		s := loadedAll(t, repo, matched, stray)
		repo.On("Delete", ctx, stray.ID).Return(nil)

		require.NoError(t, s.Delete(ctx, stray.ID))
		assert.Equal(t, []Transaction{matched}, s.Rows())
	})

	t.Run("Not found refreshes the table", func(t *testing.T) {
		repo := new(MockRepository)
		s := loadedAll(t, repo, matched, stray)
		repo.On("Delete", ctx, stray.ID).
			Return(&fetch.HTTPError{Status: http.StatusNotFound, Message: "Transaction not found with id: 2"})
		repo.On("List", ctx).Return([]Transaction{matched}, nil).Once()

		err := s.Delete(ctx, stray.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, fetch.ErrNotFound)
		assert.Equal(t, []Transaction{matched}, s.Rows())
		repo.AssertExpectations(t)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	s := newService(repo)
	repo.On("Find", ctx, int64(5)).Return(Transaction{}, &fetch.HTTPError{Status: http.StatusNotFound})

	_, err := s.Get(ctx, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Render(t *testing.T) {
	repo := new(MockRepository)
	s := loadedAll(t, repo, matched, stray)

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "KES 50.00")
	assert.Contains(t, out, "+254 712 345 678")
	assert.Contains(t, out, "2024-03-01 09:00")
	assert.Contains(t, out, "#4")
	assert.Contains(t, out, "Unmatched")

	empty := newService(new(MockRepository))
	empty.unmatchedOnly.Store(true)
	buf.Reset()
	require.NoError(t, empty.Render(&buf))
	assert.Equal(t, "No unmatched transactions\n", buf.String())
}
