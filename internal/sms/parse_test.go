package sms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestParseMessage(t *testing.T) {
	t.Run("Full confirmation", func(t *testing.T) {
		raw := "QK12ABC345 Confirmed. Ksh1,500.005 sent to JOHN  DOE 0712345678 on 5/3/24 at 2:30 PM. New M-PESA balance is Ksh3,000.00."

		msg, err := ParseMessage(raw, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "QK12ABC345", msg.Code)
		assert.Equal(t, "1500.01", msg.Amount.StringFixed(2))
		assert.Equal(t, "JOHN DOE", msg.Name)
		assert.Equal(t, "+254712345678", msg.Number)
		assert.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), msg.Date)
		assert.Equal(t, raw, msg.Raw)
	})

	t.Run("Morning time and two digit day", func(t *testing.T) {
		msg, err := ParseMessage("AB1 Confirmed. Ksh20 sent to JANE 254712345678 on 15/11/23 at 9:05 AM", fixedNow)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, 11, 15, 9, 5, 0, 0, time.UTC), msg.Date)
		assert.Equal(t, "20.00", msg.Amount.StringFixed(2))
	})

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"Empty", "   ", ErrEmptyMessage},
		{"Not a confirmation", "Your airtime balance is Ksh10", ErrUnrecognized},
		{"Lowercase name", "AB1 Confirmed. Ksh20 sent to jane 0712345678 on 5/3/24 at 2:30 PM", ErrUnrecognized},
		{"Zero amount", "AB1 Confirmed. Ksh0.00 sent to JANE 0712345678 on 5/3/24 at 2:30 PM", ErrInvalidAmount},
		{"Bad number", "AB1 Confirmed. Ksh20 sent to JANE 12345 on 5/3/24 at 2:30 PM", ErrInvalidNumber},
		{"Impossible date", "AB1 Confirmed. Ksh20 sent to JANE 0712345678 on 31/2/24 at 2:30 PM", ErrInvalidDate},
		{"Future date", "AB1 Confirmed. Ksh20 sent to JANE 0712345678 on 5/3/25 at 2:30 PM", ErrFutureDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage(tt.raw, fixedNow)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Partially matched", StatusPartial.Label())
	assert.Equal(t, "WEIRD", Status("WEIRD").Label())

	assert.True(t, StatusMatched.Applied())
	assert.True(t, StatusPartial.Applied())
	assert.False(t, StatusUnmatched.Applied())
	assert.False(t, StatusPending.Applied())
}
