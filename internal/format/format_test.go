package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		expected string
	}{
		{"zero", decimal.Zero, "KES 0.00"},
		{"whole", decimal.NewFromInt(100), "KES 100.00"},
		{"grouping", decimal.RequireFromString("1234.5"), "KES 1,234.50"},
		{"rounds", decimal.RequireFromString("19.999"), "KES 20.00"},
		{"million", decimal.NewFromInt(1_000_000), "KES 1,000,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Money(tt.amount))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		expectErr bool
	}{
		{"international", "+254 712 345 678", "+254712345678", false},
		{"without plus", "254712345678", "+254712345678", false},
		{"local", "0712345678", "+254712345678", false},
		{"doubled code", "254254712345678", "+254712345678", false},
		{"dashes", "+254-712-345-678", "+254712345678", false},
		{"too short", "+254 712 345", "", true},
		{"wrong country", "+255712345678", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidNumber)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDisplayPhone(t *testing.T) {
	assert.Equal(t, "+254 712 345 678", DisplayPhone("+254712345678"))
	assert.Equal(t, "+254 712 345 678", DisplayPhone("254712345678"))
	assert.Equal(t, "0712", DisplayPhone("0712"))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("0712"))
	assert.True(t, IsNumeric("+254 712"))
	assert.False(t, IsNumeric("Ann"))
	assert.False(t, IsNumeric("07a"))
	assert.False(t, IsNumeric(" "))
}

func TestCell(t *testing.T) {
	t.Run("strips control characters", func(t *testing.T) {
		assert.Equal(t, "Jane Doe", Cell("Jane\x00 Doe"))
		assert.Equal(t, "ab", Cell("a\x07b"))
	})

	t.Run("folds whitespace runs", func(t *testing.T) {
		assert.Equal(t, "line one line two", Cell("line one\n\tline two"))
	})

	t.Run("truncates", func(t *testing.T) {
		assert.Equal(t, "abcd…", CellWidth("abcdefgh", 5))
		assert.Equal(t, "abc", CellWidth("abc", 5))
	})

	t.Run("or", func(t *testing.T) {
		assert.Equal(t, "-", Or("  ", "-"))
		assert.Equal(t, "x", Or("x", "-"))
	})
}
