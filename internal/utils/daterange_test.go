package utils

import (
	"errors"
	"testing"
	"time"

	"hotelcore/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateRange(t *testing.T) {
	t.Run("Valid range", func(t *testing.T) {
		dr, err := NewDateRange(date("2025-03-10"), date("2025-03-15"))
		require.NoError(t, err)
		assert.Equal(t, 5, dr.Nights())
		assert.Len(t, dr.Dates(), 5)
		assert.Equal(t, "[2025-03-10, 2025-03-15)", dr.String())
	})

	t.Run("Clock part is dropped", func(t *testing.T) {
		in := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
		out := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)
		dr, err := NewDateRange(in, out)
		require.NoError(t, err)
		assert.Equal(t, 1, dr.Nights())
	})

	t.Run("Equal dates", func(t *testing.T) {
		_, err := NewDateRange(date("2025-03-10"), date("2025-03-10"))
		assert.True(t, errors.Is(err, domain.ErrInvalidDateRange))
	})

	t.Run("Missing date", func(t *testing.T) {
		_, err := NewDateRange(time.Time{}, date("2025-03-10"))
		assert.True(t, errors.Is(err, domain.ErrInvalidDateRange))
	})

	t.Run("Month boundary", func(t *testing.T) {
		dr, err := NewDateRange(date("2025-03-28"), date("2025-04-02"))
		require.NoError(t, err)
		assert.Equal(t, 5, dr.Nights())
	})
}

func TestOverlaps(t *testing.T) {
	a, _ := NewDateRange(date("2025-03-10"), date("2025-03-15"))

	tests := []struct {
		name     string
		from, to string
		expected bool
	}{
		{"Same-day turnover after", "2025-03-15", "2025-03-18", false},
		{"Same-day turnover before", "2025-03-05", "2025-03-10", false},
		{"Inside", "2025-03-11", "2025-03-12", true},
		{"Covering", "2025-03-01", "2025-03-31", true},
		{"Tail overlap", "2025-03-14", "2025-03-16", true},
		{"Disjoint", "2025-04-01", "2025-04-03", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewDateRange(date(tt.from), date(tt.to))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, a.Overlaps(b))
			assert.Equal(t, tt.expected, b.Overlaps(a))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", FormatDate(d))

	_, err = ParseDate("10/03/2025")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestApplyDiscountPercent(t *testing.T) {
	tests := []struct {
		base     int64
		percent  string
		expected int64
	}{
		{100000, "10", 90000},
		{100000, "0", 100000},
		{100000, "100", 0},
		{100000, "150", 0},
		{100000, "-5", 100000},
		{15, "50", 8},   // 7.5 rounds up
		{25, "10", 23},  // 22.5 rounds up
		{33, "33.3", 22}, // 22.011
	}
	for _, tt := range tests {
		t.Run(tt.percent, func(t *testing.T) {
			assert.Equal(t, tt.expected, ApplyDiscountPercent(tt.base, decimal.RequireFromString(tt.percent)))
		})
	}
}
