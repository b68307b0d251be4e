package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDaysPast(t *testing.T) {
	due := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		today    time.Time
		expected int
	}{
		{"before due date", due.AddDate(0, 0, -3), -3},
		{"on due date", due, 0},
		{"one day late", due.AddDate(0, 0, 1), 1},
		{"ten days late", due.AddDate(0, 0, 10), 10},
		{"ignores time of day", due.Add(23 * time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysPast(due, tt.today))
		})
	}
}

func TestSameCalendarMonth(t *testing.T) {
	june := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameCalendarMonth(june, june.AddDate(0, 0, 29)))
	assert.False(t, SameCalendarMonth(june, june.AddDate(0, 1, 0)))
	// same month, different year
	assert.False(t, SameCalendarMonth(june, june.AddDate(1, 0, 0)))
}

func TestWithinDays(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, WithinDays(today, today, 7))
	assert.True(t, WithinDays(today.AddDate(0, 0, 7), today, 7))
	assert.False(t, WithinDays(today.AddDate(0, 0, 8), today, 7))
	assert.False(t, WithinDays(today.AddDate(0, 0, -1), today, 7))
}

func TestDecimalFromString(t *testing.T) {
	d, err := DecimalFromString("80.5")
	assert.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromFloat(80.5)))

	_, err = DecimalFromString("not-a-number")
	assert.Error(t, err)
}
