package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateOnly truncates t to midnight UTC so date comparisons ignore the
// time-of-day component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysPast returns how many whole days today is past the due date.
// Zero or negative means the due date has not passed.
func DaysPast(dueDate, today time.Time) int {
	diff := DateOnly(today).Sub(DateOnly(dueDate))
	return int(diff.Hours() / 24)
}

// SameCalendarMonth reports whether two dates fall in the same calendar
// month of the same year.
func SameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// WithinDays reports whether date falls in [today, today+days] inclusive,
// at date granularity.
func WithinDays(date, today time.Time, days int) bool {
	d := DateOnly(date)
	start := DateOnly(today)
	end := start.AddDate(0, 0, days)
	return !d.Before(start) && !d.After(end)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
