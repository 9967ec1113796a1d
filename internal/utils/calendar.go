package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates (yyyy-mm-dd).
const DateLayout = "2006-01-02"

// MaxScheduleDay is the latest day of month a generated date can land on.
// Every month has a 28th, so no per-month day-count lookup is needed.
const MaxScheduleDay = 28

// DateOf strips the clock component and returns the calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the date n whole months after start. The day is clamped
// to MaxScheduleDay, so a start on the 31st lands on the 28th of every
// resulting month.
func AddMonths(start time.Time, n int) time.Time {
	day := start.Day()
	if day > MaxScheduleDay {
		day = MaxScheduleDay
	}
	// time.Date normalises month overflow into the year; with day <= 28
	// no day overflow can occur.
	return time.Date(start.Year(), start.Month()+time.Month(n), day, 0, 0, 0, 0, time.UTC)
}

// InclusiveMonthSpan counts the calendar months touched by [start, end],
// both ends included. Days are ignored: 2024-01-31..2024-02-01 spans 2 months.
func InclusiveMonthSpan(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
}

// ParseDate converts a yyyy-mm-dd formatted string into a UTC date
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd: %w", err)
	}
	return t, nil
}

// FormatDate renders a date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
