package utils

import "time"

// DateOf returns the calendar date of t as midnight UTC, the form in which
// dates are stored and compared.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayBounds returns the start of t's local calendar day and the start of the
// next one.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// BeforeDay reports whether stored lies on an earlier calendar day than today.
// Both values are compared by their own year/month/day.
func BeforeDay(stored, today time.Time) bool {
	return DateOf(stored).Before(DateOf(today))
}
