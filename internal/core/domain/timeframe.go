package domain

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe is a trailing window applied to billing_date.
type Timeframe string

const (
	TimeframeAll Timeframe = "all"
	Timeframe1M  Timeframe = "1m"
	Timeframe3M  Timeframe = "3m"
	Timeframe6M  Timeframe = "6m"
)

var timeframeMonths = map[Timeframe]int{
	Timeframe1M: 1,
	Timeframe3M: 3,
	Timeframe6M: 6,
}

// ParseTimeframe accepts "", "all", "none", "1m", "3m" and "6m" (case-insensitive).
func ParseTimeframe(raw string) (Timeframe, error) {
	tf := Timeframe(strings.ToLower(strings.TrimSpace(raw)))
	switch tf {
	case "", "none", TimeframeAll:
		return TimeframeAll, nil
	case Timeframe1M, Timeframe3M, Timeframe6M:
		return tf, nil
	}
	return "", fmt.Errorf("unsupported timeframe %q (expected one of all, 1m, 3m, 6m)", raw)
}

// IsValidTimeframe reports whether raw parses as a Timeframe.
func IsValidTimeframe(raw string) bool {
	_, err := ParseTimeframe(raw)
	return err == nil
}

// Months returns the window length, 0 meaning unbounded.
func (t Timeframe) Months() int {
	return timeframeMonths[t]
}

// Since returns the inclusive lower bound for billing_date relative to today.
// The second return value is false when the timeframe is unbounded.
func (t Timeframe) Since(today time.Time) (time.Time, bool) {
	n := t.Months()
	if n == 0 {
		return time.Time{}, false
	}
	return SubtractMonths(StartOfDay(today), n), true
}

// StartOfDay returns the calendar date of t as UTC midnight, the form in which
// billing_date DATE values are scanned from the store.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SubtractMonths moves t back n calendar months, clamping the day to the end of
// the target month (31 March minus one month is 28/29 February, not 3 March).
func SubtractMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, -n, 0)
	lastDay := target.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
