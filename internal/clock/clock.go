package clock

import "time"

// Clock provides the reference time for overdue and reminder math. The
// sweep and the lifecycle engine take "today" from here instead of
// reading the wall clock inline, so tests can pin the date.
type Clock interface {
	Now() time.Time
	// Today returns the current calendar date as UTC midnight.
	Today() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

func (SystemClock) Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	Time time.Time
}

func (f Fixed) Now() time.Time { return f.Time.UTC() }

func (f Fixed) Today() time.Time {
	t := f.Time.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
