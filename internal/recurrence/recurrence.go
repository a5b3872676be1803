package recurrence

import (
	"errors"
	"strings"
	"time"
)

// Interval represents how often a recurring charge repeats.
type Interval string

const (
	IntervalWeekly    Interval = "weekly"
	IntervalBiweekly  Interval = "biweekly"
	IntervalMonthly   Interval = "monthly"
	IntervalQuarterly Interval = "quarterly"
	IntervalYearly    Interval = "yearly"
)

var ErrInvalidInterval = errors.New("invalid_recurrence_interval")

// ParseInterval normalizes a user-supplied interval string.
func ParseInterval(value string) (Interval, error) {
	interval := Interval(strings.ToLower(strings.TrimSpace(value)))
	if !interval.Valid() {
		return "", ErrInvalidInterval
	}
	return interval, nil
}

// Valid reports whether the interval is a known enum value.
func (i Interval) Valid() bool {
	switch i {
	case IntervalWeekly, IntervalBiweekly, IntervalMonthly, IntervalQuarterly, IntervalYearly:
		return true
	default:
		return false
	}
}

// DateOnly strips the time-of-day component, anchoring the date in UTC.
// All recurrence math operates on these values so local daylight rules
// can never shift a due date across midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextOccurrence computes the due date of the occurrence that follows
// anchor. Month-based intervals preserve the day-of-month; when the
// target month is shorter, the day clamps to the last valid day of that
// month (Jan 31 + 1 month = Feb 29 in a leap year), it never rolls over
// into the following month.
func NextOccurrence(anchor time.Time, interval Interval) (time.Time, error) {
	anchor = DateOnly(anchor)
	switch interval {
	case IntervalWeekly:
		return anchor.AddDate(0, 0, 7), nil
	case IntervalBiweekly:
		return anchor.AddDate(0, 0, 14), nil
	case IntervalMonthly:
		return addMonthsClamped(anchor, 1), nil
	case IntervalQuarterly:
		return addMonthsClamped(anchor, 3), nil
	case IntervalYearly:
		return addMonthsClamped(anchor, 12), nil
	default:
		return time.Time{}, ErrInvalidInterval
	}
}

func addMonthsClamped(d time.Time, months int) time.Time {
	year, month, day := d.Date()
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AnchorDay returns the day-of-month stored alongside a recurrence so
// the UI can show "every 31st" even after clamping.
func AnchorDay(dueDate time.Time) int {
	return DateOnly(dueDate).Day()
}
