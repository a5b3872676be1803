package recurrence

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrenceFixedIntervals(t *testing.T) {
	anchor := date(2024, time.January, 15)

	got, err := NextOccurrence(anchor, IntervalWeekly)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if !got.Equal(date(2024, time.January, 22)) {
		t.Fatalf("weekly: expected 2024-01-22, got %s", got.Format(time.DateOnly))
	}

	got, err = NextOccurrence(anchor, IntervalBiweekly)
	if err != nil {
		t.Fatalf("biweekly: %v", err)
	}
	if !got.Equal(date(2024, time.January, 29)) {
		t.Fatalf("biweekly: expected 2024-01-29, got %s", got.Format(time.DateOnly))
	}
}

func TestNextOccurrenceMonthlyClampsToEndOfMonth(t *testing.T) {
	cases := []struct {
		anchor   time.Time
		interval Interval
		want     time.Time
	}{
		{date(2024, time.January, 31), IntervalMonthly, date(2024, time.February, 29)},
		{date(2023, time.January, 31), IntervalMonthly, date(2023, time.February, 28)},
		{date(2024, time.March, 31), IntervalMonthly, date(2024, time.April, 30)},
		{date(2024, time.January, 31), IntervalQuarterly, date(2024, time.April, 30)},
		{date(2024, time.November, 30), IntervalQuarterly, date(2025, time.February, 28)},
		{date(2024, time.February, 29), IntervalYearly, date(2025, time.February, 28)},
		{date(2024, time.January, 1), IntervalMonthly, date(2024, time.February, 1)},
		{date(2024, time.February, 1), IntervalMonthly, date(2024, time.March, 1)},
		{date(2024, time.December, 15), IntervalMonthly, date(2025, time.January, 15)},
	}
	for _, tc := range cases {
		got, err := NextOccurrence(tc.anchor, tc.interval)
		if err != nil {
			t.Fatalf("%s + %s: %v", tc.anchor.Format(time.DateOnly), tc.interval, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%s + %s: expected %s, got %s",
				tc.anchor.Format(time.DateOnly), tc.interval,
				tc.want.Format(time.DateOnly), got.Format(time.DateOnly))
		}
	}
}

func TestNextOccurrenceStripsTimeOfDay(t *testing.T) {
	anchor := time.Date(2024, time.June, 10, 23, 45, 12, 0, time.FixedZone("BRT", -3*3600))
	got, err := NextOccurrence(anchor, IntervalWeekly)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if got.Hour() != 0 || got.Location() != time.UTC {
		t.Fatalf("expected UTC midnight, got %s", got)
	}
}

func TestNextOccurrenceInvalidInterval(t *testing.T) {
	_, err := NextOccurrence(date(2024, time.January, 1), Interval("daily"))
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestIntervalValid(t *testing.T) {
	for _, i := range []Interval{IntervalWeekly, IntervalBiweekly, IntervalMonthly, IntervalQuarterly, IntervalYearly} {
		if !i.Valid() {
			t.Fatalf("expected %s to be valid", i)
		}
	}
	if Interval("hourly").Valid() {
		t.Fatal("expected hourly to be invalid")
	}
	if Interval("").Valid() {
		t.Fatal("expected empty interval to be invalid")
	}
}

func TestAnchorDay(t *testing.T) {
	if got := AnchorDay(date(2024, time.January, 31)); got != 31 {
		t.Fatalf("expected 31, got %d", got)
	}
}
