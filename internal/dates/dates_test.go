package dates

import (
	"testing"
	"time"
)

func TestDayBounds(t *testing.T) {
	from, to := DayBounds("2025-03-01")
	if from != "2025-03-01 00:00:00" {
		t.Fatalf("unexpected from literal %q", from)
	}
	if to != "2025-03-01 23:59:59.999" {
		t.Fatalf("unexpected to literal %q", to)
	}
}

// A single-day filter must include a ticket created late that evening and
// exclude one created a second into the next day.
func TestDayBoundsInclusive(t *testing.T) {
	from := NormalizeFrom("2025-03-01")
	to := NormalizeTo("2025-03-01")

	inside := "2025-03-01 23:30:00"
	outside := "2025-03-02 00:00:01"

	if !(inside >= from && inside <= to) {
		t.Fatalf("ticket at %q should fall inside [%q, %q]", inside, from, to)
	}
	if outside <= to {
		t.Fatalf("ticket at %q should fall outside upper bound %q", outside, to)
	}
}

func TestToSQLTimestamp(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "zoned iso", in: "2025-03-01T23:30:00Z", expected: "2025-03-01 23:30:00"},
		{name: "fractional seconds", in: "2025-03-01T23:30:00.123456Z", expected: "2025-03-01 23:30:00.123"},
		{name: "bare date passthrough", in: "2025-03-01", expected: "2025-03-01"},
		{name: "already naive", in: "2025-03-01 10:00:00", expected: "2025-03-01 10:00:00"},
		{name: "empty", in: "", expected: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToSQLTimestamp(tc.in); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestNormalizeBoundsAgree(t *testing.T) {
	// Zoned inputs normalize identically for both bounds.
	in := "2025-03-01T10:00:00Z"
	if NormalizeFrom(in) != NormalizeTo(in) {
		t.Fatal("zoned timestamps must normalize identically on both bounds")
	}
}

func TestAddMonthsClamped(t *testing.T) {
	cases := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "jan 31 plus 3 clamps to apr 30",
			start:    time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
			months:   3,
			expected: time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "no clamp needed",
			start:    time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC),
			months:   3,
			expected: time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "nov 30 across year end",
			start:    time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC),
			months:   3,
			expected: time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "into leap february",
			start:    time.Date(2023, time.November, 30, 0, 0, 0, 0, time.UTC),
			months:   3,
			expected: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AddMonthsClamped(tc.start, tc.months); !got.Equal(tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestQuarterStart(t *testing.T) {
	cases := []struct {
		in       time.Time
		expected time.Time
	}{
		{time.Date(2025, time.May, 15, 13, 45, 0, 0, time.UTC), time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC), time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := QuarterStart(tc.in); !got.Equal(tc.expected) {
			t.Fatalf("QuarterStart(%v): expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}
