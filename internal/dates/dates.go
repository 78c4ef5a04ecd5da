// Package dates normalizes the heterogeneous date inputs that arrive on
// query filters into the naive timestamp literals the backend compares
// created_at against. Every query path that filters by creation time goes
// through NormalizeFrom/NormalizeTo so the boundaries stay consistent.
package dates

import (
	"regexp"
	"strings"
	"time"
)

// Maximum length of a naive timestamp literal: "2006-01-02 15:04:05.000".
const maxLiteralLen = 23

// SQLLiteralLayout is the storage engine's naive local literal format.
const SQLLiteralLayout = "2006-01-02 15:04:05.999"

var bareDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsBareDate reports whether s is a plain YYYY-MM-DD calendar date.
func IsBareDate(s string) bool {
	return bareDateRe.MatchString(strings.TrimSpace(s))
}

// DayBounds expands a bare date into full-day inclusive literals.
func DayBounds(d string) (from, to string) {
	day := strings.TrimSpace(d)
	if len(day) > 10 {
		day = day[:10]
	}
	return day + " 00:00:00", day + " 23:59:59.999"
}

// ToSQLTimestamp converts a zoned ISO timestamp into the naive literal
// format: the T separator becomes a space, a trailing Z is dropped and the
// result is truncated to the literal's maximum length.
func ToSQLTimestamp(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	if IsBareDate(s) {
		return s
	}
	s = strings.Replace(s, "T", " ", 1)
	s = strings.TrimSuffix(s, "Z")
	if len(s) > maxLiteralLen {
		s = s[:maxLiteralLen]
	}
	return s
}

// NormalizeFrom turns a filter lower bound into a literal: bare dates
// expand to start of day, zoned timestamps are stripped.
func NormalizeFrom(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	if IsBareDate(s) {
		from, _ := DayBounds(s)
		return from
	}
	return ToSQLTimestamp(s)
}

// NormalizeTo is the upper-bound counterpart: bare dates expand to end of
// day so the filter stays inclusive.
func NormalizeTo(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	if IsBareDate(s) {
		_, to := DayBounds(s)
		return to
	}
	return ToSQLTimestamp(s)
}

// Literal formats a time in the storage literal format.
func Literal(t time.Time) string {
	return t.Format(SQLLiteralLayout)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddMonthsClamped adds calendar months, clamping to the last valid day
// when the target month is shorter: Jan 31 + 3 months is Apr 30, not May 1.
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// QuarterStart returns midnight on the first day of t's calendar quarter.
func QuarterStart(t time.Time) time.Time {
	month := t.Month() - (t.Month()-1)%3
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
