package types

import (
	"strings"
	"time"
)

// DateLayout is the zero-padded ISO calendar date used for every stored date.
const DateLayout = "2006-01-02"

// MonthLayout is the YYYY-MM prefix of DateLayout.
const MonthLayout = "2006-01"

// Clock returns the current time. Reducers take a Clock so "today" is testable.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// Today formats the clock's current date.
func (c Clock) Today() string {
	if c == nil {
		return time.Now().Format(DateLayout)
	}
	return c().Format(DateLayout)
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// ParseDate parses a YYYY-MM-DD date in UTC. Surrounding whitespace and a
// trailing time component ("2024-05-01T00:00:00Z") are tolerated.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) && s[len(DateLayout)] == 'T' {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate returns s in canonical YYYY-MM-DD form when it parses, and
// the trimmed input otherwise. Malformed dates are kept, not dropped.
func NormalizeDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return FormatDate(t)
	}
	return strings.TrimSpace(s)
}
