package reconcile

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing textual dates from imports.
// ISO first, then the day-first form used by the exported CSVs, then the
// looser layouts seen in hand-edited files.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2/1/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-01-2006",
}

// ParseFlexibleDate parses a textual date, tolerating the formats that
// imported and synced records arrive in. An unparseable value yields the
// fallback (normally "today") so a bad date degrades to "due now" instead of
// failing; the second return value reports whether parsing succeeded so the
// caller can log the fallback.
func ParseFlexibleDate(s string, fallback time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateOnly(fallback), false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOnly(t), true
		}
	}
	return DateOnly(fallback), false
}

// DateOnly zeroes the time-of-day component. All core comparisons use
// calendar-day granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b (negative when b
// precedes a).
func daysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// sameMonth reports whether two dates fall in the same calendar month.
func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
