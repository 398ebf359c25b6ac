package exercise

import (
	"strings"
	"time"
)

// DateLayout is how dates are rendered in responses, e.g. "Mon Jan 01 2024".
const DateLayout = "Mon Jan 02 2006"

var inputLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	DateLayout,
}

// ParseDay parses a calendar date and returns midnight UTC of that day.
// The time-of-day and zone of timestamp inputs are dropped; the day is the
// one written in the input. Years before 1 AD are rejected, as is a
// DateLayout input whose weekday does not match its date.
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// time.Parse checks the weekday name but not that it fits the date
		if layout == DateLayout && !strings.EqualFold(t.Format("Mon"), s[:3]) {
			return time.Time{}, false
		}
		if t.Year() < 1 {
			return time.Time{}, false
		}
		return Day(t), true
	}
	return time.Time{}, false
}

// Day truncates t to midnight UTC of its calendar day in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a stored day with DateLayout.
func FormatDate(t time.Time) string {
	return Day(t.UTC()).Format(DateLayout)
}
