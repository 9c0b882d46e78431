package attendance

import (
	"strings"
	"time"

	"attendance.service/internal/core/model"
)

var absentSentinels = map[string]struct{}{
	"":     {},
	"-":    {},
	"--":   {},
	"none": {},
	"null": {},
	"nil":  {},
	"n/a":  {},
}

// Bare time-of-day layouts.
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04PM",
}

// Timestamp layouts with an explicit offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
}

// Timestamp layouts without an offset, read in the organization location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// IsAbsentTime reports whether a check-in/out value means "none".
func IsAbsentTime(s string) bool {
	_, ok := absentSentinels[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ParseClock returns the time of day of s as an offset from midnight. It
// accepts bare HH:MM[:SS] values and full timestamps; timestamps are
// converted to loc first.
func ParseClock(s string, loc *time.Location) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if IsAbsentTime(s) {
		return 0, false
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return sinceMidnight(t), true
		}
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return sinceMidnight(t.In(loc)), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return sinceMidnight(t), true
		}
	}
	return 0, false
}

// FormatClock renders a time-of-day offset as HH:MM:SS.
func FormatClock(d time.Duration) string {
	t := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d)
	return t.Format("15:04:05")
}

// NormalizeDate extracts the calendar date of an upstream date field. The
// leading YYYY-MM-DD is taken literally so date-only values serialized as
// midnight UTC do not shift across zones.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(model.DateLayout) {
		return "", false
	}
	head := s[:len(model.DateLayout)]
	if _, err := time.Parse(model.DateLayout, head); err != nil {
		return "", false
	}
	if len(s) > len(model.DateLayout) {
		sep := s[len(model.DateLayout)]
		if sep != 'T' && sep != ' ' {
			return "", false
		}
	}
	return head, true
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
