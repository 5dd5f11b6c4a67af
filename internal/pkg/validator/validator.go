package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
}

// ParseDate accepts the date shapes found in exported spreadsheets and
// returns the calendar day at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateToDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", s)
}

// TruncateToDay drops the time-of-day, keeping the calendar date as written.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TimeOfDayLayout is the only accepted shape for check-in and check-out values.
const TimeOfDayLayout = "15:04:05"

var timeOfDayRegex = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}$`)

// IsValidTimeOfDay checks a HH:MM:SS wall clock value. Fractional seconds
// are rejected even though time.Parse would accept them.
func IsValidTimeOfDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !timeOfDayRegex.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(TimeOfDayLayout, s)
	return t, err == nil
}
