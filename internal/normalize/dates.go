package normalize

import (
	"strings"
	"time"
)

// Common date formats found in raw hospital record files.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

// ParseDate attempts to parse a date string in multiple common formats.
// Returns nil if the input is empty or unparseable; a bad date is a
// per-row condition, never a batch failure.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int64 {
	return int64(b.Sub(a).Hours() / 24)
}
