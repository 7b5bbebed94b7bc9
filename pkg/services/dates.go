package services

import (
	"strings"
	"time"
)

// ISODate is the canonical day-granularity format used for presence and
// suppression keys.
const ISODate = "2006-01-02"

// DayLabelFormat is the human-readable label attached to missing-report
// entries and accepted on ignore entries.
const DayLabelFormat = "Monday, January 2, 2006"

// dateFormats are tried in order by ParseFlexibleDate. The order is part of
// the contract: ISO first, then timestamp forms, then the regional and
// spelled-out forms seen in upstream day labels.
var dateFormats = []string{
	ISODate,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	DayLabelFormat,
	"Monday, Jan 2, 2006",
}

// ParseFlexibleDate parses an upstream free-text date at day granularity.
// Returns ok=false for empty or unparsable input; malformed dates are a
// data-quality condition, never an error.
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOnly(t), true
		}
	}
	return time.Time{}, false
}

// DateOnly truncates a timestamp to midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
