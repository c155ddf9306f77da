// Package dateutils parses the date and date-time tokens found in statements.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layouts seen in the supported statements.
const (
	DateLayoutISO          = "2006-01-02"
	DateLayoutRussian      = "02.01.2006"
	DateLayoutRussianShort = "02.01.06"
	DateLayoutSlash        = "02/01/2006"
	DateTimeLayoutRussian  = "02.01.2006 15:04"
	DateTimeLayoutSeconds  = "02.01.2006 15:04:05"
	DateTimeLayoutISO      = "2006-01-02 15:04:05"
	DateTimeLayoutISOT     = "2006-01-02T15:04:05"
)

// CommonFormats is tried in order by ParseDate.
var CommonFormats = []string{
	DateTimeLayoutSeconds,
	DateTimeLayoutRussian,
	DateLayoutRussian,
	DateTimeLayoutISO,
	DateTimeLayoutISOT,
	DateLayoutISO,
	DateLayoutSlash,
	DateLayoutRussianShort,
}

var spacesRe = regexp.MustCompile(`\s+`)

// ParseDate parses any of CommonFormats and returns the calendar date at
// midnight UTC. The time component, if present, is dropped.
func ParseDate(dateStr string) (time.Time, error) {
	t, _, err := ParseDateWithLayout(dateStr)
	return t, err
}

// ParseDateWithLayout is ParseDate that also reports which layout matched.
func ParseDateWithLayout(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}
	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return TruncateToDate(t), layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// TruncateToDate drops the clock part and normalizes to UTC.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ToISODate formats a date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims and collapses whitespace, including NBSP.
func CleanDateString(dateStr string) string {
	dateStr = strings.ReplaceAll(dateStr, "\u00a0", " ")
	return spacesRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
