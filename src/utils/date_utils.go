package utils

import (
	"fmt"
	"strings"
	"time"
)

// Marketplace exports are not consistent about date formats; the Amazon
// date-range report uses "2006/1/2 15:04:05" style timestamps while Selmon
// exports use ISO dates.
var dateLayouts = []string{
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006.1.2",
}

// ParseFlexibleDate parses a date cell against the known marketplace layouts.
func ParseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// DayKey formats a time as the day-level key used by the daily buckets,
// without zero padding ("2024/5/1").
func DayKey(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

// MonthKey formats a time as the period-index month key ("2024-05").
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// DayOfMonthRange returns the inclusive day-of-month bounds for a sub-period
// selector. The selector "all" (or anything unrecognized) spans the whole
// month.
func DayOfMonthRange(subPeriod string) (int, int) {
	switch subPeriod {
	case "early":
		return 1, 10
	case "middle":
		return 11, 20
	case "late":
		return 21, 31
	default:
		return 1, 31
	}
}
