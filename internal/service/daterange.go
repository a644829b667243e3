package service

import (
	"fmt"
	"strings"
	"time"
)

// DateRange is an inclusive period of payment dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateRange validates the start/end query values. A date-only end is
// widened to cover that whole day.
func ParseDateRange(rawStart, rawEnd string) (DateRange, error) {
	rawStart = strings.TrimSpace(rawStart)
	rawEnd = strings.TrimSpace(rawEnd)
	if rawStart == "" || rawEnd == "" {
		return DateRange{}, fmt.Errorf("%w: both start and end dates are required", ErrInvalidDateRange)
	}

	start, _, err := parseDate(rawStart)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: invalid start date", ErrInvalidDateRange)
	}
	end, endDateOnly, err := parseDate(rawEnd)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: invalid end date", ErrInvalidDateRange)
	}
	if !start.Before(end) {
		return DateRange{}, fmt.Errorf("%w: start date must be before end date", ErrInvalidDateRange)
	}

	if endDateOnly {
		end = end.Add(24*time.Hour - time.Microsecond)
	}
	return DateRange{Start: start, End: end}, nil
}

func parseDate(raw string) (time.Time, bool, error) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), layout == "2006-01-02", nil
		}
	}
	return time.Time{}, false, ErrInvalidDateRange
}
