package models

import (
	"fmt"
	"time"
)

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

// ValidateRange checks both bounds parse and that start is not after end.
// Callers must run it before querying a range.
func ValidateRange(start, end string) error {
	s, err := ParseDate(start)
	if err != nil {
		return err
	}
	e, err := ParseDate(end)
	if err != nil {
		return err
	}
	if s.After(e) {
		return fmt.Errorf("%w: %s > %s", ErrInvertedDateRange, start, end)
	}
	return nil
}

// DateSpan lists every calendar date in [start, end] ascending. An inverted range
// yields an empty slice.
func DateSpan(start, end string) ([]string, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil, err
	}

	days := []string{}
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days, nil
}

// ShortLabel renders a date as dd/mm for chart axes.
func ShortLabel(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("02/01")
}
