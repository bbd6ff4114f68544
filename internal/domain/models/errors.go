package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate indicates a date string is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvertedDateRange indicates a range whose start is after its end.
	ErrInvertedDateRange = errors.New("start date must not be after end date")
	// ErrRecordNotFound indicates a delete targeted an id that is not stored.
	ErrRecordNotFound = errors.New("record not found")
)

// ValidationError reports a submission that cannot be saved.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
