// Package query filters full collection scans by calendar date.
//
// Range bounds are not checked here: an inverted range simply matches nothing.
// Callers validate with models.ValidateRange first.
package query

import (
	"slices"
	"strings"

	"github.com/mamadbah2/meatledger/internal/domain/models"
)

// ByExactDate returns the records dated date, most recently created first.
func ByExactDate[T models.Record](records []T, date string) []T {
	out := make([]T, 0)
	for _, r := range records {
		if r.RecordDate() == date {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return b.Created().Compare(a.Created())
	})
	return out
}

// ByDateRange returns the records dated within [start, end], most recent date
// first. Records sharing a date keep their scan order.
func ByDateRange[T models.Record](records []T, start, end string) []T {
	out := make([]T, 0)
	for _, r := range records {
		d := r.RecordDate()
		if d >= start && d <= end {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return strings.Compare(b.RecordDate(), a.RecordDate())
	})
	return out
}
