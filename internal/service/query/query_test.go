package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/meatledger/internal/domain/models"
)

func at(hour int) time.Time {
	return time.Date(2024, time.January, 1, hour, 0, 0, 0, time.UTC)
}

func ids[T models.Record](records []T) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.RecordID())
	}
	return out
}

func TestByExactDate(t *testing.T) {
	sales := []models.Sale{
		{ID: "a", SaleDate: "2024-01-01", CreatedAt: at(9)},
		{ID: "b", SaleDate: "2024-01-02", CreatedAt: at(10)},
		{ID: "c", SaleDate: "2024-01-01", CreatedAt: at(11)},
		{ID: "d", SaleDate: "2024-01-01", CreatedAt: at(10)},
	}

	assert.Equal(t, []string{"c", "d", "a"}, ids(ByExactDate(sales, "2024-01-01")))
	assert.Empty(t, ByExactDate(sales, "2024-01-05"))
	assert.NotNil(t, ByExactDate(sales, "2024-01-05"))
}

func TestByDateRange(t *testing.T) {
	purchases := []models.Purchase{
		{ID: "a", ReceiveDate: "2024-01-01"},
		{ID: "b", ReceiveDate: "2024-01-03"},
		{ID: "c", ReceiveDate: "2024-01-05"},
		{ID: "d", ReceiveDate: "2024-01-03"},
		{ID: "e", ReceiveDate: "2023-12-31"},
	}

	assert.Equal(t, []string{"c", "b", "d", "a"}, ids(ByDateRange(purchases, "2024-01-01", "2024-01-05")))
	assert.Equal(t, []string{"b", "d"}, ids(ByDateRange(purchases, "2024-01-03", "2024-01-03")))
}

func TestByDateRangeInvertedMatchesNothing(t *testing.T) {
	sales := []models.Sale{{ID: "a", SaleDate: "2024-02-05"}}
	assert.Empty(t, ByDateRange(sales, "2024-02-10", "2024-02-01"))
}
