package aggregation

import (
	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/domain/models"
)

// ChartDays is the width of the dashboard time series.
const ChartDays = 10

// ChartPoint is one day of the revenue/profit series.
type ChartPoint struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// ChartSeries returns ChartDays consecutive daily points ending today, oldest
// first, zero-filled for days without records.
func ChartSeries[T models.Record](records []T, clk clock.Clock) []ChartPoint {
	// the bounds come from the clock and always parse
	buckets, _ := GroupByCalendarDate(records, clk.DaysAgo(ChartDays-1), clk.Today())

	points := make([]ChartPoint, 0, len(buckets))
	for i := len(buckets) - 1; i >= 0; i-- {
		b := buckets[i]
		points = append(points, ChartPoint{
			Date:    b.Key,
			Label:   models.ShortLabel(b.Key),
			Revenue: b.TotalSelling,
			Profit:  b.TotalProfit,
		})
	}
	return points
}
