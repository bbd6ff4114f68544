package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/domain/models"
)

func TestChartSeries(t *testing.T) {
	clk := clock.Fixed(time.Date(2024, time.March, 5, 18, 0, 0, 0, time.UTC))
	sales := []models.Sale{
		sale("a", "2024-03-05", "A", "Beef", 100, 150),
		sale("b", "2024-03-05", "B", "Beef", 100, 90),
		sale("c", "2024-02-25", "C", "Pork", 10, 20),
		sale("old", "2024-02-24", "C", "Pork", 10, 20),
	}

	points := ChartSeries(sales, clk)
	require.Len(t, points, ChartDays)

	assert.Equal(t, "2024-02-25", points[0].Date)
	assert.Equal(t, "25/02", points[0].Label)
	assert.Equal(t, 20.0, points[0].Revenue)
	assert.Equal(t, 10.0, points[0].Profit)

	last := points[ChartDays-1]
	assert.Equal(t, "2024-03-05", last.Date)
	assert.Equal(t, 240.0, last.Revenue)
	assert.Equal(t, 40.0, last.Profit)

	for _, p := range points[1 : ChartDays-1] {
		assert.Zero(t, p.Revenue, p.Date)
	}
}

func TestChartSeriesWithoutData(t *testing.T) {
	clk := clock.Fixed(time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC))
	points := ChartSeries([]models.Sale{}, clk)
	require.Len(t, points, ChartDays)
	assert.Equal(t, "2023-12-25", points[0].Date)
	assert.Equal(t, "2024-01-03", points[ChartDays-1].Date)
}
