package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/repository/records"
	"github.com/mamadbah2/meatledger/internal/repository/storage"
	"github.com/mamadbah2/meatledger/internal/service/ledger"
)

var now = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

func sale(customer, product, date string, weight, cost, selling float64) models.SaleInput {
	return models.SaleInput{
		CustomerName: customer,
		ProductName:  product,
		Weight:       models.Float(weight),
		CostPrice:    models.Float(cost),
		SellingPrice: models.Float(selling),
		SaleDate:     date,
	}
}

func purchase(supplier, product, date string, weight, cost float64) models.PurchaseInput {
	return models.PurchaseInput{
		SupplierName: supplier,
		ProductName:  product,
		Weight:       models.Float(weight),
		CostPrice:    models.Float(cost),
		ReceiveDate:  date,
	}
}

// newFixture stores:
//
//	2023-12-20 C Beef  1kg cost 40  selling 60  profit 20
//	2024-01-08 A Pork  3kg cost 90  selling 120 profit 30
//	2024-01-10 B Pork  1kg cost 50  selling 45  profit -5
//	2024-01-10 A Beef  2kg cost 100 selling 150 profit 50
func newFixture(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	clk := clock.Fixed(now)
	store := records.NewStore(storage.NewMemory(), records.Keys{Sales: "s", Purchases: "p"}, nil,
		records.WithNow(func() time.Time { return now }))
	l := ledger.NewService(store, clk, nil, nil)

	for _, in := range []models.SaleInput{
		sale("A", "Beef", "2024-01-10", 2, 100, 150),
		sale("B", "Pork", "2024-01-10", 1, 50, 45),
		sale("A", "Pork", "2024-01-08", 3, 90, 120),
		sale("C", "Beef", "2023-12-20", 1, 40, 60),
	} {
		_, err := l.AddSale(ctx, in)
		require.NoError(t, err)
	}
	for _, in := range []models.PurchaseInput{
		purchase("S1", "Beef", "2024-01-10", 10, 1000),
		purchase("S2", "Beef", "2024-01-10", 0, 50),
		purchase("S1", "Pork", "2024-01-09", 5, 200),
	} {
		_, err := l.AddPurchase(ctx, in)
		require.NoError(t, err)
	}

	return NewService(l, clk, nil)
}

func TestDashboard(t *testing.T) {
	svc := newFixture(t)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-01-10", d.Today)
	assert.Equal(t, "2024-01-01", d.RangeStart)
	assert.Len(t, d.TodaySales, 2)
	assert.Equal(t, 2, d.TodayTotals.Count)
	assert.InDelta(t, 195.0, d.TodayTotals.TotalSelling, 1e-9)
	assert.InDelta(t, 45.0, d.TodayTotals.TotalProfit, 1e-9)

	assert.Equal(t, 3, d.RangeTotals.Count)
	assert.InDelta(t, 315.0, d.RangeTotals.TotalSelling, 1e-9)
	assert.InDelta(t, 75.0, d.RangeTotals.TotalProfit, 1e-9)
	assert.Equal(t, 2, d.RangeTotals.ActiveBuckets)

	require.Len(t, d.Chart, 10)
	assert.Equal(t, "2024-01-01", d.Chart[0].Date)
	assert.Equal(t, "2024-01-10", d.Chart[9].Date)
	assert.InDelta(t, 195.0, d.Chart[9].Revenue, 1e-9)

	// the 2023-12-20 sale is outside the window and must not count
	assert.Equal(t, []RankedEntry{
		{Name: "Pork", Count: 2, Revenue: 165},
		{Name: "Beef", Count: 1, Revenue: 150},
	}, d.TopProducts)
	assert.Equal(t, []RankedEntry{
		{Name: "A", Count: 2, Revenue: 270},
		{Name: "B", Count: 1, Revenue: 45},
	}, d.TopCustomers)
}

func TestSummary(t *testing.T) {
	svc := newFixture(t)

	s, err := svc.Summary(context.Background(), "2024-01-08", "2024-01-10")
	require.NoError(t, err)

	assert.Equal(t, 3, s.DayCount)
	assert.Equal(t, 2, s.DaysWithSales)
	require.Len(t, s.Days, 3)
	assert.Equal(t, "2024-01-10", s.Days[0].Date)
	assert.Equal(t, "2024-01-09", s.Days[1].Date)
	assert.Zero(t, s.Days[1].Count)
	assert.Empty(t, s.Days[1].Sales)
	assert.Equal(t, "2024-01-08", s.Days[2].Date)

	assert.Equal(t, 3, s.GrandTotals.Count)
	assert.InDelta(t, 240.0, s.GrandTotals.TotalCost, 1e-9)
	assert.InDelta(t, 75.0, s.GrandTotals.TotalProfit, 1e-9)
	assert.InDelta(t, 31.25, s.MarginPercent, 1e-9)
}

func TestSummaryRejectsBadRanges(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.Summary(ctx, "2024-01-10", "2024-01-08")
	assert.ErrorIs(t, err, models.ErrInvertedDateRange)

	_, err = svc.Summary(ctx, "2024-01-08", "2024-01-11")
	assert.True(t, models.IsValidationError(err))

	_, err = svc.Summary(ctx, "yesterday", "2024-01-10")
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestSummaryForDays(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	s, err := svc.SummaryForDays(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-04", s.Start)
	assert.Equal(t, "2024-01-10", s.End)
	assert.Equal(t, 7, s.DayCount)

	one, err := svc.SummaryForDays(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, one.DayCount)
	assert.Equal(t, 2, one.GrandTotals.Count)

	_, err = svc.SummaryForDays(ctx, 0)
	assert.True(t, models.IsValidationError(err))
}

func TestProducts(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	r, err := svc.Products(ctx, "", true)
	require.NoError(t, err)
	assert.Equal(t, SortTotalProfit, r.SortBy)
	require.Len(t, r.Rows, 2)

	beef := r.Rows[0]
	assert.Equal(t, "Beef", beef.Name)
	assert.Equal(t, 2, beef.Count)
	assert.InDelta(t, 70.0, beef.TotalProfit, 1e-9)
	assert.InDelta(t, 35.0, beef.AvgProfit, 1e-9)
	assert.InDelta(t, 50.0, beef.MarginPercent, 1e-9)
	assert.Equal(t, 2, beef.CustomerCount)
	assert.Equal(t, "2023-12-20", beef.FirstDate)
	assert.Equal(t, "2024-01-10", beef.LastDate)

	assert.Equal(t, 4, r.GrandTotals.Count)

	asc, err := svc.Products(ctx, SortRevenue, false)
	require.NoError(t, err)
	assert.Equal(t, "Pork", asc.Rows[0].Name)
	assert.Equal(t, "Beef", asc.Rows[1].Name)

	// equal counts keep first-seen order in both directions
	byCount, err := svc.Products(ctx, SortCount, true)
	require.NoError(t, err)
	first := byCount.Rows[0].Name
	byCountAsc, err := svc.Products(ctx, SortCount, false)
	require.NoError(t, err)
	assert.Equal(t, first, byCountAsc.Rows[0].Name)

	_, err = svc.Products(ctx, "weight", true)
	assert.True(t, models.IsValidationError(err))
}

func TestRollupSortKeys(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		sortBy   string
		wantKey  string
		products [2]string // first row descending, first row ascending
		tied     bool
	}{
		{sortBy: SortTotalWeight, wantKey: SortTotalWeight, products: [2]string{"Pork", "Beef"}},
		{sortBy: SortTotalSelling, wantKey: SortTotalSelling, products: [2]string{"Beef", "Pork"}},
		{sortBy: SortRevenue, wantKey: SortTotalSelling, products: [2]string{"Beef", "Pork"}},
		{sortBy: SortTotalProfit, wantKey: SortTotalProfit, products: [2]string{"Beef", "Pork"}},
		{sortBy: SortMarginPercent, wantKey: SortMarginPercent, products: [2]string{"Beef", "Pork"}},
		{sortBy: SortCount, wantKey: SortCount, tied: true},
		{sortBy: SortTotalCost, wantKey: SortTotalCost, tied: true},
		{sortBy: SortCustomerCount, wantKey: SortCustomerCount, tied: true},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			desc, err := svc.Products(ctx, tt.sortBy, true)
			require.NoError(t, err)
			asc, err := svc.Products(ctx, tt.sortBy, false)
			require.NoError(t, err)
			require.Len(t, desc.Rows, 2)
			require.Len(t, asc.Rows, 2)

			assert.Equal(t, tt.wantKey, desc.SortBy)
			assert.True(t, desc.Descending)
			assert.False(t, asc.Descending)
			if tt.tied {
				assert.Equal(t, desc.Rows[0].Name, asc.Rows[0].Name)
				return
			}
			assert.Equal(t, tt.products[0], desc.Rows[0].Name)
			assert.Equal(t, tt.products[1], asc.Rows[0].Name)
		})
	}

	customerTests := []struct {
		sortBy string
		desc   string
		asc    string
	}{
		{sortBy: SortCount, desc: "A"},
		{sortBy: SortTotalWeight, desc: "A"},
		{sortBy: SortTotalCost, desc: "A", asc: "C"},
		{sortBy: SortTotalSelling, desc: "A", asc: "B"},
		{sortBy: SortTotalProfit, desc: "A", asc: "B"},
		{sortBy: SortMarginPercent, desc: "C", asc: "B"},
		{sortBy: SortProductCount, desc: "A"},
	}
	for _, tt := range customerTests {
		t.Run("customers "+tt.sortBy, func(t *testing.T) {
			desc, err := svc.Customers(ctx, tt.sortBy, true)
			require.NoError(t, err)
			require.Len(t, desc.Rows, 3)
			assert.Equal(t, tt.desc, desc.Rows[0].Name)

			asc, err := svc.Customers(ctx, tt.sortBy, false)
			require.NoError(t, err)
			assert.Equal(t, tt.sortBy, asc.SortBy)
			if tt.asc != "" {
				assert.Equal(t, tt.asc, asc.Rows[0].Name)
			}
		})
	}

	// the related-count key belongs to one rollup each
	_, err := svc.Products(ctx, SortProductCount, true)
	assert.True(t, models.IsValidationError(err))
	_, err = svc.Customers(ctx, SortCustomerCount, true)
	assert.True(t, models.IsValidationError(err))
}

func TestCustomers(t *testing.T) {
	svc := newFixture(t)

	r, err := svc.Customers(context.Background(), SortRevenue, true)
	require.NoError(t, err)
	require.Len(t, r.Rows, 3)

	assert.Equal(t, "A", r.Rows[0].Name)
	assert.InDelta(t, 270.0, r.Rows[0].TotalSelling, 1e-9)
	assert.Equal(t, 2, r.Rows[0].ProductCount)
	assert.Equal(t, "C", r.Rows[1].Name)
	assert.Equal(t, "B", r.Rows[2].Name)
	assert.InDelta(t, -5.0, r.Rows[2].TotalProfit, 1e-9)
}

func TestPurchasesOn(t *testing.T) {
	svc := newFixture(t)

	d, err := svc.PurchasesOn(context.Background(), "2024-01-10")
	require.NoError(t, err)
	require.Len(t, d.Items, 2)
	assert.InDelta(t, 1050.0, d.Totals.TotalCost, 1e-9)

	for _, line := range d.Items {
		switch line.SupplierName {
		case "S1":
			require.NotNil(t, line.CostPerUnit)
			assert.InDelta(t, 100.0, *line.CostPerUnit, 1e-9)
			assert.Equal(t, "100.00", FormatUnitCost(line))
		case "S2":
			assert.Nil(t, line.CostPerUnit)
			assert.Equal(t, models.UnitCostUnavailable, FormatUnitCost(line))
		default:
			t.Fatalf("unexpected supplier %q", line.SupplierName)
		}
	}
}

func TestPurchaseRollup(t *testing.T) {
	svc := newFixture(t)

	r, err := svc.PurchaseRollup(context.Background(), "2024-01-01", "2024-01-10")
	require.NoError(t, err)
	require.Len(t, r.Rows, 2)

	beef := r.Rows[0]
	assert.Equal(t, "Beef", beef.Name)
	assert.InDelta(t, 1050.0, beef.TotalCost, 1e-9)
	assert.Equal(t, 2, beef.SupplierCount)
	require.NotNil(t, beef.AvgUnitCost)
	assert.InDelta(t, 105.0, *beef.AvgUnitCost, 1e-9)

	assert.Equal(t, "Pork", r.Rows[1].Name)
	assert.InDelta(t, 40.0, *r.Rows[1].AvgUnitCost, 1e-9)

	_, err = svc.PurchaseRollup(context.Background(), "2024-01-10", "2024-01-01")
	assert.ErrorIs(t, err, models.ErrInvertedDateRange)
}

func TestDailyReport(t *testing.T) {
	svc := newFixture(t)

	r, err := svc.DailyReport(context.Background(), "2024-01-10")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-10", r.Date)
	assert.Equal(t, 2, r.SalesCount)
	assert.InDelta(t, 195.0, r.SalesRevenue, 1e-9)
	assert.InDelta(t, 150.0, r.SalesCost, 1e-9)
	assert.InDelta(t, 45.0, r.SalesProfit, 1e-9)
	assert.InDelta(t, 30.0, r.MarginPercent, 1e-9)
	assert.Equal(t, 2, r.PurchasesCount)
	assert.InDelta(t, 1050.0, r.PurchasesCost, 1e-9)
	assert.InDelta(t, 10.0, r.PurchasedWeight, 1e-9)
	assert.Equal(t, "Beef", r.TopProduct)
	assert.True(t, r.CreatedAt.Equal(now))

	text := FormatDailyReport(r)
	assert.Contains(t, text, "Daily report 2024-01-10")
	assert.Contains(t, text, "Top product: Beef")
}

func TestDailyReportForQuietDay(t *testing.T) {
	svc := newFixture(t)

	r, err := svc.DailyReport(context.Background(), "2024-01-05")
	require.NoError(t, err)
	assert.Zero(t, r.SalesCount)
	assert.Zero(t, r.MarginPercent)
	assert.Empty(t, r.TopProduct)
	assert.Equal(t, "Daily report 2024-01-05: no activity recorded.", FormatDailyReport(r))
}

func TestRangeLists(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	sales, err := svc.SalesBetween(ctx, "2024-01-01", "2024-01-10")
	require.NoError(t, err)
	require.Len(t, sales.Items, 3)
	assert.Equal(t, "2024-01-10", sales.Items[0].SaleDate)
	assert.Equal(t, "2024-01-08", sales.Items[2].SaleDate)
	assert.InDelta(t, 75.0, sales.Totals.TotalProfit, 1e-9)

	purchases, err := svc.PurchasesBetween(ctx, "2024-01-09", "2024-01-09")
	require.NoError(t, err)
	require.Len(t, purchases.Items, 1)
	require.NotNil(t, purchases.Items[0].CostPerUnit)
	assert.InDelta(t, 40.0, *purchases.Items[0].CostPerUnit, 1e-9)

	_, err = svc.SalesBetween(ctx, "2024-01-10", "2024-01-01")
	assert.ErrorIs(t, err, models.ErrInvertedDateRange)
}
