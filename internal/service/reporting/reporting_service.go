package reporting

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/service/aggregation"
)

const (
	topListSize    = 5
	maxSummarySpan = 366
)

// Sort keys accepted by the product and customer rollups. SortRevenue is an
// alias of SortTotalSelling; SortCustomerCount applies to products and
// SortProductCount to customers.
const (
	SortTotalProfit   = "totalProfit"
	SortCount         = "count"
	SortTotalWeight   = "totalWeight"
	SortTotalCost     = "totalCost"
	SortTotalSelling  = "totalSelling"
	SortRevenue       = "revenue"
	SortMarginPercent = "marginPercent"
	SortCustomerCount = "customerCount"
	SortProductCount  = "productCount"
)

// QuickRanges are the day counts offered as summary shortcuts.
var QuickRanges = []int{7, 10, 14, 30, 90}

// Reader is the read side of the ledger.
type Reader interface {
	AllSales(ctx context.Context) ([]models.Sale, error)
	AllPurchases(ctx context.Context) ([]models.Purchase, error)
	SalesByDate(ctx context.Context, date string) ([]models.Sale, error)
	SalesInRange(ctx context.Context, start, end string) ([]models.Sale, error)
	PurchasesByDate(ctx context.Context, date string) ([]models.Purchase, error)
	PurchasesInRange(ctx context.Context, start, end string) ([]models.Purchase, error)
}

// Service builds the read views over the ledger.
type Service struct {
	ledger Reader
	clock  clock.Clock
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(ledger Reader, clk clock.Clock, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: ledger, clock: clk, logger: logger}
}

// Dashboard assembles today's activity and the trailing chart window.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	today := s.clock.Today()
	start := s.clock.DaysAgo(aggregation.ChartDays - 1)

	// totals, chart and top lists all cover the same window, date descending
	sales, err := s.ledger.SalesInRange(ctx, start, today)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard window: %w", err)
	}
	todaySales, err := s.ledger.SalesByDate(ctx, today)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load today's sales: %w", err)
	}
	days, err := aggregation.GroupByCalendarDate(sales, start, today)
	if err != nil {
		return Dashboard{}, fmt.Errorf("group chart window: %w", err)
	}

	products := aggregation.GroupByField(sales, aggregation.ByProduct[models.Sale], nil)
	customers := aggregation.GroupByField(sales, aggregation.ByParty[models.Sale], nil)

	return Dashboard{
		Today:        today,
		RangeStart:   start,
		TodaySales:   todaySales,
		TodayTotals:  aggregation.SumRecords(todaySales),
		RangeTotals:  aggregation.SumBuckets(days),
		Chart:        aggregation.ChartSeries(sales, s.clock),
		TopProducts:  ranked(aggregation.TopN(products, topListSize, aggregation.ByCount[models.Sale])),
		TopCustomers: ranked(aggregation.TopN(customers, topListSize, aggregation.ByCount[models.Sale])),
	}, nil
}

// SalesOn lists the sales of one date, latest entry first.
func (s *Service) SalesOn(ctx context.Context, date string) (SalesDay, error) {
	items, err := s.ledger.SalesByDate(ctx, date)
	if err != nil {
		return SalesDay{}, err
	}
	return SalesDay{Date: date, Items: items, Totals: aggregation.SumRecords(items)}, nil
}

// SalesBetween lists the sales dated within [start, end].
func (s *Service) SalesBetween(ctx context.Context, start, end string) (RangeList[models.Sale], error) {
	items, err := s.ledger.SalesInRange(ctx, start, end)
	if err != nil {
		return RangeList[models.Sale]{}, err
	}
	return RangeList[models.Sale]{Start: start, End: end, Items: items, Totals: aggregation.SumRecords(items)}, nil
}

// PurchasesBetween lists the purchases received within [start, end] with unit costs.
func (s *Service) PurchasesBetween(ctx context.Context, start, end string) (RangeList[PurchaseLine], error) {
	items, err := s.ledger.PurchasesInRange(ctx, start, end)
	if err != nil {
		return RangeList[PurchaseLine]{}, err
	}
	return RangeList[PurchaseLine]{Start: start, End: end, Items: purchaseLines(items), Totals: aggregation.SumRecords(items)}, nil
}

// Summary rolls sales up per day over [start, end].
func (s *Service) Summary(ctx context.Context, start, end string) (Summary, error) {
	if err := models.ValidateRange(start, end); err != nil {
		return Summary{}, err
	}
	if end > s.clock.Today() {
		return Summary{}, &models.ValidationError{Field: "end", Reason: "must not be in the future"}
	}

	sales, err := s.ledger.SalesInRange(ctx, start, end)
	if err != nil {
		return Summary{}, fmt.Errorf("load sales range: %w", err)
	}
	buckets, err := aggregation.GroupByCalendarDate(sales, start, end)
	if err != nil {
		return Summary{}, fmt.Errorf("group summary range: %w", err)
	}

	totals := aggregation.SumBuckets(buckets)
	out := Summary{
		Start:         start,
		End:           end,
		DayCount:      len(buckets),
		DaysWithSales: totals.ActiveBuckets,
		GrandTotals:   totals,
		MarginPercent: aggregation.Margin(totals.TotalProfit, totals.TotalCost),
		Days:          make([]DaySummary, 0, len(buckets)),
	}
	for _, b := range buckets {
		out.Days = append(out.Days, DaySummary{
			Date:         b.Key,
			Count:        b.Count,
			TotalCost:    b.TotalCost,
			TotalSelling: b.TotalSelling,
			TotalProfit:  b.TotalProfit,
			Sales:        b.Members,
		})
	}
	return out, nil
}

// SummaryForDays summarises the last days calendar days ending today.
func (s *Service) SummaryForDays(ctx context.Context, days int) (Summary, error) {
	if days < 1 || days > maxSummarySpan {
		return Summary{}, &models.ValidationError{Field: "days", Reason: fmt.Sprintf("must be between 1 and %d", maxSummarySpan)}
	}
	return s.Summary(ctx, s.clock.DaysAgo(days-1), s.clock.Today())
}

// Products rolls every sale up by product.
func (s *Service) Products(ctx context.Context, sortBy string, descending bool) (Rollup[ProductRow], error) {
	rank, sortBy, err := rankFor(sortBy, SortCustomerCount)
	if err != nil {
		return Rollup[ProductRow]{}, err
	}
	sales, err := s.ledger.AllSales(ctx)
	if err != nil {
		return Rollup[ProductRow]{}, fmt.Errorf("load sales: %w", err)
	}

	buckets := aggregation.GroupByField(sales, aggregation.ByProduct[models.Sale], aggregation.ByParty[models.Sale])
	sorted := aggregation.SortBuckets(buckets, rank, descending)

	rows := make([]ProductRow, 0, len(sorted))
	for _, b := range sorted {
		rows = append(rows, ProductRow{RollupRow: rollupRow(b), CustomerCount: b.RelatedCount()})
	}
	return Rollup[ProductRow]{
		SortBy:      sortBy,
		Descending:  descending,
		Rows:        rows,
		GrandTotals: aggregation.SumBuckets(buckets),
	}, nil
}

// Customers rolls every sale up by customer.
func (s *Service) Customers(ctx context.Context, sortBy string, descending bool) (Rollup[CustomerRow], error) {
	rank, sortBy, err := rankFor(sortBy, SortProductCount)
	if err != nil {
		return Rollup[CustomerRow]{}, err
	}
	sales, err := s.ledger.AllSales(ctx)
	if err != nil {
		return Rollup[CustomerRow]{}, fmt.Errorf("load sales: %w", err)
	}

	buckets := aggregation.GroupByField(sales, aggregation.ByParty[models.Sale], aggregation.ByProduct[models.Sale])
	sorted := aggregation.SortBuckets(buckets, rank, descending)

	rows := make([]CustomerRow, 0, len(sorted))
	for _, b := range sorted {
		rows = append(rows, CustomerRow{RollupRow: rollupRow(b), ProductCount: b.RelatedCount()})
	}
	return Rollup[CustomerRow]{
		SortBy:      sortBy,
		Descending:  descending,
		Rows:        rows,
		GrandTotals: aggregation.SumBuckets(buckets),
	}, nil
}

// PurchasesOn lists the purchases received on one date with unit costs.
func (s *Service) PurchasesOn(ctx context.Context, date string) (PurchasesDay, error) {
	items, err := s.ledger.PurchasesByDate(ctx, date)
	if err != nil {
		return PurchasesDay{}, err
	}

	return PurchasesDay{Date: date, Items: purchaseLines(items), Totals: aggregation.SumRecords(items)}, nil
}

// PurchaseRollup rolls purchases in [start, end] up by product, highest spend first.
func (s *Service) PurchaseRollup(ctx context.Context, start, end string) (PurchaseRollup, error) {
	purchases, err := s.ledger.PurchasesInRange(ctx, start, end)
	if err != nil {
		return PurchaseRollup{}, err
	}

	buckets := aggregation.GroupByField(purchases, aggregation.ByProduct[models.Purchase], aggregation.ByParty[models.Purchase])
	sorted := aggregation.SortBuckets(buckets, aggregation.ByCost[models.Purchase], true)

	rows := make([]PurchaseRollupRow, 0, len(sorted))
	for _, b := range sorted {
		row := PurchaseRollupRow{
			Name:          b.Key,
			Count:         b.Count,
			TotalWeight:   b.TotalWeight,
			TotalCost:     b.TotalCost,
			SupplierCount: b.RelatedCount(),
			FirstDate:     b.FirstDate,
			LastDate:      b.LastDate,
		}
		if v, ok := aggregation.AverageUnitCost(b); ok {
			row.AvgUnitCost = &v
		}
		rows = append(rows, row)
	}
	return PurchaseRollup{Start: start, End: end, Rows: rows, GrandTotals: aggregation.SumBuckets(buckets)}, nil
}

// DailyReport snapshots one date of trading.
func (s *Service) DailyReport(ctx context.Context, date string) (models.DailyReport, error) {
	sales, err := s.ledger.SalesByDate(ctx, date)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load sales: %w", err)
	}
	purchases, err := s.ledger.PurchasesByDate(ctx, date)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load purchases: %w", err)
	}

	st := aggregation.SumRecords(sales)
	pt := aggregation.SumRecords(purchases)

	report := models.DailyReport{
		Date:            date,
		SalesCount:      st.Count,
		SalesRevenue:    st.TotalSelling,
		SalesCost:       st.TotalCost,
		SalesProfit:     st.TotalProfit,
		MarginPercent:   aggregation.Margin(st.TotalProfit, st.TotalCost),
		PurchasesCount:  pt.Count,
		PurchasesCost:   pt.TotalCost,
		PurchasedWeight: pt.TotalWeight,
		CreatedAt:       s.clock.Now().UTC(),
	}

	products := aggregation.GroupByField(sales, aggregation.ByProduct[models.Sale], nil)
	if top := aggregation.TopN(products, 1, aggregation.ByRevenue[models.Sale]); len(top) == 1 {
		report.TopProduct = top[0].Key
	}

	s.logger.Debug("daily report built",
		zap.String("date", date),
		zap.Int("sales", report.SalesCount),
		zap.Int("purchases", report.PurchasesCount),
	)
	return report, nil
}

// rankFor resolves a sort key; relatedKey names the distinct-related column of
// the rollup being sorted.
func rankFor(sortBy, relatedKey string) (aggregation.Rank[models.Sale], string, error) {
	switch sortBy {
	case "", SortTotalProfit:
		return aggregation.ByProfit[models.Sale], SortTotalProfit, nil
	case SortCount:
		return aggregation.ByCount[models.Sale], SortCount, nil
	case SortTotalWeight:
		return aggregation.ByWeight[models.Sale], SortTotalWeight, nil
	case SortTotalCost:
		return aggregation.ByCost[models.Sale], SortTotalCost, nil
	case SortTotalSelling, SortRevenue:
		return aggregation.ByRevenue[models.Sale], SortTotalSelling, nil
	case SortMarginPercent:
		return aggregation.ByMargin[models.Sale], SortMarginPercent, nil
	case relatedKey:
		return aggregation.ByRelatedCount[models.Sale], relatedKey, nil
	default:
		return nil, "", &models.ValidationError{
			Field:  "sort",
			Reason: fmt.Sprintf("must be one of totalProfit, count, totalWeight, totalCost, totalSelling, marginPercent, %s", relatedKey),
		}
	}
}

func rollupRow(b aggregation.Bucket[models.Sale]) RollupRow {
	return RollupRow{
		Name:          b.Key,
		Count:         b.Count,
		TotalWeight:   b.TotalWeight,
		TotalCost:     b.TotalCost,
		TotalSelling:  b.TotalSelling,
		TotalProfit:   b.TotalProfit,
		AvgProfit:     aggregation.AverageProfit(b),
		MarginPercent: aggregation.MarginPercent(b),
		FirstDate:     b.FirstDate,
		LastDate:      b.LastDate,
	}
}

func purchaseLines(items []models.Purchase) []PurchaseLine {
	lines := make([]PurchaseLine, 0, len(items))
	for _, p := range items {
		line := PurchaseLine{Purchase: p}
		if v, ok := p.CostPerUnit(); ok {
			line.CostPerUnit = &v
		}
		lines = append(lines, line)
	}
	return lines
}

func ranked(buckets []aggregation.Bucket[models.Sale]) []RankedEntry {
	out := make([]RankedEntry, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, RankedEntry{Name: b.Key, Count: b.Count, Revenue: b.TotalSelling})
	}
	return out
}
