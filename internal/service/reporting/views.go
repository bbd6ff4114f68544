package reporting

import (
	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/service/aggregation"
)

// RankedEntry is one row of a top-N list.
type RankedEntry struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Dashboard is the landing view: today plus the trailing chart window.
type Dashboard struct {
	Today        string                   `json:"today"`
	RangeStart   string                   `json:"rangeStart"`
	TodaySales   []models.Sale            `json:"todaySales"`
	TodayTotals  aggregation.Totals       `json:"todayTotals"`
	RangeTotals  aggregation.Totals       `json:"rangeTotals"`
	Chart        []aggregation.ChartPoint `json:"chart"`
	TopProducts  []RankedEntry            `json:"topProducts"`
	TopCustomers []RankedEntry            `json:"topCustomers"`
}

// SalesDay lists one day's sales with their totals.
type SalesDay struct {
	Date   string             `json:"date"`
	Items  []models.Sale      `json:"items"`
	Totals aggregation.Totals `json:"totals"`
}

// DaySummary is one day of a summary range.
type DaySummary struct {
	Date         string        `json:"date"`
	Count        int           `json:"count"`
	TotalCost    float64       `json:"totalCost"`
	TotalSelling float64       `json:"totalSelling"`
	TotalProfit  float64       `json:"totalProfit"`
	Sales        []models.Sale `json:"sales"`
}

// Summary covers a date range, most recent day first.
type Summary struct {
	Start         string             `json:"start"`
	End           string             `json:"end"`
	DayCount      int                `json:"dayCount"`
	DaysWithSales int                `json:"daysWithSales"`
	GrandTotals   aggregation.Totals `json:"grandTotals"`
	MarginPercent float64            `json:"marginPercent"`
	Days          []DaySummary       `json:"days"`
}

// RollupRow carries the figures shared by product and customer rollups.
type RollupRow struct {
	Name          string  `json:"name"`
	Count         int     `json:"count"`
	TotalWeight   float64 `json:"totalWeight"`
	TotalCost     float64 `json:"totalCost"`
	TotalSelling  float64 `json:"totalSelling"`
	TotalProfit   float64 `json:"totalProfit"`
	AvgProfit     float64 `json:"avgProfit"`
	MarginPercent float64 `json:"marginPercent"`
	FirstDate     string  `json:"firstDate"`
	LastDate      string  `json:"lastDate"`
}

// ProductRow is a product rollup with its distinct customer count.
type ProductRow struct {
	RollupRow
	CustomerCount int `json:"customerCount"`
}

// CustomerRow is a customer rollup with its distinct product count.
type CustomerRow struct {
	RollupRow
	ProductCount int `json:"productCount"`
}

// Rollup is a sorted rollup table with grand totals.
type Rollup[R any] struct {
	SortBy      string             `json:"sortBy"`
	Descending  bool               `json:"descending"`
	Rows        []R                `json:"rows"`
	GrandTotals aggregation.Totals `json:"grandTotals"`
}

// PurchaseLine is a purchase with its unit cost; CostPerUnit is null when the
// weight is zero.
type PurchaseLine struct {
	models.Purchase
	CostPerUnit *float64 `json:"costPerUnit"`
}

// PurchasesDay lists one day's purchases with their totals.
type PurchasesDay struct {
	Date   string             `json:"date"`
	Items  []PurchaseLine     `json:"items"`
	Totals aggregation.Totals `json:"totals"`
}

// PurchaseRollupRow is one product of a purchase rollup.
type PurchaseRollupRow struct {
	Name          string   `json:"name"`
	Count         int      `json:"count"`
	TotalWeight   float64  `json:"totalWeight"`
	TotalCost     float64  `json:"totalCost"`
	AvgUnitCost   *float64 `json:"avgUnitCost"`
	SupplierCount int      `json:"supplierCount"`
	FirstDate     string   `json:"firstDate"`
	LastDate      string   `json:"lastDate"`
}

// PurchaseRollup covers a date range of purchases by product, highest spend first.
type PurchaseRollup struct {
	Start       string              `json:"start"`
	End         string              `json:"end"`
	Rows        []PurchaseRollupRow `json:"rows"`
	GrandTotals aggregation.Totals  `json:"grandTotals"`
}

// RangeList lists the records dated within [Start, End], most recent date first.
type RangeList[T any] struct {
	Start  string             `json:"start"`
	End    string             `json:"end"`
	Items  []T                `json:"items"`
	Totals aggregation.Totals `json:"totals"`
}
