package reporting

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/meatledger/internal/domain/models"
)

// FormatDailyReport renders a report as a chat message.
func FormatDailyReport(r models.DailyReport) string {
	if r.SalesCount == 0 && r.PurchasesCount == 0 {
		return fmt.Sprintf("Daily report %s: no activity recorded.", r.Date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily report %s\n", r.Date)
	fmt.Fprintf(&b, "Sales: %d, revenue %.2f, cost %.2f, profit %.2f (%.1f%%)\n",
		r.SalesCount, r.SalesRevenue, r.SalesCost, r.SalesProfit, r.MarginPercent)
	fmt.Fprintf(&b, "Purchases: %d, %.2f kg, cost %.2f", r.PurchasesCount, r.PurchasedWeight, r.PurchasesCost)
	if r.TopProduct != "" {
		fmt.Fprintf(&b, "\nTop product: %s", r.TopProduct)
	}
	return b.String()
}

// FormatSummary renders a summary range as a chat message.
func FormatSummary(s Summary) string {
	if s.GrandTotals.Count == 0 {
		return fmt.Sprintf("Sales summary (%s to %s): no sales yet.", s.Start, s.End)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sales summary (%s to %s)\n", s.Start, s.End)
	fmt.Fprintf(&b, "%d sales on %d of %d days\n", s.GrandTotals.Count, s.DaysWithSales, s.DayCount)
	fmt.Fprintf(&b, "Revenue %.2f, cost %.2f, profit %.2f (%.1f%%)",
		s.GrandTotals.TotalSelling, s.GrandTotals.TotalCost, s.GrandTotals.TotalProfit, s.MarginPercent)
	return b.String()
}

// FormatSalesDay renders one day's sales, one line per sale.
func FormatSalesDay(d SalesDay) string {
	if len(d.Items) == 0 {
		return fmt.Sprintf("No sales recorded on %s.", d.Date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sales on %s: %d, revenue %.2f, profit %.2f", d.Date, d.Totals.Count, d.Totals.TotalSelling, d.Totals.TotalProfit)
	for _, s := range d.Items {
		fmt.Fprintf(&b, "\n- %s: %s %.2f kg, %.2f", s.CustomerName, s.ProductName, s.Weight, s.SellingPrice)
	}
	return b.String()
}

// FormatUnitCost renders a purchase unit cost, or a dash when the weight is zero.
func FormatUnitCost(line PurchaseLine) string {
	if line.CostPerUnit == nil {
		return models.UnitCostUnavailable
	}
	return fmt.Sprintf("%.2f", *line.CostPerUnit)
}

// FormatPurchasesDay renders one day's purchases with their unit costs.
func FormatPurchasesDay(d PurchasesDay) string {
	if len(d.Items) == 0 {
		return fmt.Sprintf("No purchases received on %s.", d.Date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Purchases on %s: %d, %.2f kg, cost %.2f", d.Date, d.Totals.Count, d.Totals.TotalWeight, d.Totals.TotalCost)
	for _, line := range d.Items {
		fmt.Fprintf(&b, "\n- %s: %s %.2f kg, %.2f (%s/kg)",
			line.SupplierName, line.ProductName, line.Weight, line.CostPrice, FormatUnitCost(line))
	}
	return b.String()
}
