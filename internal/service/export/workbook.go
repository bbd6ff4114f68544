// Package export renders ledger ranges as Excel workbooks.
package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/service/reporting"
)

// Sheet names, in workbook order.
const (
	SummarySheet   = "Summary"
	SalesSheet     = "Sales"
	PurchasesSheet = "Purchases"
)

// ContentType is the MIME type of an .xlsx file.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Views are the reads a workbook is built from.
type Views interface {
	Summary(ctx context.Context, start, end string) (reporting.Summary, error)
	SalesBetween(ctx context.Context, start, end string) (reporting.RangeList[models.Sale], error)
	PurchasesBetween(ctx context.Context, start, end string) (reporting.RangeList[reporting.PurchaseLine], error)
}

// Service builds workbooks.
type Service struct {
	views  Views
	logger *zap.Logger
}

// NewService wires an export service.
func NewService(views Views, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{views: views, logger: logger}
}

// Workbook renders [start, end] as a three-sheet workbook. The caller must Close it.
func (s *Service) Workbook(ctx context.Context, start, end string) (*excelize.File, error) {
	summary, err := s.views.Summary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	sales, err := s.views.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	purchases, err := s.views.PurchasesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := s.fill(f, summary, sales, purchases); err != nil {
		_ = f.Close()
		return nil, err
	}

	s.logger.Info("workbook exported",
		zap.String("start", start),
		zap.String("end", end),
		zap.Int("sales", len(sales.Items)),
		zap.Int("purchases", len(purchases.Items)))
	return f, nil
}

func (s *Service) fill(f *excelize.File, summary reporting.Summary, sales reporting.RangeList[models.Sale], purchases reporting.RangeList[reporting.PurchaseLine]) error {
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SalesSheet, PurchasesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	summaryRows := make([][]any, 0, len(summary.Days)+1)
	for _, d := range summary.Days {
		summaryRows = append(summaryRows, []any{d.Date, d.Count, d.TotalCost, d.TotalSelling, d.TotalProfit})
	}
	t := summary.GrandTotals
	summaryRows = append(summaryRows, []any{"Total", t.Count, t.TotalCost, t.TotalSelling, t.TotalProfit})

	saleRows := make([][]any, 0, len(sales.Items))
	for _, sale := range sales.Items {
		saleRows = append(saleRows, []any{
			sale.SaleDate, sale.CustomerName, sale.ProductName,
			sale.Weight, sale.CostPrice, sale.SellingPrice, sale.Profit, sale.ID,
		})
	}

	purchaseRows := make([][]any, 0, len(purchases.Items))
	for _, line := range purchases.Items {
		purchaseRows = append(purchaseRows, []any{
			line.ReceiveDate, line.SupplierName, line.ProductName,
			line.Weight, line.CostPrice, unitCostCell(line), line.ID,
		})
	}

	tables := []struct {
		sheet  string
		header []any
		rows   [][]any
	}{
		{SummarySheet, []any{"Date", "Sales", "Cost", "Selling", "Profit"}, summaryRows},
		{SalesSheet, []any{"Date", "Customer", "Product", "Weight", "Cost", "Selling", "Profit", "ID"}, saleRows},
		{PurchasesSheet, []any{"Date", "Supplier", "Product", "Weight", "Cost", "Cost per unit", "ID"}, purchaseRows},
	}
	for _, tbl := range tables {
		if err := writeTable(f, tbl.sheet, tbl.header, tbl.rows, bold); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func unitCostCell(line reporting.PurchaseLine) any {
	if line.CostPerUnit == nil {
		return models.UnitCostUnavailable
	}
	return *line.CostPerUnit
}
