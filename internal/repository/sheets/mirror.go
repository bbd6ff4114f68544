package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/meatledger/internal/config"
	"github.com/mamadbah2/meatledger/internal/domain/models"
)

const (
	salesRange     = "Sales!A:I"
	purchasesRange = "Purchases!A:G"
)

// RowWriter appends a row to a sheet range.
type RowWriter interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetWriter implements RowWriter with the official Google Sheets API.
type GoogleSheetWriter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetWriter builds a Google Sheets backed row writer.
func NewGoogleSheetWriter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetWriter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetWriter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (w *GoogleSheetWriter) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := w.service.Spreadsheets.Values.Append(w.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	w.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// Mirror copies newly inserted records into a spreadsheet for the bookkeeper.
type Mirror struct {
	writer RowWriter
}

// NewMirror wraps a row writer.
func NewMirror(writer RowWriter) *Mirror {
	return &Mirror{writer: writer}
}

// MirrorSale appends a sale row.
func (m *Mirror) MirrorSale(ctx context.Context, s models.Sale) error {
	return m.writer.WriteRow(ctx, salesRange, SaleRow(s))
}

// MirrorPurchase appends a purchase row.
func (m *Mirror) MirrorPurchase(ctx context.Context, p models.Purchase) error {
	return m.writer.WriteRow(ctx, purchasesRange, PurchaseRow(p))
}

// SaleRow lays out a sale in column order id, date, customer, product, weight,
// cost, selling, profit, created.
func SaleRow(s models.Sale) []interface{} {
	return []interface{}{
		s.ID, s.SaleDate, s.CustomerName, s.ProductName,
		s.Weight, s.CostPrice, s.SellingPrice, s.Profit,
		s.CreatedAt.Format(time.RFC3339),
	}
}

// PurchaseRow lays out a purchase in column order id, date, supplier, product,
// weight, cost, created.
func PurchaseRow(p models.Purchase) []interface{} {
	return []interface{}{
		p.ID, p.ReceiveDate, p.SupplierName, p.ProductName,
		p.Weight, p.CostPrice,
		p.CreatedAt.Format(time.RFC3339),
	}
}
