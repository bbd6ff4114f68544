package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/service/export"
)

// defaultExportDays matches the chart window.
const defaultExportDays = 10

// WorkbookExporter renders a date range as a spreadsheet.
type WorkbookExporter interface {
	Workbook(ctx context.Context, start, end string) (*excelize.File, error)
}

// ExportHandler streams ledger ranges as .xlsx downloads.
type ExportHandler struct {
	exporter WorkbookExporter
	clock    clock.Clock
	logger   *zap.Logger
}

// NewExportHandler constructs the HTTP handler adapter.
func NewExportHandler(exporter WorkbookExporter, clk clock.Clock, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exporter: exporter, clock: clk, logger: logger}
}

// Workbook serves ?start=&end=, defaulting to the last ten days.
func (h *ExportHandler) Workbook(c *gin.Context) {
	start, end, isRange, err := rangeQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !isRange {
		start, end = h.clock.DaysAgo(defaultExportDays-1), h.clock.Today()
	}

	f, err := h.exporter.Workbook(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			h.logger.Warn("failed to close workbook", zap.Error(err))
		}
	}()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ledger_%s_%s.xlsx"`, start, end))
	c.Header("Content-Type", export.ContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("failed to stream workbook", zap.Error(err))
	}
}
