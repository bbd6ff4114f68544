package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/service/reporting"
)

const defaultSummaryDays = 10

// ReportService provides the aggregated views.
type ReportService interface {
	Dashboard(ctx context.Context) (reporting.Dashboard, error)
	Summary(ctx context.Context, start, end string) (reporting.Summary, error)
	SummaryForDays(ctx context.Context, days int) (reporting.Summary, error)
	Products(ctx context.Context, sortBy string, descending bool) (reporting.Rollup[reporting.ProductRow], error)
	Customers(ctx context.Context, sortBy string, descending bool) (reporting.Rollup[reporting.CustomerRow], error)
	DailyReport(ctx context.Context, date string) (models.DailyReport, error)
}

// ReportHandler serves dashboards and rollups.
type ReportHandler struct {
	svc    ReportService
	clock  clock.Clock
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, clk clock.Clock, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, clock: clk, logger: logger}
}

// Dashboard serves the landing view.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Summary serves ?start=&end= or ?days=N, defaulting to the last ten days.
func (h *ReportHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	start, end, isRange, err := rangeQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var summary reporting.Summary
	if isRange {
		summary, err = h.svc.Summary(ctx, start, end)
	} else {
		days := defaultSummaryDays
		if raw := c.Query("days"); raw != "" {
			days, err = strconv.Atoi(raw)
			if err != nil {
				respondError(c, h.logger, &models.ValidationError{Field: "days", Reason: "must be a whole number"})
				return
			}
		}
		summary, err = h.svc.SummaryForDays(ctx, days)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Products serves the product rollup, ?sort= and ?dir=asc|desc.
func (h *ReportHandler) Products(c *gin.Context) {
	descending, err := direction(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	rollup, err := h.svc.Products(c.Request.Context(), c.Query("sort"), descending)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rollup)
}

// Customers serves the customer rollup, ?sort= and ?dir=asc|desc.
func (h *ReportHandler) Customers(c *gin.Context) {
	descending, err := direction(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	rollup, err := h.svc.Customers(c.Request.Context(), c.Query("sort"), descending)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rollup)
}

// DailyReport serves the snapshot of ?date= (default today).
func (h *ReportHandler) DailyReport(c *gin.Context) {
	date := c.DefaultQuery("date", h.clock.Today())
	if _, err := models.ParseDate(date); err != nil {
		respondError(c, h.logger, err)
		return
	}

	report, err := h.svc.DailyReport(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report": report,
		"text":   reporting.FormatDailyReport(report),
	})
}

func direction(c *gin.Context) (descending bool, err error) {
	switch c.DefaultQuery("dir", "desc") {
	case "desc":
		return true, nil
	case "asc":
		return false, nil
	default:
		return false, &models.ValidationError{Field: "dir", Reason: "must be asc or desc"}
	}
}
