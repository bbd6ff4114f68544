package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/service/reporting"
)

// LedgerService is the write side used by the HTTP layer.
type LedgerService interface {
	AddSale(ctx context.Context, in models.SaleInput) (models.Sale, error)
	AddPurchase(ctx context.Context, in models.PurchaseInput) (models.Purchase, error)
	DeleteSale(ctx context.Context, id string) error
	DeletePurchase(ctx context.Context, id string) error
}

// RecordViews lists records for a day or a range.
type RecordViews interface {
	SalesOn(ctx context.Context, date string) (reporting.SalesDay, error)
	SalesBetween(ctx context.Context, start, end string) (reporting.RangeList[models.Sale], error)
	PurchasesOn(ctx context.Context, date string) (reporting.PurchasesDay, error)
	PurchasesBetween(ctx context.Context, start, end string) (reporting.RangeList[reporting.PurchaseLine], error)
	PurchaseRollup(ctx context.Context, start, end string) (reporting.PurchaseRollup, error)
}

// LedgerHandler serves sales and purchases.
type LedgerHandler struct {
	ledger LedgerService
	views  RecordViews
	clock  clock.Clock
	logger *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(ledger LedgerService, views RecordViews, clk clock.Clock, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{ledger: ledger, views: views, clock: clk, logger: logger}
}

// CreateSale records a sale.
func (h *LedgerHandler) CreateSale(c *gin.Context) {
	var in models.SaleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid sale payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sale, err := h.ledger.AddSale(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// ListSales serves ?date= (default today) or ?start=&end=.
func (h *LedgerHandler) ListSales(c *gin.Context) {
	ctx := c.Request.Context()

	start, end, isRange, err := rangeQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if isRange {
		list, err := h.views.SalesBetween(ctx, start, end)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	day, err := h.views.SalesOn(ctx, c.DefaultQuery("date", h.clock.Today()))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// DeleteSale removes a sale by id.
func (h *LedgerHandler) DeleteSale(c *gin.Context) {
	if err := h.ledger.DeleteSale(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreatePurchase records a purchase.
func (h *LedgerHandler) CreatePurchase(c *gin.Context) {
	var in models.PurchaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid purchase payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	purchase, err := h.ledger.AddPurchase(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

// ListPurchases serves ?date= (default today) or ?start=&end=.
func (h *LedgerHandler) ListPurchases(c *gin.Context) {
	ctx := c.Request.Context()

	start, end, isRange, err := rangeQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if isRange {
		list, err := h.views.PurchasesBetween(ctx, start, end)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	day, err := h.views.PurchasesOn(ctx, c.DefaultQuery("date", h.clock.Today()))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// DeletePurchase removes a purchase by id.
func (h *LedgerHandler) DeletePurchase(c *gin.Context) {
	if err := h.ledger.DeletePurchase(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PurchaseRollup rolls purchases up by product; the range defaults to the
// trailing ten days.
func (h *LedgerHandler) PurchaseRollup(c *gin.Context) {
	start, end, isRange, err := rangeQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !isRange {
		start, end = h.clock.DaysAgo(9), h.clock.Today()
	}

	rollup, err := h.views.PurchaseRollup(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rollup)
}

// rangeQuery reads start and end; both or neither must be present.
func rangeQuery(c *gin.Context) (start, end string, ok bool, err error) {
	start, end = c.Query("start"), c.Query("end")
	switch {
	case start == "" && end == "":
		return "", "", false, nil
	case start == "":
		return "", "", false, &models.ValidationError{Field: "start", Reason: "is required with end"}
	case end == "":
		return "", "", false, &models.ValidationError{Field: "end", Reason: "is required with start"}
	}
	return start, end, true, nil
}
