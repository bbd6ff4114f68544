package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/metrics"
	"github.com/mamadbah2/meatledger/internal/server/handlers"
	"github.com/mamadbah2/meatledger/pkg/logger"
)

// Handlers groups the HTTP adapters. Chat is nil when WhatsApp is not
// configured and Metrics is nil when METRICS_ENABLED is off.
type Handlers struct {
	Ledger  *handlers.LedgerHandler
	Reports *handlers.ReportHandler
	Export  *handlers.ExportHandler
	Chat    *handlers.ChatHandler
	Metrics *metrics.Metrics
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, log *zap.Logger) *gin.Engine {
	log = logger.OrNop(log)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(log))
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/sales", h.Ledger.CreateSale)
		api.GET("/sales", h.Ledger.ListSales)
		api.DELETE("/sales/:id", h.Ledger.DeleteSale)

		api.POST("/purchases", h.Ledger.CreatePurchase)
		api.GET("/purchases", h.Ledger.ListPurchases)
		api.GET("/purchases/rollup", h.Ledger.PurchaseRollup)
		api.DELETE("/purchases/:id", h.Ledger.DeletePurchase)

		api.GET("/dashboard", h.Reports.Dashboard)
		api.GET("/summary", h.Reports.Summary)
		api.GET("/products", h.Reports.Products)
		api.GET("/customers", h.Reports.Customers)
		api.GET("/reports/daily", h.Reports.DailyReport)

		if h.Export != nil {
			api.GET("/export", h.Export.Workbook)
		}
	}

	if h.Chat != nil {
		r.GET("/webhook", h.Chat.Verify)
		r.POST("/webhook", h.Chat.Receive)
		r.POST("/send-message", h.Chat.SendMessage)
		api.POST("/reports/daily/send", h.Chat.SendDailyReport)
	} else {
		log.Info("whatsapp routes disabled")
	}

	log.Info("router initialized")
	return r
}

func zapLoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
