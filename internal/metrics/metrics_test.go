package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/meatledger/internal/domain/models"
)

func TestMiddlewareCountsRequestsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/sales/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/api/sales/1", "/api/sales/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/sales/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "meatledger_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRecordCounters(t *testing.T) {
	m := New()

	m.RecordAdded(models.KindSale, models.Amounts{Weight: 2, Cost: 100, Selling: 150, Profit: 50})
	m.RecordAdded(models.KindPurchase, models.Amounts{Weight: 10, Cost: 1000})
	m.RecordAdded(models.KindSale, models.Amounts{Weight: -1, Cost: 10, Selling: 5})
	m.RecordDeleted(models.KindSale)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recorded.WithLabelValues("sale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recorded.WithLabelValues("purchase")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deleted.WithLabelValues("sale")))
	assert.Equal(t, 155.0, testutil.ToFloat64(m.amounts.WithLabelValues("sale", "selling")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.amounts.WithLabelValues("sale", "weight")))
	assert.Equal(t, 1000.0, testutil.ToFloat64(m.amounts.WithLabelValues("purchase", "cost")))
}
