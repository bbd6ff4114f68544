// Package metrics exposes Prometheus collectors for the HTTP surface and the ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mamadbah2/meatledger/internal/domain/models"
)

const namespace = "meatledger"

// Metrics owns a private registry so tests and multiple instances never collide.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	recorded *prometheus.CounterVec
	deleted  *prometheus.CounterVec
	amounts  *prometheus.CounterVec
}

// New registers every collector, including Go runtime and process metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		recorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Sales and purchases recorded.",
		}, []string{"kind"}),
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
			Help:      "Sales and purchases deleted.",
		}, []string{"kind"}),
		amounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recorded_amount_total",
			Help:      "Summed money amounts of recorded entries by kind and field.",
		}, []string{"kind", "field"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.recorded,
		m.deleted,
		m.amounts,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency. Unmatched routes share one label.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordAdded counts a stored entry and its amounts.
func (m *Metrics) RecordAdded(kind models.RecordKind, amounts models.Amounts) {
	k := string(kind)
	m.recorded.WithLabelValues(k).Inc()
	m.amounts.WithLabelValues(k, "cost").Add(nonNegative(amounts.Cost))
	m.amounts.WithLabelValues(k, "weight").Add(nonNegative(amounts.Weight))
	if kind == models.KindSale {
		m.amounts.WithLabelValues(k, "selling").Add(nonNegative(amounts.Selling))
	}
}

// RecordDeleted counts a removed entry.
func (m *Metrics) RecordDeleted(kind models.RecordKind) {
	m.deleted.WithLabelValues(string(kind)).Inc()
}

// counters panic on negative increments
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
