package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's prometheus collectors.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	SalesCreated       prometheus.Counter
	SaleTransitions    *prometheus.CounterVec
	InvalidTransitions prometheus.Counter
	ContactCacheHits   prometheus.Counter
	ContactCacheMisses prometheus.Counter
	AccountingPushes   *prometheus.CounterVec
}

// New registers and returns the collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealdesk_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dealdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		SalesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealdesk_sales_created_total",
			Help: "Sales created.",
		}),
		SaleTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealdesk_sale_transitions_total",
			Help: "Accepted deal lifecycle transitions by target status.",
		}, []string{"to"}),
		InvalidTransitions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealdesk_sale_invalid_transitions_total",
			Help: "Rejected deal lifecycle transitions.",
		}),
		ContactCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealdesk_contact_cache_hits_total",
			Help: "Contact cache hits.",
		}),
		ContactCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealdesk_contact_cache_misses_total",
			Help: "Contact cache misses.",
		}),
		AccountingPushes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealdesk_accounting_pushes_total",
			Help: "Best-effort pushes to the accounting platform by outcome.",
		}, []string{"outcome"}),
	}
}

// GinMiddleware records request counters and latency.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
