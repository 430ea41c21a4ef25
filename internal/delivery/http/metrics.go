package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of the product search handler
	searchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopscout_search_latency_seconds",
		Help:    "Latency of product search requests",
		Buckets: prometheus.DefBuckets,
	})

	// Total search requests by response status
	searchRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopscout_search_requests_total",
		Help: "Total product search requests by status code",
	}, []string{"status"})
)

// RegisterMetrics registers the delivery metrics with the default registry.
// Call once at startup.
func RegisterMetrics() {
	prometheus.MustRegister(
		searchLatency,
		searchRequests,
	)
}

// MetricsMiddleware records latency and status for search requests
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		searchLatency.Observe(time.Since(start).Seconds())
		searchRequests.WithLabelValues(strconv.Itoa(c.Writer.Status())).Inc()
	}
}
