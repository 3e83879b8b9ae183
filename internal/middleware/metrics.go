package middleware

import (
	"strconv"
	"time"

	"github.com/clinicore/clinic-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request counts, latency, and in-flight gauge per route
// template. Unmatched routes are grouped under "unmatched" to keep the label
// cardinality bounded.
func Metrics(m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlightGauge.Inc()

		c.Next()

		m.InFlightGauge.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
