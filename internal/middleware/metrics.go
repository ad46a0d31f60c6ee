package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/metrics"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request latency by route pattern.
func HTTPMetrics() gin.HandlerFunc {
	metrics.Init()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
