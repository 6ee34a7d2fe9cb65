package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/compapol/observability"
)

// GinMetrics records request count, latency and in-flight requests per
// route template. Unmatched paths are grouped under "unmatched".
func GinMetrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		m.RecordRequestStart(ctx)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequestEnd(ctx, route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
