package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-spark/events-api/internal/service"
)

// Metrics records one duration/count observation per request, labeled by the
// route template so event ids do not explode label cardinality.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
