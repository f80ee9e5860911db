package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/service"
)

// Metrics records method, route, status and latency for every request.
// The route template is used when gin knows it, so /tasks/:id stays one
// series instead of one per task.
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
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
