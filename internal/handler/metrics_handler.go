package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/service"
)

// MetricsHandler serves the Prometheus scrape endpoint and liveness probe.
type MetricsHandler struct {
	metrics *service.MetricsService
}

func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Prometheus exposes the process registry in the text exposition format.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health is the liveness probe. Readiness lives in main where the DB
// handle is in scope.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
