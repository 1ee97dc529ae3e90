package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-spark/events-api/internal/service"
	"github.com/campus-spark/events-api/internal/store"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	kv      store.KV
}

// NewMetricsHandler constructs a metrics handler. The store is probed by the
// readiness endpoint.
func NewMetricsHandler(metrics *service.MetricsService, kv store.KV) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, kv: kv}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready probes the backing store. A missing probe key still means the store
// answered, so it counts as ready.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.kv != nil {
		if _, err := h.kv.Get(c.Request.Context(), "readiness_probe"); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
