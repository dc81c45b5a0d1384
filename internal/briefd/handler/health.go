package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thrust-io/briefd/internal/briefd/metrics"
)

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Metrics exposes service counters in Prometheus text format.
func (h *Handler) Metrics(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(metrics.Get().Export("briefd")))
}
