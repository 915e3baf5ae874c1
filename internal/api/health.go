package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether the backing store is reachable
type Pinger func(ctx context.Context) error

// HealthHandler answers liveness probes and describes the service
type HealthHandler struct {
	ping    Pinger
	version string
}

func NewHealthHandler(ping Pinger, version string) *HealthHandler {
	return &HealthHandler{ping: ping, version: version}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/", h.Index)
	router.GET("/health", h.HealthCheck)
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
	})
}

// Index describes the API and its routes
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":       "Feedback API",
		"description": "This is a simple feedback form API",
		"version":     h.version,
		"routes": []gin.H{
			{"method": http.MethodGet, "path": "/feedback", "description": "List all feedback, oldest first"},
			{"method": http.MethodPost, "path": "/feedback", "description": "Submit feedback"},
			{"method": http.MethodGet, "path": "/feedback/{id}", "description": "Get feedback by id"},
			{"method": http.MethodPut, "path": "/feedback/{id}", "description": "Update feedback by id"},
			{"method": http.MethodDelete, "path": "/feedback/{id}", "description": "Delete feedback by id"},
			{"method": http.MethodGet, "path": "/health", "description": "Database health check"},
		},
	})
}
