package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports process and store liveness.
type HealthHandler struct {
	store *redis.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *redis.Client) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health pings the key-value store and reports overall status
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "ok"})
}
