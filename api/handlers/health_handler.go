package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/djdeck-go/internal/app"
)

// Version is the service version reported by the root and health
// endpoints.
const Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	searchSvc *app.SearchService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(searchSvc *app.SearchService) *HealthHandler {
	return &HealthHandler{
		searchSvc: searchSvc,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Platforms []string `json:"platforms"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	platforms := make([]string, 0)
	for _, source := range h.searchSvc.AvailableSources() {
		platforms = append(platforms, string(source))
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   Version,
		Platforms: platforms,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if len(h.searchSvc.AvailableSources()) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "no platform available",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
