package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/djdeck-go/internal/app"
)

// PlatformHandler serves the service banner and platform capability
// descriptors.
type PlatformHandler struct {
	searchSvc *app.SearchService
}

// NewPlatformHandler creates a new platform handler
func NewPlatformHandler(searchSvc *app.SearchService) *PlatformHandler {
	return &PlatformHandler{
		searchSvc: searchSvc,
	}
}

// Root handles GET /
func (h *PlatformHandler) Root(c *gin.Context) {
	platforms := make([]string, 0)
	for _, source := range h.searchSvc.AvailableSources() {
		platforms = append(platforms, string(source))
	}

	c.JSON(http.StatusOK, gin.H{
		"service":   "djdeck",
		"version":   Version,
		"platforms": platforms,
	})
}

// Platforms handles GET /platforms
func (h *PlatformHandler) Platforms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"platforms": h.searchSvc.Capabilities(),
	})
}
