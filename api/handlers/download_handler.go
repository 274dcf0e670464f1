package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/djdeck-go/internal/app"
	"github.com/yourusername/djdeck-go/internal/domain"
)

// DownloadHandler handles download-related HTTP requests
type DownloadHandler struct {
	downloadSvc *app.DownloadService
	logger      *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(downloadSvc *app.DownloadService, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		downloadSvc: downloadSvc,
		logger:      logger,
	}
}

// DownloadRequest represents a request to download a track. TrackID
// may be a namespaced id, a native id, or (for URL-driven platforms) a
// full URL; URL is accepted as an alias for callers that only have one.
type DownloadRequest struct {
	Source  string `json:"source" binding:"required"`
	TrackID string `json:"track_id,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Download handles POST /api/v1/download
func (h *DownloadHandler) Download(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source, err := domain.ParsePlatformSource(req.Source)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trackID := req.TrackID
	if trackID == "" {
		trackID = req.URL
	}
	if trackID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "track_id or url is required"})
		return
	}

	h.respond(c, h.downloadSvc.Download(c.Request.Context(), source, trackID))
}

// DownloadByID handles GET /api/v1/download/:source/:id
func (h *DownloadHandler) DownloadByID(c *gin.Context) {
	source, err := domain.ParsePlatformSource(c.Param("source"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, h.downloadSvc.Download(c.Request.Context(), source, c.Param("id")))
}

// respond writes the terminal download result: 200 on ready, 500 with
// the reason on error.
func (h *DownloadHandler) respond(c *gin.Context, result domain.DownloadResult) {
	if result.Status == domain.DownloadError {
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
