package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/djdeck-go/internal/app"
	"github.com/yourusername/djdeck-go/internal/domain"
)

// TrackHandler handles single-track lookup requests
type TrackHandler struct {
	searchSvc *app.SearchService
	logger    *zap.Logger
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(searchSvc *app.SearchService, logger *zap.Logger) *TrackHandler {
	return &TrackHandler{
		searchSvc: searchSvc,
		logger:    logger,
	}
}

// GetTrack handles GET /api/v1/track/:source/:id
func (h *TrackHandler) GetTrack(c *gin.Context) {
	source, err := domain.ParsePlatformSource(c.Param("source"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	track, err := h.searchSvc.GetTrack(c.Request.Context(), source, c.Param("id"))
	if err != nil {
		c.JSON(statusForKind(domain.KindOf(err)), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, track)
}

// statusForKind maps adapter error kinds onto HTTP statuses.
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindMalformedID:
		return http.StatusBadRequest
	case domain.KindUnsupported:
		return http.StatusBadRequest
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
