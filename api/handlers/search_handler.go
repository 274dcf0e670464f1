package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/djdeck-go/internal/app"
	"github.com/yourusername/djdeck-go/internal/domain"
)

// singlePlatformDefaultLimit is the default result count for
// single-platform searches, which skip the aggregate default.
const singlePlatformDefaultLimit = 20

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchSvc *app.SearchService
	limits    domain.SearchConfig
	logger    *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchSvc *app.SearchService, limits domain.SearchConfig, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchSvc: searchSvc,
		limits:    limits,
		logger:    logger,
	}
}

// SearchAll handles GET /api/v1/search
func (h *SearchHandler) SearchAll(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit, err := h.parseLimit(c.Query("limit"), h.limits.DefaultLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var subset []string
	if platforms := strings.TrimSpace(c.Query("platforms")); platforms != "" {
		subset = strings.Split(platforms, ",")
	}

	results, err := h.searchSvc.SearchAll(c.Request.Context(), query, limit, subset)
	if err != nil {
		// Subset resolution failure is the caller's mistake.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.SearchResponse{
		Query:        query,
		TotalResults: len(results),
		Results:      results,
	})
}

// SearchPlatform handles GET /api/v1/search/:platform
func (h *SearchHandler) SearchPlatform(c *gin.Context) {
	source, err := domain.ParsePlatformSource(c.Param("platform"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit, err := h.parseLimit(c.Query("limit"), singlePlatformDefaultLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.searchSvc.SearchPlatform(c.Request.Context(), query, source, limit)

	c.JSON(http.StatusOK, domain.SearchResponse{
		Query:        query,
		TotalResults: len(results),
		Results:      results,
	})
}

// parseLimit parses the limit query parameter, bounding it to
// 1..MaxLimit.
func (h *SearchHandler) parseLimit(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errInvalidLimit
	}
	if limit > h.limits.MaxLimit {
		limit = h.limits.MaxLimit
	}
	return limit, nil
}

var errInvalidLimit = errors.New("limit must be a positive integer")
