package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/djdeck-go/api/handlers"
	"github.com/yourusername/djdeck-go/api/middleware"
	"github.com/yourusername/djdeck-go/internal/app"
	"github.com/yourusername/djdeck-go/internal/domain"
)

// SetupRouter sets up the HTTP router
func SetupRouter(
	searchSvc *app.SearchService,
	downloadSvc *app.DownloadService,
	limits domain.SearchConfig,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	// Service banner and capability endpoints
	platformHandler := handlers.NewPlatformHandler(searchSvc)
	router.GET("/", platformHandler.Root)
	router.GET("/platforms", platformHandler.Platforms)

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(searchSvc)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		searchHandler := handlers.NewSearchHandler(searchSvc, limits, log)
		v1.GET("/search", searchHandler.SearchAll)
		v1.GET("/search/:platform", searchHandler.SearchPlatform)

		trackHandler := handlers.NewTrackHandler(searchSvc, log)
		v1.GET("/track/:source/:id", trackHandler.GetTrack)

		downloadHandler := handlers.NewDownloadHandler(downloadSvc, log)
		v1.POST("/download", downloadHandler.Download)
		v1.GET("/download/:source/:id", downloadHandler.DownloadByID)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
