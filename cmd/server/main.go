package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/djdeck-go/api"
	"github.com/yourusername/djdeck-go/internal/app"
	"github.com/yourusername/djdeck-go/internal/infrastructure"
	"github.com/yourusername/djdeck-go/pkg/logger"
	"github.com/yourusername/djdeck-go/pkg/workerpool"
)

var configPath = flag.String("config", "", "Path to config file")

func main() {
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting djdeck server",
		zap.String("version", "1.0.0"),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("output_dir", config.Download.OutputDir))

	if err := os.MkdirAll(config.Download.OutputDir, 0755); err != nil {
		log.Fatal("Failed to create output directory", zap.Error(err))
	}

	// One pool bounds every subprocess invocation across all adapters.
	pool := workerpool.New(config.Worker.PoolSize)
	runner := infrastructure.NewYTDLPRunner("yt-dlp", pool, log)

	registry, err := app.NewRegistry(
		infrastructure.NewSoundCloudAdapter(runner, config.Download.MinArtifactBytes),
		infrastructure.NewSpotifyAdapter(config.Spotify, config.Timeouts.Tempo),
		infrastructure.NewDeezerAdapter(config.Deezer, runner, config.Timeouts.Tempo, config.Download.MinArtifactBytes),
		infrastructure.NewYouTubeAdapter(runner, config.Download.MinArtifactBytes),
	)
	if err != nil {
		log.Fatal("Failed to build adapter registry", zap.Error(err))
	}

	searchSvc := app.NewSearchService(registry, config.Timeouts, log)
	downloadSvc := app.NewDownloadService(registry, config.Download.OutputDir, config.Timeouts, log)
	downloadSvc.SetNotifier(infrastructure.NewNotificationService(&config.Notification, log))

	router := api.SetupRouter(searchSvc, downloadSvc, config.Search, log)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr),
			zap.Strings("platforms", platformNames(registry)))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func platformNames(registry *app.Registry) []string {
	var names []string
	for _, source := range registry.AvailableSources() {
		names = append(names, string(source))
	}
	return names
}
