package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/yourusername/djdeck-go/internal/domain"
)

// DownloadService orchestrates download requests: resolve the track
// through its owning adapter, pick direct download or the fallback
// path, verify the artifact, and return a terminal result. It blocks
// until terminal; no intermediate state is observable and no retries
// happen at this layer.
type DownloadService struct {
	registry  *Registry
	outputDir string
	timeouts  domain.TimeoutConfig
	notifier  Notifier
	logger    *zap.Logger
}

// Notifier receives a message when a download reaches a terminal
// state. Optional; a nil notifier is skipped.
type Notifier interface {
	Send(title, message string) error
}

// FallbackSource is the platform used to synthesize downloads for
// metadata-only backends: the general-purpose video/audio search
// service.
const FallbackSource = domain.SourceYouTube

// NewDownloadService creates a new download service
func NewDownloadService(registry *Registry, outputDir string, timeouts domain.TimeoutConfig, logger *zap.Logger) *DownloadService {
	return &DownloadService{
		registry:  registry,
		outputDir: outputDir,
		timeouts:  timeouts,
		logger:    logger,
	}
}

// SetNotifier installs a terminal-state notifier.
func (s *DownloadService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Download runs the request to a terminal DownloadResult. Adapter
// errors at any stage are caught here and reported as an error result
// carrying the message; they are never surfaced as faults.
func (s *DownloadService) Download(ctx context.Context, source domain.PlatformSource, trackID string) domain.DownloadResult {
	adapter, ok := s.registry.Get(source)
	if !ok {
		return errorResult("platform %s not available", source)
	}

	// Resolving: fetch metadata through the owning adapter. NotFound
	// terminates; no substitute track is ever silently used.
	trackCtx, cancel := context.WithTimeout(ctx, s.timeouts.Track)
	track, err := adapter.GetTrack(trackCtx, trackID)
	cancel()
	if err != nil {
		s.logger.Warn("download resolve failed",
			zap.String("platform", string(source)),
			zap.String("track_id", trackID),
			zap.Error(err))
		return errorResult("%s", reasonOf(err))
	}

	downloadCtx, cancel := context.WithTimeout(ctx, s.timeouts.Download)
	defer cancel()

	var filepath string
	if adapter.Capabilities().SupportsDownload {
		filepath, err = adapter.Download(downloadCtx, *track, s.outputDir)
	} else {
		filepath, err = s.fallbackDownload(downloadCtx, *track)
	}
	if err != nil {
		s.logger.Error("download failed",
			zap.String("platform", string(source)),
			zap.String("track_id", track.ID),
			zap.String("kind", string(domain.KindOf(err))),
			zap.Error(err))
		return errorResult("%s", reasonOf(err))
	}

	// Verifying: the artifact must exist on the returned path. An
	// unexpected absence is a local I/O failure, never silently
	// retried.
	if _, statErr := os.Stat(filepath); statErr != nil {
		s.logger.Error("artifact missing after download",
			zap.String("filepath", filepath),
			zap.Error(statErr))
		return errorResult("artifact not created: %s", filepath)
	}

	s.logger.Info("download ready",
		zap.String("platform", string(source)),
		zap.String("track_id", track.ID),
		zap.String("filepath", filepath))

	if s.notifier != nil {
		if err := s.notifier.Send("Download ready",
			fmt.Sprintf("%s - %s", track.Artist, track.Title)); err != nil {
			s.logger.Warn("notification failed", zap.Error(err))
		}
	}

	return domain.DownloadResult{
		Status:   domain.DownloadReady,
		Filepath: filepath,
		Track:    track,
	}
}

// fallbackDownload routes a metadata-only platform's track through the
// fallback adapter using a query synthesized from artist and title.
// The caller still reports the original track's metadata, so
// provenance is preserved even though the bytes come from elsewhere.
func (s *DownloadService) fallbackDownload(ctx context.Context, track domain.Track) (string, error) {
	fallback, ok := s.registry.Get(FallbackSource)
	if !ok {
		return "", domain.Errf(domain.KindUnavailable, FallbackSource, "download", "fallback platform not registered")
	}
	if !fallback.Capabilities().SupportsDownload {
		return "", domain.Errf(domain.KindUnsupported, FallbackSource, "download", "fallback platform cannot download")
	}

	s.logger.Info("falling back for download",
		zap.String("origin", string(track.Source)),
		zap.String("fallback", string(FallbackSource)),
		zap.String("artist", track.Artist),
		zap.String("title", track.Title))

	synthetic := domain.Track{
		ID:     track.ID,
		Title:  track.Title,
		Artist: track.Artist,
		Source: FallbackSource,
		URL:    fmt.Sprintf("ytsearch1:%s %s", track.Artist, track.Title),
		BPM:    track.BPM,
	}
	return fallback.Download(ctx, synthetic, s.outputDir)
}

// reasonOf turns an adapter error into the human-readable reason
// carried by an error result.
func reasonOf(err error) string {
	if domain.IsKind(err, domain.KindNotFound) {
		return "track not found"
	}
	return err.Error()
}

func errorResult(format string, args ...interface{}) domain.DownloadResult {
	return domain.DownloadResult{
		Status: domain.DownloadError,
		Error:  fmt.Sprintf(format, args...),
	}
}
