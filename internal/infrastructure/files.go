package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/djdeck-go/internal/domain"
)

// altExtensions are checked when the expected .mp3 is absent after a
// reported-successful download: the post-processing step can be
// skipped by the tool for sources already in a usable container.
var altExtensions = []string{".opus", ".m4a", ".webm", ".ogg"}

// existingArtifact reports a previously downloaded artifact for the
// given base path, if one exists. This is the idempotence check: the
// key is the sanitized artist+title basename, so repeated requests
// short-circuit without re-fetching. Any extension verifyArtifact
// would have accepted counts, not just .mp3.
func existingArtifact(basePath string) (string, bool) {
	for _, ext := range append([]string{".mp3"}, altExtensions...) {
		path := basePath + ext
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// verifyArtifact locates the produced artifact after the tool reports
// completion and rejects implausibly small files. Absence or
// truncation is a local I/O failure.
func verifyArtifact(source domain.PlatformSource, basePath string, minBytes int64) (string, error) {
	final := basePath + ".mp3"

	path := ""
	if info, err := os.Stat(final); err == nil {
		if info.Size() < minBytes {
			os.Remove(final)
			return "", domain.Errf(domain.KindLocalIO, source, "download",
				"artifact too small (%d bytes): %s", info.Size(), final)
		}
		path = final
	} else {
		for _, ext := range altExtensions {
			alt := basePath + ext
			if info, err := os.Stat(alt); err == nil && info.Size() >= minBytes {
				path = alt
				break
			}
		}
	}

	if path == "" {
		return "", domain.Errf(domain.KindLocalIO, source, "download",
			"artifact not created: %s", final)
	}
	return path, nil
}

// downloadViaRunner is the shared download path for the adapters that
// fetch through the media runner: deterministic artifact naming,
// idempotent short-circuit, fetch, then verification.
func downloadViaRunner(ctx context.Context, runner MediaRunner, source domain.PlatformSource, track domain.Track, target, outputDir string, minBytes int64) (string, error) {
	if target == "" {
		return "", domain.Errf(domain.KindMalformedID, source, "download", "track has no URL")
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", domain.WrapErr(domain.KindLocalIO, source, "download",
			fmt.Errorf("create output directory: %w", err))
	}

	basePath := filepath.Join(outputDir, domain.ArtifactBase(track.Artist, track.Title))
	if path, ok := existingArtifact(basePath); ok {
		return path, nil
	}

	if err := runner.DownloadAudio(ctx, target, basePath); err != nil {
		return "", domain.WrapErr(domain.KindRemote, source, "download", err)
	}

	return verifyArtifact(source, basePath, minBytes)
}
