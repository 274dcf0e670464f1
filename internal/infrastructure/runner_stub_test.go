package infrastructure

import (
	"context"
	"os"
	"path/filepath"
)

// stubRunner is a MediaRunner double that records calls and serves
// canned results, so adapter behavior can be exercised without
// spawning processes.
type stubRunner struct {
	flatEntries []MediaEntry
	flatErr     error
	entry       *MediaEntry
	extractErr  error
	downloadErr error

	// artifactExt, when set, makes DownloadAudio create a file at
	// basePath + artifactExt with artifactBody as contents.
	artifactExt  string
	artifactBody []byte

	flatCalls     int
	extractCalls  int
	downloadCalls int

	lastTarget   string
	lastBasePath string
}

func (s *stubRunner) ExtractFlat(ctx context.Context, target string) ([]MediaEntry, error) {
	s.flatCalls++
	s.lastTarget = target
	return s.flatEntries, s.flatErr
}

func (s *stubRunner) Extract(ctx context.Context, target string) (*MediaEntry, error) {
	s.extractCalls++
	s.lastTarget = target
	return s.entry, s.extractErr
}

func (s *stubRunner) DownloadAudio(ctx context.Context, target, basePath string) error {
	s.downloadCalls++
	s.lastTarget = target
	s.lastBasePath = basePath
	if s.downloadErr != nil {
		return s.downloadErr
	}
	if s.artifactExt != "" {
		if err := os.MkdirAll(filepath.Dir(basePath), 0755); err != nil {
			return err
		}
		return os.WriteFile(basePath+s.artifactExt, s.artifactBody, 0644)
	}
	return nil
}
