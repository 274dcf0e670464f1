package app

import (
	"context"
	"time"

	"github.com/yourusername/djdeck-go/internal/domain"
)

// stubAdapter is a configurable domain.Adapter double for exercising
// the services without real backends.
type stubAdapter struct {
	source domain.PlatformSource
	caps   domain.Capabilities

	searchTracks []domain.Track
	searchErr    error
	searchDelay  time.Duration
	searchPanic  bool

	track       *domain.Track
	getTrackErr error

	downloadPath string
	downloadErr  error

	bpm    float64
	bpmErr error

	searchCalls   int
	downloadCalls int
	lastDownload  domain.Track
}

func newStubAdapter(source domain.PlatformSource) *stubAdapter {
	return &stubAdapter{
		source: source,
		caps:   domain.Capabilities{Available: true, SupportsDownload: true},
	}
}

func (a *stubAdapter) Source() domain.PlatformSource { return a.source }
func (a *stubAdapter) Capabilities() domain.Capabilities { return a.caps }

func (a *stubAdapter) Search(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	a.searchCalls++
	if a.searchPanic {
		panic("stub adapter panic")
	}
	if a.searchDelay > 0 {
		select {
		case <-time.After(a.searchDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return a.searchTracks, a.searchErr
}

func (a *stubAdapter) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	return a.track, a.getTrackErr
}

func (a *stubAdapter) Download(ctx context.Context, track domain.Track, outputDir string) (string, error) {
	a.downloadCalls++
	a.lastDownload = track
	return a.downloadPath, a.downloadErr
}

func (a *stubAdapter) GetBPM(ctx context.Context, track domain.Track) (float64, error) {
	return a.bpm, a.bpmErr
}
