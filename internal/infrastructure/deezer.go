package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/yourusername/djdeck-go/internal/domain"
)

const (
	deezerSearchMax = 100
	// deezerEnrichWorkers bounds the concurrent per-track tempo
	// lookups issued after a search; Deezer has no batch endpoint.
	deezerEnrichWorkers = 5
)

// DeezerAdapter talks to the public Deezer JSON API. Search and track
// lookup need no credentials, so the adapter is always available.
// Tempo comes from the track endpoint, one lookup per track, attached
// best-effort under the soft tempo budget.
type DeezerAdapter struct {
	baseURL      string
	client       *http.Client
	tempoTimeout time.Duration
	runner       MediaRunner
	minBytes     int64
}

// NewDeezerAdapter creates a new Deezer adapter. Downloads delegate to
// the media runner with a synthesized search, which is how the
// platform produces audio despite having no download API.
func NewDeezerAdapter(cfg domain.DeezerConfig, runner MediaRunner, tempoTimeout time.Duration, minArtifactBytes int64) *DeezerAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.deezer.com"
	}
	return &DeezerAdapter{
		baseURL:      baseURL,
		client:       &http.Client{},
		tempoTimeout: tempoTimeout,
		runner:       runner,
		minBytes:     minArtifactBytes,
	}
}

func (a *DeezerAdapter) Source() domain.PlatformSource {
	return domain.SourceDeezer
}

func (a *DeezerAdapter) Capabilities() domain.Capabilities {
	return domain.Capabilities{
		Available:        true,
		SupportsDownload: true,
		SupportsBPM:      true,
	}
}

// deezerTrack is the track payload shape shared by the search and
// track endpoints. Search results omit bpm; full lookups carry it.
type deezerTrack struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Link     string  `json:"link"`
	Duration int     `json:"duration"`
	BPM      float64 `json:"bpm"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		CoverXL  string `json:"cover_xl"`
		CoverBig string `json:"cover_big"`
	} `json:"album"`
}

type deezerSearchResponse struct {
	Data []deezerTrack `json:"data"`
}

// Search queries the public search endpoint and enriches results with
// tempo, best-effort.
func (a *DeezerAdapter) Search(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	query = cleanQuery(query)
	if query == "" {
		return nil, nil
	}
	limit = clampLimit(limit, deezerSearchMax)

	endpoint := fmt.Sprintf("%s/search?q=%s&limit=%d", a.baseURL, url.QueryEscape(query), limit)

	var resp deezerSearchResponse
	if err := a.getJSON(ctx, "search", endpoint, &resp); err != nil {
		return nil, err
	}

	tracks := make([]domain.Track, 0, len(resp.Data))
	nativeIDs := make([]string, 0, len(resp.Data))
	for _, item := range resp.Data {
		if item.ID == 0 || item.Title == "" {
			continue
		}
		tracks = append(tracks, a.parseTrack(item))
		nativeIDs = append(nativeIDs, fmt.Sprintf("%d", item.ID))
	}

	a.enrichTempo(ctx, tracks, nativeIDs)
	return tracks, nil
}

// GetTrack accepts a namespaced "dz_" id or a bare numeric id.
func (a *DeezerAdapter) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	native, err := a.nativeID(id, "get_track")
	if err != nil {
		return nil, err
	}

	var item deezerTrack
	if err := a.getJSON(ctx, "get_track", a.baseURL+"/track/"+native, &item); err != nil {
		return nil, err
	}
	if item.ID == 0 {
		// Deezer answers unknown ids with 200 and an error body.
		return nil, domain.Errf(domain.KindNotFound, a.Source(), "get_track", "track not found: %s", native)
	}

	track := a.parseTrack(item)
	if item.BPM > 0 {
		track.BPM = item.BPM
	}
	return &track, nil
}

// Download produces audio for a Deezer track by delegating to the
// media runner with a search synthesized from artist and title.
func (a *DeezerAdapter) Download(ctx context.Context, track domain.Track, outputDir string) (string, error) {
	target := fmt.Sprintf("ytsearch1:%s %s", track.Artist, track.Title)
	return downloadViaRunner(ctx, a.runner, a.Source(), track, target, outputDir, a.minBytes)
}

// GetBPM fetches the track's tempo from the track endpoint. A missing
// or non-positive remote value is reported as unknown, not an error.
func (a *DeezerAdapter) GetBPM(ctx context.Context, track domain.Track) (float64, error) {
	native, err := a.nativeID(track.ID, "get_bpm")
	if err != nil {
		return 0, err
	}
	return a.fetchTempo(ctx, native), nil
}

// enrichTempo attaches tempo to search results with bounded
// concurrency under the soft budget. Failures leave BPM absent.
func (a *DeezerAdapter) enrichTempo(ctx context.Context, tracks []domain.Track, nativeIDs []string) {
	if len(tracks) == 0 {
		return
	}

	tempoCtx, cancel := context.WithTimeout(ctx, a.tempoTimeout)
	defer cancel()

	sem := make(chan struct{}, deezerEnrichWorkers)
	var wg sync.WaitGroup
	for i := range tracks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-tempoCtx.Done():
				return
			}
			if bpm := a.fetchTempo(tempoCtx, nativeIDs[i]); bpm > 0 {
				tracks[i].BPM = bpm
			}
		}(i)
	}
	wg.Wait()
}

// fetchTempo is the best-effort single tempo lookup: any failure is
// reported as unknown.
func (a *DeezerAdapter) fetchTempo(ctx context.Context, nativeID string) float64 {
	var item deezerTrack
	if err := a.getJSON(ctx, "tempo", a.baseURL+"/track/"+nativeID, &item); err != nil {
		return 0
	}
	if item.BPM <= 0 {
		return 0
	}
	return item.BPM
}

// nativeID strips the namespace prefix and validates the numeric id
// shape before any remote call.
func (a *DeezerAdapter) nativeID(id, op string) (string, error) {
	id = decodeID(id)
	if id == "" {
		return "", domain.Errf(domain.KindMalformedID, a.Source(), op, "empty track id")
	}
	native := id
	if domain.HasPrefix(id, a.Source()) {
		native = domain.NativeID(id)
	}
	if !isNumeric(native) {
		return "", domain.Errf(domain.KindMalformedID, a.Source(), op, "invalid deezer id: %q", native)
	}
	return native, nil
}

// getJSON issues a GET bound to ctx and decodes the JSON body.
func (a *DeezerAdapter) getJSON(ctx context.Context, op, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.WrapErr(domain.KindRemote, a.Source(), op, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return domain.WrapErr(domain.KindRemote, a.Source(), op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Errf(domain.KindNotFound, a.Source(), op, "not found")
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Errf(domain.KindRemote, a.Source(), op, "unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapErr(domain.KindRemote, a.Source(), op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (a *DeezerAdapter) parseTrack(item deezerTrack) domain.Track {
	artist := item.Artist.Name
	if artist == "" {
		artist = "Unknown Artist"
	}
	artwork := item.Album.CoverXL
	if artwork == "" {
		artwork = item.Album.CoverBig
	}
	return domain.Track{
		ID:         domain.GenerateID(a.Source(), fmt.Sprintf("%d", item.ID)),
		Title:      item.Title,
		Artist:     artist,
		Source:     a.Source(),
		URL:        item.Link,
		Duration:   item.Duration,
		ArtworkURL: artwork,
	}
}
