package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/yourusername/djdeck-go/internal/domain"
)

const (
	spotifyAPIBase   = "https://api.spotify.com/v1"
	spotifyTokenURL  = "https://accounts.spotify.com/api/token"
	spotifySearchMax = 50
	spotifyQueryMax  = 250
	// spotifyBatchMax is the audio-features endpoint's id cap.
	spotifyBatchMax = 100
)

// spotifyIDPattern matches the 22-character base62 track id shape.
var spotifyIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{22}$`)

// SpotifyAdapter talks to the Spotify Web API with client-credentials
// auth. The token is cached and refreshed once it passes the staleness
// threshold; refresh failures consume a bounded retry budget after
// which the adapter disables itself for the process lifetime. Refresh
// is mutex-guarded so two in-flight calls cannot race it.
//
// Spotify forbids direct downloads; the orchestrator routes its tracks
// through the fallback platform.
type SpotifyAdapter struct {
	cfg          domain.SpotifyConfig
	creds        clientcredentials.Config
	baseURL      string
	client       *http.Client
	tempoTimeout time.Duration

	mu          sync.Mutex
	token       *oauth2.Token
	fetchedAt   time.Time
	authRetries int
	disabled    bool
}

// NewSpotifyAdapter creates a new Spotify adapter. An adapter built
// without credentials reports unavailable and never issues calls.
func NewSpotifyAdapter(cfg domain.SpotifyConfig, tempoTimeout time.Duration) *SpotifyAdapter {
	return newSpotifyAdapter(cfg, spotifyAPIBase, spotifyTokenURL, tempoTimeout)
}

// newSpotifyAdapter is the constructor tests use to point the adapter
// at fake endpoints.
func newSpotifyAdapter(cfg domain.SpotifyConfig, baseURL, tokenURL string, tempoTimeout time.Duration) *SpotifyAdapter {
	if cfg.TokenMaxAge <= 0 {
		cfg.TokenMaxAge = 50 * time.Minute
	}
	if cfg.MaxAuthRetries <= 0 {
		cfg.MaxAuthRetries = 3
	}
	return &SpotifyAdapter{
		cfg: cfg,
		creds: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		},
		baseURL:      baseURL,
		client:       &http.Client{},
		tempoTimeout: tempoTimeout,
	}
}

func (a *SpotifyAdapter) Source() domain.PlatformSource {
	return domain.SourceSpotify
}

func (a *SpotifyAdapter) Capabilities() domain.Capabilities {
	a.mu.Lock()
	disabled := a.disabled
	a.mu.Unlock()

	return domain.Capabilities{
		Available:        a.configured() && !disabled,
		SupportsDownload: false,
		SupportsBPM:      true,
	}
}

func (a *SpotifyAdapter) configured() bool {
	return a.cfg.ClientID != "" && a.cfg.ClientSecret != ""
}

// ensureToken returns a bearer token, refreshing the cached one when
// it is absent or older than the staleness threshold. Exhausting the
// retry budget disables the adapter permanently.
func (a *SpotifyAdapter) ensureToken(ctx context.Context) (string, error) {
	if !a.configured() {
		return "", domain.Errf(domain.KindUnavailable, a.Source(), "auth", "credentials not configured")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.disabled {
		return "", domain.Errf(domain.KindUnavailable, a.Source(), "auth", "re-authentication budget exhausted")
	}
	if a.token != nil && a.token.Valid() && time.Since(a.fetchedAt) < a.cfg.TokenMaxAge {
		return a.token.AccessToken, nil
	}

	token, err := a.creds.Token(ctx)
	if err != nil {
		a.authRetries++
		if a.authRetries >= a.cfg.MaxAuthRetries {
			a.disabled = true
		}
		return "", domain.WrapErr(domain.KindUnavailable, a.Source(), "auth", err)
	}

	a.token = token
	a.fetchedAt = time.Now()
	a.authRetries = 0
	return token.AccessToken, nil
}

// invalidateToken drops the cached token so the next call re-fetches.
// Used when the API answers 401 mid-lifetime.
func (a *SpotifyAdapter) invalidateToken() {
	a.mu.Lock()
	a.token = nil
	a.mu.Unlock()
}

type spotifyTrack struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DurationMS int    `json:"duration_ms"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

type spotifyAudioFeature struct {
	ID    string  `json:"id"`
	Tempo float64 `json:"tempo"`
}

type spotifyAudioFeaturesResponse struct {
	AudioFeatures []*spotifyAudioFeature `json:"audio_features"`
}

// Search queries the track search endpoint and enriches results with
// one batched audio-features call under the soft tempo budget.
func (a *SpotifyAdapter) Search(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	query = cleanQuery(query)
	if query == "" {
		return nil, nil
	}
	query = truncateQuery(query, spotifyQueryMax)
	limit = clampLimit(limit, spotifySearchMax)

	endpoint := fmt.Sprintf("%s/search?q=%s&type=track&limit=%d", a.baseURL, url.QueryEscape(query), limit)

	var resp spotifySearchResponse
	if err := a.getJSON(ctx, "search", endpoint, &resp); err != nil {
		return nil, err
	}

	tracks := make([]domain.Track, 0, len(resp.Tracks.Items))
	nativeIDs := make([]string, 0, len(resp.Tracks.Items))
	for _, item := range resp.Tracks.Items {
		if item.ID == "" || item.Name == "" {
			continue
		}
		tracks = append(tracks, a.parseTrack(item))
		nativeIDs = append(nativeIDs, item.ID)
	}

	a.enrichTempoBatch(ctx, tracks, nativeIDs)
	return tracks, nil
}

// GetTrack accepts a namespaced "sp_" id or a bare 22-character base62
// id; anything else is rejected before a remote call.
func (a *SpotifyAdapter) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	native, err := a.nativeID(id, "get_track")
	if err != nil {
		return nil, err
	}

	var item spotifyTrack
	if err := a.getJSON(ctx, "get_track", a.baseURL+"/tracks/"+native, &item); err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, domain.Errf(domain.KindNotFound, a.Source(), "get_track", "track not found: %s", native)
	}

	track := a.parseTrack(item)

	// Single best-effort tempo lookup under its own soft budget.
	tempoCtx, cancel := context.WithTimeout(ctx, a.tempoTimeout)
	if bpm, err := a.fetchTempoBatch(tempoCtx, []string{native}); err == nil {
		if v, ok := bpm[native]; ok {
			track.BPM = v
		}
	}
	cancel()

	return &track, nil
}

// Download is not offered: Spotify forbids direct audio downloads.
func (a *SpotifyAdapter) Download(ctx context.Context, track domain.Track, outputDir string) (string, error) {
	return "", domain.Errf(domain.KindUnsupported, a.Source(), "download",
		"direct download not supported for %q", track.Title)
}

// GetBPM fetches tempo from the audio-features endpoint. A missing or
// non-positive remote value is unknown, not an error.
func (a *SpotifyAdapter) GetBPM(ctx context.Context, track domain.Track) (float64, error) {
	native, err := a.nativeID(track.ID, "get_bpm")
	if err != nil {
		return 0, err
	}

	tempoCtx, cancel := context.WithTimeout(ctx, a.tempoTimeout)
	defer cancel()

	bpm, err := a.fetchTempoBatch(tempoCtx, []string{native})
	if err != nil {
		return 0, err
	}
	return bpm[native], nil
}

// enrichTempoBatch attaches tempo to search results with one batched
// call, best-effort: any failure leaves every BPM absent.
func (a *SpotifyAdapter) enrichTempoBatch(ctx context.Context, tracks []domain.Track, nativeIDs []string) {
	if len(nativeIDs) == 0 {
		return
	}
	if len(nativeIDs) > spotifyBatchMax {
		nativeIDs = nativeIDs[:spotifyBatchMax]
	}

	tempoCtx, cancel := context.WithTimeout(ctx, a.tempoTimeout)
	defer cancel()

	bpm, err := a.fetchTempoBatch(tempoCtx, nativeIDs)
	if err != nil {
		return
	}
	for i := range tracks {
		native := domain.NativeID(tracks[i].ID)
		if v, ok := bpm[native]; ok {
			tracks[i].BPM = v
		}
	}
}

// fetchTempoBatch maps native ids to tempo. The response array is
// positional; features also carry their id, which is preferred when
// present. Null features and non-positive tempi are skipped.
func (a *SpotifyAdapter) fetchTempoBatch(ctx context.Context, nativeIDs []string) (map[string]float64, error) {
	endpoint := a.baseURL + "/audio-features?ids=" + url.QueryEscape(strings.Join(nativeIDs, ","))

	var resp spotifyAudioFeaturesResponse
	if err := a.getJSON(ctx, "audio_features", endpoint, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(resp.AudioFeatures))
	for i, feature := range resp.AudioFeatures {
		if feature == nil || feature.Tempo <= 0 {
			continue
		}
		id := feature.ID
		if id == "" && i < len(nativeIDs) {
			id = nativeIDs[i]
		}
		out[id] = math.Round(feature.Tempo*10) / 10
	}
	return out, nil
}

func (a *SpotifyAdapter) nativeID(id, op string) (string, error) {
	id = decodeID(id)
	if id == "" {
		return "", domain.Errf(domain.KindMalformedID, a.Source(), op, "empty track id")
	}
	native := id
	if domain.HasPrefix(id, a.Source()) {
		native = domain.NativeID(id)
	}
	if !spotifyIDPattern.MatchString(native) {
		return "", domain.Errf(domain.KindMalformedID, a.Source(), op, "invalid spotify id: %q", native)
	}
	return native, nil
}

// getJSON issues an authenticated GET bound to ctx and decodes the
// JSON body. A 401 invalidates the cached token so the next call
// re-authenticates.
func (a *SpotifyAdapter) getJSON(ctx context.Context, op, endpoint string, out interface{}) error {
	token, err := a.ensureToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.WrapErr(domain.KindRemote, a.Source(), op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return domain.WrapErr(domain.KindRemote, a.Source(), op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		a.invalidateToken()
		return domain.Errf(domain.KindUnavailable, a.Source(), op, "token rejected")
	case resp.StatusCode == http.StatusNotFound:
		return domain.Errf(domain.KindNotFound, a.Source(), op, "not found")
	case resp.StatusCode != http.StatusOK:
		return domain.Errf(domain.KindRemote, a.Source(), op, "unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapErr(domain.KindRemote, a.Source(), op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (a *SpotifyAdapter) parseTrack(item spotifyTrack) domain.Track {
	names := make([]string, 0, len(item.Artists))
	for _, artist := range item.Artists {
		if artist.Name != "" {
			names = append(names, artist.Name)
		}
	}
	artist := strings.Join(names, ", ")
	if artist == "" {
		artist = "Unknown Artist"
	}

	artwork := ""
	if len(item.Album.Images) > 0 {
		artwork = item.Album.Images[0].URL
	}

	return domain.Track{
		ID:         domain.GenerateID(a.Source(), item.ID),
		Title:      item.Name,
		Artist:     artist,
		Source:     a.Source(),
		URL:        item.ExternalURLs.Spotify,
		Duration:   item.DurationMS / 1000,
		ArtworkURL: artwork,
	}
}
