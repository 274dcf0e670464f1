package infrastructure

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/yourusername/djdeck-go/internal/domain"
)

// soundcloudSearchMax is the largest result count a scsearch target
// accepts in one extraction.
const soundcloudSearchMax = 50

// SoundCloudAdapter resolves and downloads SoundCloud tracks through
// the media runner. No credentials are required for search, so the
// adapter is always available.
type SoundCloudAdapter struct {
	runner   MediaRunner
	minBytes int64
}

// NewSoundCloudAdapter creates a new SoundCloud adapter
func NewSoundCloudAdapter(runner MediaRunner, minArtifactBytes int64) *SoundCloudAdapter {
	return &SoundCloudAdapter{runner: runner, minBytes: minArtifactBytes}
}

func (a *SoundCloudAdapter) Source() domain.PlatformSource {
	return domain.SourceSoundCloud
}

func (a *SoundCloudAdapter) Capabilities() domain.Capabilities {
	return domain.Capabilities{
		Available:        true,
		SupportsDownload: true,
		SupportsBPM:      false,
	}
}

// Search resolves a scsearch target into normalized tracks.
func (a *SoundCloudAdapter) Search(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	query = cleanQuery(query)
	if query == "" {
		return nil, nil
	}
	limit = clampLimit(limit, soundcloudSearchMax)

	target := fmt.Sprintf("scsearch%d:%s", limit, query)
	entries, err := a.runner.ExtractFlat(ctx, target)
	if err != nil {
		return nil, domain.WrapErr(domain.KindRemote, a.Source(), "search", err)
	}

	tracks := make([]domain.Track, 0, len(entries))
	for _, entry := range entries {
		if track, ok := a.parseEntry(entry); ok {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

// GetTrack accepts a full soundcloud.com URL, a namespaced "so_" id,
// or a bare numeric id. Bare ids must be numeric; anything else is
// rejected before a remote call is made.
func (a *SoundCloudAdapter) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	id = decodeID(id)
	if id == "" {
		return nil, domain.Errf(domain.KindMalformedID, a.Source(), "get_track", "empty track id")
	}

	var target string
	switch {
	case strings.HasPrefix(id, "http://"), strings.HasPrefix(id, "https://"):
		target = id
	default:
		native := id
		if domain.HasPrefix(id, a.Source()) {
			native = domain.NativeID(id)
		}
		if !isNumeric(native) {
			return nil, domain.Errf(domain.KindMalformedID, a.Source(), "get_track",
				"invalid soundcloud id: %q", native)
		}
		// yt-dlp resolves the public API track URL directly.
		target = "https://api.soundcloud.com/tracks/" + native
	}

	entry, err := a.runner.Extract(ctx, target)
	if err != nil {
		return nil, domain.WrapErr(domain.KindNotFound, a.Source(), "get_track", err)
	}

	track, ok := a.parseEntry(*entry)
	if !ok {
		return nil, domain.Errf(domain.KindNotFound, a.Source(), "get_track", "track not found: %s", id)
	}
	if track.URL == "" {
		track.URL = target
	}
	return &track, nil
}

// Download fetches the track's audio to the deterministic artifact
// path, skipping the fetch when the artifact already exists.
func (a *SoundCloudAdapter) Download(ctx context.Context, track domain.Track, outputDir string) (string, error) {
	return downloadViaRunner(ctx, a.runner, a.Source(), track, track.URL, outputDir, a.minBytes)
}

// GetBPM always reports unknown: SoundCloud does not expose tempo.
func (a *SoundCloudAdapter) GetBPM(ctx context.Context, track domain.Track) (float64, error) {
	return 0, nil
}

// parseEntry normalizes one extraction entry. Entries without an id, a
// title, or a resolvable URL are dropped.
func (a *SoundCloudAdapter) parseEntry(entry MediaEntry) (domain.Track, bool) {
	if entry.ID == "" || entry.Title == "" {
		return domain.Track{}, false
	}

	trackURL := entry.WebpageURL
	if trackURL == "" {
		trackURL = entry.URL
	}
	if trackURL == "" {
		trackURL = entry.OriginalURL
	}
	if trackURL == "" {
		return domain.Track{}, false
	}

	artist := entry.Uploader
	if artist == "" {
		artist = entry.Channel
	}
	if artist == "" {
		artist = "Unknown"
	}

	return domain.Track{
		ID:         domain.GenerateID(a.Source(), entry.ID),
		Title:      entry.Title,
		Artist:     artist,
		Source:     a.Source(),
		URL:        trackURL,
		Duration:   int(entry.Duration),
		ArtworkURL: bestThumbnail(entry),
		Genre:      entry.Genre,
	}, true
}

// thumbnailPreference orders SoundCloud artwork variants from most to
// least desirable.
var thumbnailPreference = []string{"t300x300", "large", "crop", "t500x500", "t67x67", "small"}

// bestThumbnail picks the preferred artwork variant, falling back to
// the first usable one, then the flat thumbnail field.
func bestThumbnail(entry MediaEntry) string {
	if len(entry.Thumbnails) == 0 {
		return entry.Thumbnail
	}

	byID := make(map[string]string, len(entry.Thumbnails))
	for _, thumb := range entry.Thumbnails {
		if thumb.ID != "" && thumb.URL != "" {
			byID[thumb.ID] = thumb.URL
		}
	}
	for _, id := range thumbnailPreference {
		if u, ok := byID[id]; ok {
			return u
		}
	}

	for _, thumb := range entry.Thumbnails {
		if thumb.URL != "" {
			return thumb.URL
		}
	}
	return entry.Thumbnail
}

// cleanQuery url-decodes and trims a search query.
func cleanQuery(query string) string {
	if decoded, err := url.QueryUnescape(query); err == nil {
		query = decoded
	}
	return strings.TrimSpace(query)
}

// decodeID url-decodes and trims a caller-supplied track id.
func decodeID(id string) string {
	if decoded, err := url.QueryUnescape(id); err == nil {
		id = decoded
	}
	return strings.TrimSpace(id)
}

// truncateQuery caps a query's byte length without splitting a rune.
func truncateQuery(query string, max int) string {
	if len(query) <= max {
		return query
	}
	for max > 0 && !utf8.RuneStart(query[max]) {
		max--
	}
	return query[:max]
}

// clampLimit bounds a caller limit to 1..max.
func clampLimit(limit, max int) int {
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}

// isNumeric reports whether s is a non-empty digit string.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
