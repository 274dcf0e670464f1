package infrastructure

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yourusername/djdeck-go/internal/domain"
)

const (
	youtubeSearchMax   = 50
	youtubeQueryMax    = 500
	youtubeWatchPrefix = "https://www.youtube.com/watch?v="
)

// youtubeIDPattern matches the 11-character video id alphabet.
var youtubeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// youtubeURLPatterns extract a video id from the URL shapes callers
// paste: watch, short links, embeds, shorts, and music.
var youtubeURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?.+&v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`music\.youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`),
}

// YouTubeAdapter resolves and downloads YouTube audio through the
// media runner. It is the fixed fallback platform for metadata-only
// backends. Works without an API key, so always available.
type YouTubeAdapter struct {
	runner   MediaRunner
	minBytes int64
}

// NewYouTubeAdapter creates a new YouTube adapter
func NewYouTubeAdapter(runner MediaRunner, minArtifactBytes int64) *YouTubeAdapter {
	return &YouTubeAdapter{runner: runner, minBytes: minArtifactBytes}
}

func (a *YouTubeAdapter) Source() domain.PlatformSource {
	return domain.SourceYouTube
}

func (a *YouTubeAdapter) Capabilities() domain.Capabilities {
	return domain.Capabilities{
		Available:        true,
		SupportsDownload: true,
		SupportsBPM:      false,
	}
}

// Search resolves a ytsearch target into normalized tracks.
func (a *YouTubeAdapter) Search(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	query = sanitizeYouTubeQuery(cleanQuery(query))
	if query == "" {
		return nil, nil
	}
	limit = clampLimit(limit, youtubeSearchMax)

	target := fmt.Sprintf("ytsearch%d:%s", limit, query)
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

// GetTrack accepts a namespaced "yt_" id, a bare 11-character video
// id, or a full YouTube URL. Ids of the wrong shape are rejected
// before any remote call.
func (a *YouTubeAdapter) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	id = decodeID(id)
	if id == "" {
		return nil, domain.Errf(domain.KindMalformedID, a.Source(), "get_track", "empty track id")
	}

	native := id
	if domain.HasPrefix(id, a.Source()) {
		native = domain.NativeID(id)
	}
	if strings.HasPrefix(native, "http://") || strings.HasPrefix(native, "https://") {
		extracted, ok := extractVideoID(native)
		if !ok {
			return nil, domain.Errf(domain.KindMalformedID, a.Source(), "get_track",
				"cannot extract video id from url: %s", native)
		}
		native = extracted
	}
	if !youtubeIDPattern.MatchString(native) {
		return nil, domain.Errf(domain.KindMalformedID, a.Source(), "get_track",
			"invalid youtube id: %q", native)
	}

	entry, err := a.runner.Extract(ctx, youtubeWatchPrefix+native)
	if err != nil {
		return nil, domain.WrapErr(domain.KindNotFound, a.Source(), "get_track", err)
	}

	track, ok := a.parseEntry(*entry)
	if !ok {
		return nil, domain.Errf(domain.KindNotFound, a.Source(), "get_track", "video not found: %s", native)
	}
	return &track, nil
}

// Download fetches the track's audio. The URL may be a watch URL or a
// "ytsearch1:" query target synthesized by the fallback path.
func (a *YouTubeAdapter) Download(ctx context.Context, track domain.Track, outputDir string) (string, error) {
	return downloadViaRunner(ctx, a.runner, a.Source(), track, track.URL, outputDir, a.minBytes)
}

// GetBPM always reports unknown: YouTube does not expose tempo.
func (a *YouTubeAdapter) GetBPM(ctx context.Context, track domain.Track) (float64, error) {
	return 0, nil
}

// parseEntry normalizes one video entry, skipping deleted and private
// placeholders.
func (a *YouTubeAdapter) parseEntry(entry MediaEntry) (domain.Track, bool) {
	if entry.ID == "" {
		return domain.Track{}, false
	}
	if entry.Title == "" || entry.Title == "[Deleted video]" || entry.Title == "[Private video]" {
		return domain.Track{}, false
	}

	uploader := entry.Uploader
	if uploader == "" {
		uploader = entry.Channel
	}
	if uploader == "" {
		uploader = "Unknown Artist"
	}
	artist, title := ParseArtistTitle(entry.Title, uploader)

	artwork := entry.Thumbnail
	// Thumbnails are ordered worst to best; take the best usable one.
	for i := len(entry.Thumbnails) - 1; i >= 0; i-- {
		if entry.Thumbnails[i].URL != "" {
			artwork = entry.Thumbnails[i].URL
			break
		}
	}

	trackURL := entry.ID
	if !strings.HasPrefix(trackURL, "http") {
		trackURL = youtubeWatchPrefix + entry.ID
	}

	return domain.Track{
		ID:         domain.GenerateID(a.Source(), entry.ID),
		Title:      title,
		Artist:     artist,
		Source:     a.Source(),
		URL:        trackURL,
		Duration:   int(entry.Duration),
		ArtworkURL: artwork,
	}, true
}

// titleNoise lists suffixes stripped from video titles before the
// artist/title split.
var titleNoise = []string{
	"(Official Video)", "(Official Music Video)", "(Official Audio)",
	"(Lyric Video)", "(Lyrics)", "(Audio)", "(Visualizer)",
	"[Official Video]", "[Official Music Video]", "[Official Audio]",
	"(HD)", "(HQ)", "(4K)", "(Official)",
	"| Official Video", "| Official Audio",
}

// titleSeparators are tried in order when splitting "Artist <sep> Title".
var titleSeparators = []string{" - ", " — ", " | ", " – "}

// byArtistPattern matches "Title (by Artist)" and feat. variants.
var byArtistPattern = regexp.MustCompile(`(?i)^(.+?)\s*[\(\[](?:by|feat\.?|ft\.?)\s*(.+?)[\)\]]`)

// ParseArtistTitle splits a video title into artist and track title,
// handling "Artist - Title", "Artist | Title", and "Title (by Artist)"
// shapes and falling back to the uploader as the artist.
func ParseArtistTitle(videoTitle, uploader string) (artist, title string) {
	t := strings.TrimSpace(videoTitle)
	for _, noise := range titleNoise {
		t = strings.TrimSpace(strings.ReplaceAll(t, noise, ""))
	}

	for _, sep := range titleSeparators {
		if before, after, found := strings.Cut(t, sep); found {
			before = strings.TrimSpace(before)
			after = strings.TrimSpace(after)
			if before != "" && after != "" {
				return before, after
			}
		}
	}

	if m := byArtistPattern.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[2]), strings.TrimSpace(m[1])
	}

	return uploader, t
}

// extractVideoID pulls the 11-character video id out of a YouTube URL.
func extractVideoID(rawURL string) (string, bool) {
	for _, pattern := range youtubeURLPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// queryReplacer strips characters that break search targets.
var queryReplacer = strings.NewReplacer(
	"\n", " ", "\r", " ", "\t", " ", `"`, "", "'", "",
)

// sanitizeYouTubeQuery strips problem characters, collapses
// whitespace, and caps the query length.
func sanitizeYouTubeQuery(query string) string {
	query = queryReplacer.Replace(query)
	query = strings.Join(strings.Fields(query), " ")
	return truncateQuery(query, youtubeQueryMax)
}
