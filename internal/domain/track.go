package domain

import (
	"fmt"
	"strings"
)

// PlatformSource identifies the music service a track came from
type PlatformSource string

const (
	SourceSoundCloud PlatformSource = "soundcloud"
	SourceSpotify    PlatformSource = "spotify"
	SourceDeezer     PlatformSource = "deezer"
	SourceYouTube    PlatformSource = "youtube"
)

// AllSources lists every platform in resolution order. Fan-out merge
// order and registry iteration both follow this order.
var AllSources = []PlatformSource{
	SourceSoundCloud,
	SourceSpotify,
	SourceDeezer,
	SourceYouTube,
}

// prefixes maps each platform to its two-letter track id prefix.
var prefixes = map[PlatformSource]string{
	SourceSoundCloud: "so",
	SourceSpotify:    "sp",
	SourceDeezer:     "dz",
	SourceYouTube:    "yt",
}

// ParsePlatformSource validates a platform name against the closed enum
func ParsePlatformSource(s string) (PlatformSource, error) {
	source := PlatformSource(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := prefixes[source]; !ok {
		return "", fmt.Errorf("unknown platform: %q", s)
	}
	return source, nil
}

// Valid reports whether the source is a member of the closed enum
func (s PlatformSource) Valid() bool {
	_, ok := prefixes[s]
	return ok
}

// Prefix returns the platform's track id prefix
func (s PlatformSource) Prefix() string {
	return prefixes[s]
}

// Track is the normalized cross-platform track representation.
// Instances are created per request and never mutated after being
// returned to a caller.
type Track struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Artist     string         `json:"artist"`
	Source     PlatformSource `json:"source"`
	URL        string         `json:"url"`
	BPM        float64        `json:"bpm,omitempty"`
	Duration   int            `json:"duration"`
	ArtworkURL string         `json:"artwork_url,omitempty"`
	Genre      string         `json:"genre,omitempty"`
}

// GenerateID builds a globally unique track id by namespacing the
// platform-native id with the platform's prefix.
func GenerateID(source PlatformSource, nativeID string) string {
	return source.Prefix() + "_" + nativeID
}

// NativeID strips the platform prefix from a namespaced id. Prefix
// length is not uniform across platforms, so the split is on the first
// underscore rather than a fixed offset. Ids without an underscore are
// returned unchanged (they are already native).
func NativeID(id string) string {
	if _, native, found := strings.Cut(id, "_"); found {
		return native
	}
	return id
}

// HasPrefix reports whether id carries the given platform's prefix.
func HasPrefix(id string, source PlatformSource) bool {
	return strings.HasPrefix(id, source.Prefix()+"_")
}

// invalidFilenameChars are replaced with underscores when deriving
// artifact filenames.
const invalidFilenameChars = `<>:"/\|?*`

// SanitizeFilename replaces characters illegal in filesystem names
// with an underscore and trims surrounding whitespace.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilenameChars, r) {
			return '_'
		}
		return r
	}, name))
}

// ArtifactBase derives the deterministic artifact basename for a
// track. This is the download idempotence key: two distinct tracks
// sharing an artist and title collide onto the same file.
func ArtifactBase(artist, title string) string {
	return SanitizeFilename(artist + " - " + title)
}

// SearchResponse is the aggregate search result returned to callers.
type SearchResponse struct {
	Query        string  `json:"query"`
	TotalResults int     `json:"total_results"`
	Results      []Track `json:"results"`
}

// DownloadStatus is the terminal state of a download request.
type DownloadStatus string

const (
	DownloadReady DownloadStatus = "ready"
	DownloadError DownloadStatus = "error"
)

// DownloadResult is the terminal outcome of a download request. On
// ready it carries the artifact path and the resolved track; on error
// it carries a human-readable reason. No intermediate states are
// observable.
type DownloadResult struct {
	Status   DownloadStatus `json:"status"`
	Filepath string         `json:"filepath,omitempty"`
	Error    string         `json:"error,omitempty"`
	Track    *Track         `json:"track,omitempty"`
}
