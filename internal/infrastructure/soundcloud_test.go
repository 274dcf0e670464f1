package infrastructure

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/djdeck-go/internal/domain"
)

func TestSoundCloudSearch_BuildsTarget(t *testing.T) {
	runner := &stubRunner{
		flatEntries: []MediaEntry{
			{
				ID:         "123456",
				Title:      "Midnight City",
				Uploader:   "M83",
				Duration:   243.5,
				WebpageURL: "https://soundcloud.com/m83/midnight-city",
				Genre:      "Electronic",
				Thumbnails: []MediaThumbnail{
					{ID: "small", URL: "https://img/small.jpg"},
					{ID: "t300x300", URL: "https://img/t300.jpg"},
				},
			},
		},
	}
	adapter := NewSoundCloudAdapter(runner, 1024)

	tracks, err := adapter.Search(context.Background(), "midnight city", 5)
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	assert.Equal(t, "scsearch5:midnight city", runner.lastTarget)
	assert.Equal(t, "so_123456", tracks[0].ID)
	assert.Equal(t, "Midnight City", tracks[0].Title)
	assert.Equal(t, "M83", tracks[0].Artist)
	assert.Equal(t, domain.SourceSoundCloud, tracks[0].Source)
	assert.Equal(t, "https://soundcloud.com/m83/midnight-city", tracks[0].URL)
	assert.Equal(t, 243, tracks[0].Duration)
	assert.Equal(t, "https://img/t300.jpg", tracks[0].ArtworkURL)
	assert.Equal(t, "Electronic", tracks[0].Genre)
}

func TestSoundCloudSearch_EmptyQuerySkipsRunner(t *testing.T) {
	runner := &stubRunner{}
	adapter := NewSoundCloudAdapter(runner, 1024)

	tracks, err := adapter.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, tracks)
	assert.Zero(t, runner.flatCalls)
}

func TestSoundCloudSearch_ClampsLimit(t *testing.T) {
	runner := &stubRunner{}
	adapter := NewSoundCloudAdapter(runner, 1024)

	_, err := adapter.Search(context.Background(), "query", 500)
	require.NoError(t, err)
	assert.Equal(t, "scsearch50:query", runner.lastTarget)

	_, err = adapter.Search(context.Background(), "query", 0)
	require.NoError(t, err)
	assert.Equal(t, "scsearch1:query", runner.lastTarget)
}

func TestSoundCloudSearch_DropsUnusableEntries(t *testing.T) {
	runner := &stubRunner{
		flatEntries: []MediaEntry{
			{ID: "", Title: "no id", WebpageURL: "https://x"},
			{ID: "1", Title: "", WebpageURL: "https://x"},
			{ID: "2", Title: "no url"},
			{ID: "3", Title: "ok", URL: "https://soundcloud.com/ok"},
		},
	}
	adapter := NewSoundCloudAdapter(runner, 1024)

	tracks, err := adapter.Search(context.Background(), "query", 10)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "so_3", tracks[0].ID)
	assert.Equal(t, "Unknown", tracks[0].Artist)
}

func TestSoundCloudGetTrack_MalformedIDSkipsRunner(t *testing.T) {
	runner := &stubRunner{}
	adapter := NewSoundCloudAdapter(runner, 1024)

	_, err := adapter.GetTrack(context.Background(), "not-a-number")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindMalformedID))
	assert.Zero(t, runner.extractCalls)
}

func TestSoundCloudGetTrack_NumericIDResolvesAPIURL(t *testing.T) {
	runner := &stubRunner{
		entry: &MediaEntry{
			ID:         "987",
			Title:      "Strobe",
			Uploader:   "deadmau5",
			WebpageURL: "https://soundcloud.com/deadmau5/strobe",
		},
	}
	adapter := NewSoundCloudAdapter(runner, 1024)

	track, err := adapter.GetTrack(context.Background(), "so_987")
	require.NoError(t, err)
	assert.Equal(t, "https://api.soundcloud.com/tracks/987", runner.lastTarget)
	assert.Equal(t, "so_987", track.ID)
	assert.Equal(t, "deadmau5", track.Artist)
}

func TestSoundCloudGetTrack_AcceptsFullURL(t *testing.T) {
	runner := &stubRunner{
		entry: &MediaEntry{
			ID:    "42",
			Title: "Some Track",
		},
	}
	adapter := NewSoundCloudAdapter(runner, 1024)

	track, err := adapter.GetTrack(context.Background(), "https://soundcloud.com/artist/some-track")
	require.NoError(t, err)
	assert.Equal(t, "https://soundcloud.com/artist/some-track", runner.lastTarget)
	// No URL in the entry: the resolved target is kept.
	assert.Equal(t, "https://soundcloud.com/artist/some-track", track.URL)
}

func TestBestThumbnail_Preference(t *testing.T) {
	entry := MediaEntry{
		Thumbnail: "https://img/flat.jpg",
		Thumbnails: []MediaThumbnail{
			{ID: "t67x67", URL: "https://img/t67.jpg"},
			{ID: "large", URL: "https://img/large.jpg"},
			{ID: "t500x500", URL: "https://img/t500.jpg"},
		},
	}
	assert.Equal(t, "https://img/large.jpg", bestThumbnail(entry))

	entry.Thumbnails = []MediaThumbnail{{ID: "odd", URL: "https://img/odd.jpg"}}
	assert.Equal(t, "https://img/odd.jpg", bestThumbnail(entry))

	entry.Thumbnails = nil
	assert.Equal(t, "https://img/flat.jpg", bestThumbnail(entry))
}

func TestSoundCloudCapabilities(t *testing.T) {
	adapter := NewSoundCloudAdapter(&stubRunner{}, 1024)
	caps := adapter.Capabilities()
	assert.True(t, caps.Available)
	assert.True(t, caps.SupportsDownload)
	assert.False(t, caps.SupportsBPM)
}

func TestTruncateQuery_KeepsRuneBoundary(t *testing.T) {
	// The cap lands in the middle of the two-byte "é"; the whole rune
	// must be dropped rather than emitting invalid UTF-8.
	got := truncateQuery("abcdéfgh", 5)
	assert.Equal(t, "abcd", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "abc", truncateQuery("abc", 10))
	assert.Equal(t, "", truncateQuery("é", 1))
}
