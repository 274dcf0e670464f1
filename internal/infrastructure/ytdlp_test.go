package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryLines(t *testing.T) {
	out := []byte(`{"id":"abc","title":"First","uploader":"u1","duration":120.5}
not json at all
{"id":"def","title":"Second","channel":"c2","webpage_url":"https://example.com/def"}

{"id":"ghi","title":"Third","thumbnails":[{"id":"large","url":"https://img/l.jpg"}]}
`)

	entries, err := parseEntryLines(out)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "abc", entries[0].ID)
	assert.Equal(t, 120.5, entries[0].Duration)
	assert.Equal(t, "https://example.com/def", entries[1].WebpageURL)
	require.Len(t, entries[2].Thumbnails, 1)
	assert.Equal(t, "large", entries[2].Thumbnails[0].ID)
}

func TestParseEntryLines_Empty(t *testing.T) {
	entries, err := parseEntryLines(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCommandLine_QuotesForDisplay(t *testing.T) {
	tests := []struct {
		name     string
		binary   string
		args     []string
		expected string
	}{
		{
			name:     "plain args pass through",
			binary:   "yt-dlp",
			args:     []string{"--dump-json", "https://soundcloud.com/m83/midnight-city"},
			expected: "yt-dlp --dump-json https://soundcloud.com/m83/midnight-city",
		},
		{
			name:     "search target with spaces",
			binary:   "yt-dlp",
			args:     []string{"scsearch5:midnight city"},
			expected: "yt-dlp 'scsearch5:midnight city'",
		},
		{
			name:     "output template and query params",
			binary:   "yt-dlp",
			args:     []string{"--output", "/tmp/out/A - B.%(ext)s", "https://example.com/t?a=1&b=2"},
			expected: "yt-dlp --output '/tmp/out/A - B.%(ext)s' 'https://example.com/t?a=1&b=2'",
		},
		{
			name:     "embedded single quote",
			binary:   "yt-dlp",
			args:     []string{"ytsearch1:it's a test"},
			expected: `yt-dlp 'ytsearch1:it'"'"'s a test'`,
		},
		{
			name:     "binary with space and empty arg",
			binary:   "/opt/my tools/yt-dlp",
			args:     []string{""},
			expected: "'/opt/my tools/yt-dlp' ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, commandLine(tt.binary, tt.args))
		})
	}
}
