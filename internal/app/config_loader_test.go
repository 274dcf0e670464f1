package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8000, config.Server.Port)
	assert.Equal(t, 10, config.Search.DefaultLimit)
	assert.Equal(t, 50, config.Search.MaxLimit)
	assert.Equal(t, 30*time.Second, config.Timeouts.Search)
	assert.Equal(t, 600*time.Second, config.Timeouts.Download)
	assert.Equal(t, int64(1024), config.Download.MinArtifactBytes)
	assert.Equal(t, 8, config.Worker.PoolSize)
	assert.Equal(t, 50*time.Minute, config.Spotify.TokenMaxAge)
	assert.Equal(t, 3, config.Spotify.MaxAuthRetries)
	assert.Equal(t, "https://api.deezer.com", config.Deezer.BaseURL)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
search:
  default_limit: 5
  max_limit: 25
timeouts:
  search: 10s
  download: 120s
spotify:
  client_id: abc
  client_secret: def
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 5, config.Search.DefaultLimit)
	assert.Equal(t, 25, config.Search.MaxLimit)
	assert.Equal(t, 10*time.Second, config.Timeouts.Search)
	assert.Equal(t, 120*time.Second, config.Timeouts.Download)
	assert.Equal(t, "abc", config.Spotify.ClientID)
	assert.Equal(t, "debug", config.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 20*time.Second, config.Timeouts.Track)
	assert.Equal(t, 8, config.Worker.PoolSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DJDECK_SERVER_PORT", "7777")
	t.Setenv("DJDECK_SPOTIFY_CLIENT_ID", "from-env")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7777, config.Server.Port)
	assert.Equal(t, "from-env", config.Spotify.ClientID)
}

func TestLoadConfig_InvalidValuesRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bad port",
			content: "server:\n  port: 0\n",
		},
		{
			name:    "default limit above max",
			content: "search:\n  default_limit: 100\n  max_limit: 50\n",
		},
		{
			name:    "zero pool",
			content: "worker:\n  pool_size: 0\n",
		},
		{
			name:    "negative timeout",
			content: "timeouts:\n  search: -5s\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestExpandPath_Home(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "music"), expandPath("~/music"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
}
