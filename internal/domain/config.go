package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Download     DownloadConfig     `mapstructure:"download"`
	Search       SearchConfig       `mapstructure:"search"`
	Timeouts     TimeoutConfig      `mapstructure:"timeouts"`
	Worker       WorkerConfig       `mapstructure:"worker"`
	Spotify      SpotifyConfig      `mapstructure:"spotify"`
	Deezer       DeezerConfig       `mapstructure:"deezer"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DownloadConfig contains artifact output configuration
type DownloadConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	// MinArtifactBytes: an artifact smaller than this after a
	// reported-successful download is treated as a local I/O failure.
	MinArtifactBytes int64 `mapstructure:"min_artifact_bytes"`
}

// SearchConfig contains aggregate search limits
type SearchConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// TimeoutConfig carries the per-operation budgets enforced at every
// remote boundary. Tempo is soft: expiry degrades the result rather
// than failing the caller. Download is hard.
type TimeoutConfig struct {
	Search   time.Duration `mapstructure:"search"`
	Track    time.Duration `mapstructure:"track"`
	Tempo    time.Duration `mapstructure:"tempo"`
	Download time.Duration `mapstructure:"download"`
}

// WorkerConfig sizes the pool that blocking adapter work is handed to
type WorkerConfig struct {
	PoolSize int `mapstructure:"pool_size"`
}

// SpotifyConfig contains Spotify-specific configuration
type SpotifyConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	// TokenMaxAge: a cached token older than this is refreshed before
	// the next call. Spotify tokens expire after an hour.
	TokenMaxAge time.Duration `mapstructure:"token_max_age"`
	// MaxAuthRetries bounds re-authentication attempts before the
	// adapter disables itself for the process lifetime.
	MaxAuthRetries int `mapstructure:"max_auth_retries"`
}

// DeezerConfig contains Deezer-specific configuration
type DeezerConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// NotificationConfig controls desktop notifications for completed
// downloads
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8000,
		},
		Download: DownloadConfig{
			OutputDir:        "./downloads",
			MinArtifactBytes: 1024,
		},
		Search: SearchConfig{
			DefaultLimit: 10,
			MaxLimit:     50,
		},
		Timeouts: TimeoutConfig{
			Search:   30 * time.Second,
			Track:    20 * time.Second,
			Tempo:    8 * time.Second,
			Download: 600 * time.Second,
		},
		Worker: WorkerConfig{
			PoolSize: 8,
		},
		Spotify: SpotifyConfig{
			TokenMaxAge:    50 * time.Minute,
			MaxAuthRetries: 3,
		},
		Deezer: DeezerConfig{
			BaseURL: "https://api.deezer.com",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
