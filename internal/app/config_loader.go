package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/djdeck-go/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.djdeck")
		v.AddConfigPath("/etc/djdeck")
	}

	v.SetEnvPrefix("DJDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment overrides only apply to keys viper knows about, so
	// every default is registered explicitly.
	setDefaults(v, config)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Download.OutputDir = expandPath(config.Download.OutputDir)
	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers every configuration key with its default value.
func setDefaults(v *viper.Viper, config *domain.Config) {
	v.SetDefault("server.host", config.Server.Host)
	v.SetDefault("server.port", config.Server.Port)
	v.SetDefault("download.output_dir", config.Download.OutputDir)
	v.SetDefault("download.min_artifact_bytes", config.Download.MinArtifactBytes)
	v.SetDefault("search.default_limit", config.Search.DefaultLimit)
	v.SetDefault("search.max_limit", config.Search.MaxLimit)
	v.SetDefault("timeouts.search", config.Timeouts.Search)
	v.SetDefault("timeouts.track", config.Timeouts.Track)
	v.SetDefault("timeouts.tempo", config.Timeouts.Tempo)
	v.SetDefault("timeouts.download", config.Timeouts.Download)
	v.SetDefault("worker.pool_size", config.Worker.PoolSize)
	v.SetDefault("spotify.client_id", config.Spotify.ClientID)
	v.SetDefault("spotify.client_secret", config.Spotify.ClientSecret)
	v.SetDefault("spotify.token_max_age", config.Spotify.TokenMaxAge)
	v.SetDefault("spotify.max_auth_retries", config.Spotify.MaxAuthRetries)
	v.SetDefault("deezer.base_url", config.Deezer.BaseURL)
	v.SetDefault("notification.enabled", config.Notification.Enabled)
	v.SetDefault("notification.method", config.Notification.Method)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Download.OutputDir == "" {
		return fmt.Errorf("download output directory not configured")
	}

	if config.Search.DefaultLimit < 1 || config.Search.DefaultLimit > config.Search.MaxLimit {
		return fmt.Errorf("invalid search default limit: %d", config.Search.DefaultLimit)
	}

	if config.Worker.PoolSize < 1 {
		return fmt.Errorf("worker pool size must be at least 1")
	}

	for name, d := range map[string]int64{
		"search":   int64(config.Timeouts.Search),
		"track":    int64(config.Timeouts.Track),
		"tempo":    int64(config.Timeouts.Tempo),
		"download": int64(config.Timeouts.Download),
	} {
		if d <= 0 {
			return fmt.Errorf("timeout %s must be positive", name)
		}
	}

	if config.Spotify.MaxAuthRetries < 0 {
		return fmt.Errorf("spotify max auth retries cannot be negative")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}
