package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/quantmind-br/see/pkg/version"
)

// Default values
const (
	// HTTP defaults
	DefaultHTTPTimeout = 10 * time.Minute

	// Cache defaults
	DefaultCacheEnabled = false
	DefaultCacheTTL     = 7 * 24 * time.Hour
	DefaultCacheMaxSize = "64MB"

	// Prompt defaults
	DefaultPromptAccessible = false

	// Logging defaults
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "pretty"
)

// DefaultUserAgent identifies archive downloads
var DefaultUserAgent = version.UserAgent()

// ConfigDir returns the config directory path
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".see"
	}
	return filepath.Join(dir, "see")
}

// CacheDir returns the archive cache directory path
func CacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(ConfigDir(), "cache")
	}
	return filepath.Join(dir, "see")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultStorePath returns the template store location, ~/.see
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".see"
	}
	return filepath.Join(home, ".see")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path: DefaultStorePath(),
		},
		HTTP: HTTPConfig{
			Timeout:   DefaultHTTPTimeout,
			UserAgent: DefaultUserAgent,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
			MaxSize:   DefaultCacheMaxSize,
		},
		Prompt: PromptConfig{
			Accessible: DefaultPromptAccessible,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
