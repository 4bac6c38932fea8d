package tui

import (
	"fmt"
	"time"

	"github.com/quantmind-br/see/internal/config"
)

// ConfigValues holds form values that map to Config struct.
// Duration fields are stored as strings for form editing.
type ConfigValues struct {
	StorePath string

	HTTPTimeout   string
	HTTPUserAgent string

	CacheEnabled   bool
	CacheTTL       string
	CacheDirectory string
	CacheMaxSize   string

	PromptAccessible bool

	LogLevel  string
	LogFormat string

	// Token is carried through untouched; it is edited with set-token
	Token string
}

// FromConfig converts a Config to ConfigValues for form editing
func FromConfig(cfg *config.Config) *ConfigValues {
	return &ConfigValues{
		StorePath: cfg.Store.Path,

		HTTPTimeout:   formatDuration(cfg.HTTP.Timeout),
		HTTPUserAgent: cfg.HTTP.UserAgent,

		CacheEnabled:   cfg.Cache.Enabled,
		CacheTTL:       formatDuration(cfg.Cache.TTL),
		CacheDirectory: cfg.Cache.Directory,
		CacheMaxSize:   cfg.Cache.MaxSize,

		PromptAccessible: cfg.Prompt.Accessible,

		LogLevel:  cfg.Logging.Level,
		LogFormat: cfg.Logging.Format,

		Token: cfg.Token,
	}
}

// ToConfig converts ConfigValues back to a Config struct
func (v *ConfigValues) ToConfig() (*config.Config, error) {
	timeout, err := parseDurationOrDefault(v.HTTPTimeout, config.DefaultHTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid http.timeout: %w", err)
	}

	cacheTTL, err := parseDurationOrDefault(v.CacheTTL, config.DefaultCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache.ttl: %w", err)
	}

	if err := ValidateSize(v.CacheMaxSize); err != nil {
		return nil, fmt.Errorf("invalid cache.max_size: %w", err)
	}

	cfg := &config.Config{
		Store: config.StoreConfig{
			Path: v.StorePath,
		},
		HTTP: config.HTTPConfig{
			Timeout:   timeout,
			UserAgent: v.HTTPUserAgent,
		},
		Cache: config.CacheConfig{
			Enabled:   v.CacheEnabled,
			TTL:       cacheTTL,
			Directory: v.CacheDirectory,
			MaxSize:   v.CacheMaxSize,
		},
		Prompt: config.PromptConfig{
			Accessible: v.PromptAccessible,
		},
		Logging: config.LoggingConfig{
			Level:  v.LogLevel,
			Format: v.LogFormat,
		},
		Token: v.Token,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func parseDurationOrDefault(s string, defaultVal time.Duration) (time.Duration, error) {
	if s == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(s)
}
