package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Prompt  PromptConfig  `mapstructure:"prompt" yaml:"prompt"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Token overrides the token kept in the store when set (SEE_TOKEN)
	Token string `mapstructure:"token" yaml:"token,omitempty"`
}

// StoreConfig contains template store settings
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// HTTPConfig contains archive download settings
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// CacheConfig contains archive cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
	MaxSize   string        `mapstructure:"max_size" yaml:"max_size"`
}

// PromptConfig contains interactive prompt settings
type PromptConfig struct {
	Accessible bool `mapstructure:"accessible" yaml:"accessible"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath()
	}
	if c.HTTP.Timeout < time.Second {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = CacheDir()
	}
	if c.Cache.MaxSize == "" {
		c.Cache.MaxSize = DefaultCacheMaxSize
	} else {
		if _, err := ParseSize(c.Cache.MaxSize); err != nil {
			return fmt.Errorf("invalid cache.max_size: %w", err)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format != "pretty" && c.Logging.Format != "json" {
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}

// CacheMaxSizeBytes returns cache.max_size in bytes
func (c *Config) CacheMaxSizeBytes() int64 {
	n, err := ParseSize(c.Cache.MaxSize)
	if err != nil || n == 0 {
		n, _ = ParseSize(DefaultCacheMaxSize)
	}
	return n
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() *Config {
	out := *c
	if out.Token != "" {
		out.Token = "REDACTED"
	}
	return &out
}

func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var multiplier int64 = 1
	if strings.HasSuffix(s, "GB") {
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	} else if strings.HasSuffix(s, "MB") {
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	} else if strings.HasSuffix(s, "KB") {
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no numeric value in size string")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("negative size not allowed")
	}

	return n * multiplier, nil
}
