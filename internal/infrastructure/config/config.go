package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultHistoryDays is the recency window applied when the configured
// value is missing or malformed.
const DefaultHistoryDays = 14

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Curation  CurationConfig
	Catalog   CatalogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	// CORSOrigins lists allowed browser origins; "*" allows any
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CurationConfig holds the initial curation preferences. UpdateHistoryDays
// is kept as text, matching how the preference is persisted.
type CurationConfig struct {
	UpdateHistoryDays  string   `envconfig:"UPDATE_HISTORY_DAYS" default:"14"`
	Locale             string   `envconfig:"CURATOR_LOCALE" default:"en"`
	SDKLevel           int      `envconfig:"SDK_LEVEL" default:"34"`
	NativeArch         []string `envconfig:"NATIVE_ARCH" default:"arm64-v8a,armeabi-v7a"`
	ShowIncompatible   bool     `envconfig:"SHOW_INCOMPATIBLE" default:"false"`
	IgnoreAntiFeatures bool     `envconfig:"IGNORE_ANTI_FEATURES" default:"false"`
	RefreshOnEmpty     bool     `envconfig:"REFRESH_ON_EMPTY" default:"true"`
	HiddenIDs          []string `envconfig:"HIDDEN_IDS"`
}

// CatalogConfig holds catalog index discovery settings.
type CatalogConfig struct {
	Path    string `envconfig:"CATALOG_PATH" default:""`
	Pattern string `envconfig:"CATALOG_PATTERN" default:"**/*.{json,yaml,yml,toml,gz,zst}"`

	// Consecutive reload failures before reloads are refused for ReloadCooldown
	ReloadFailures uint32        `envconfig:"CATALOG_RELOAD_FAILURES" default:"3"`
	ReloadCooldown time.Duration `envconfig:"CATALOG_RELOAD_COOLDOWN" default:"30s"`
}

// HistoryDays returns the parsed recency window.
func (c CurationConfig) HistoryDays() int {
	return ParseHistoryDays(c.UpdateHistoryDays)
}

// ParseHistoryDays parses a stored history-days preference. Empty,
// malformed and negative values yield DefaultHistoryDays.
func ParseHistoryDays(raw string) int {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days < 0 {
		return DefaultHistoryDays
	}
	return days
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Curation: CurationConfig{
			UpdateHistoryDays: "14",
			Locale:            "en",
			SDKLevel:          34,
			NativeArch:        []string{"arm64-v8a", "armeabi-v7a"},
			RefreshOnEmpty:    true,
		},
		Catalog: CatalogConfig{
			Pattern:        "**/*.{json,yaml,yml,toml,gz,zst}",
			ReloadFailures: 3,
			ReloadCooldown: 30 * time.Second,
		},
	}
}
