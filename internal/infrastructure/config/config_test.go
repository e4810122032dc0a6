package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.Equal(t, "14", cfg.Curation.UpdateHistoryDays)
	assert.Equal(t, 14, cfg.Curation.HistoryDays())
	assert.Equal(t, "en", cfg.Curation.Locale)
	assert.Equal(t, 34, cfg.Curation.SDKLevel)
	assert.Equal(t, []string{"arm64-v8a", "armeabi-v7a"}, cfg.Curation.NativeArch)
	assert.True(t, cfg.Curation.RefreshOnEmpty)

	assert.Empty(t, cfg.Catalog.Path)
	assert.NotEmpty(t, cfg.Catalog.Pattern)
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Curation, cfg.Curation)
	assert.Equal(t, Default().Catalog, cfg.Catalog)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                 "9000",
		"HOST":                 "127.0.0.1",
		"LOG_LEVEL":            "debug",
		"LOG_DEV":              "true",
		"RATE_LIMIT_RPS":       "500",
		"RATE_LIMIT_BURST":     "1000",
		"RATE_LIMIT_ENABLED":   "false",
		"UPDATE_HISTORY_DAYS":  "30",
		"CURATOR_LOCALE":       "de",
		"SDK_LEVEL":            "28",
		"NATIVE_ARCH":          "x86_64",
		"SHOW_INCOMPATIBLE":    "true",
		"IGNORE_ANTI_FEATURES": "true",
		"REFRESH_ON_EMPTY":     "false",
		"CATALOG_PATH":         "/srv/repo",
		"CATALOG_PATTERN":      "*.json",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)

	assert.Equal(t, 30, cfg.Curation.HistoryDays())
	assert.Equal(t, "de", cfg.Curation.Locale)
	assert.Equal(t, 28, cfg.Curation.SDKLevel)
	assert.Equal(t, []string{"x86_64"}, cfg.Curation.NativeArch)
	assert.True(t, cfg.Curation.ShowIncompatible)
	assert.True(t, cfg.Curation.IgnoreAntiFeatures)
	assert.False(t, cfg.Curation.RefreshOnEmpty)

	assert.Equal(t, "/srv/repo", cfg.Catalog.Path)
	assert.Equal(t, "*.json", cfg.Catalog.Pattern)
}

func TestReloadBreakerSettings(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint32(3), cfg.Catalog.ReloadFailures)
	assert.Equal(t, 30*time.Second, cfg.Catalog.ReloadCooldown)

	t.Setenv("CATALOG_RELOAD_FAILURES", "5")
	t.Setenv("CATALOG_RELOAD_COOLDOWN", "2m")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), loaded.Catalog.ReloadFailures)
	assert.Equal(t, 2*time.Minute, loaded.Catalog.ReloadCooldown)
}

func TestLoadInvalidNumber(t *testing.T) {
	t.Setenv("SDK_LEVEL", "thirty")

	_, err := Load()
	assert.Error(t, err)

	// falls back to defaults
	cfg := LoadOrDefault()
	assert.Equal(t, 34, cfg.Curation.SDKLevel)
}

func TestMalformedHistoryDaysIsNotAnError(t *testing.T) {
	t.Setenv("UPDATE_HISTORY_DAYS", "two weeks")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultHistoryDays, cfg.Curation.HistoryDays())
}

func TestParseHistoryDays(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"14", 14},
		{"0", 0},
		{"90", 90},
		{" 7 ", 7},
		{"", DefaultHistoryDays},
		{"abc", DefaultHistoryDays},
		{"-5", DefaultHistoryDays},
		{"3.5", DefaultHistoryDays},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHistoryDays(tt.raw))
		})
	}
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantPort string
		wantHost string
	}{
		{"default values", "", "", "8000", "0.0.0.0"},
		{"custom port", "9000", "", "9000", "0.0.0.0"},
		{"custom host", "", "localhost", "8000", "localhost"},
		{"custom port and host", "3000", "127.0.0.1", "3000", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.port != "" {
				t.Setenv("PORT", tt.port)
			}
			if tt.host != "" {
				t.Setenv("HOST", tt.host)
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, tt.wantHost, cfg.Server.Host)
		})
	}
}
