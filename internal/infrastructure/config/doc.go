// Package config provides 12-factor configuration management for the
// curator service.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Curation: initial curation preferences (history window, locale, device)
//   - Catalog: where catalog index files are discovered, and when repeated
//     reload failures stop further reloads
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	days := cfg.Curation.HistoryDays()
//
// Environment Variables:
//   - PORT, HOST, CORS_ORIGINS, LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - UPDATE_HISTORY_DAYS, CURATOR_LOCALE, SDK_LEVEL, NATIVE_ARCH
//   - SHOW_INCOMPATIBLE, IGNORE_ANTI_FEATURES, REFRESH_ON_EMPTY, HIDDEN_IDS
//   - CATALOG_PATH, CATALOG_PATTERN
//   - CATALOG_RELOAD_FAILURES, CATALOG_RELOAD_COOLDOWN
package config
