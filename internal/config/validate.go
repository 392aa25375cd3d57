package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Search.DefaultPages < 1 {
		return fmt.Errorf("search.default_pages must be >= 1, got %d", cfg.Search.DefaultPages)
	}
	if cfg.Search.MaxPages < cfg.Search.DefaultPages {
		return fmt.Errorf("search.max_pages (%d) must be >= search.default_pages (%d)",
			cfg.Search.MaxPages, cfg.Search.DefaultPages)
	}
	if cfg.Search.MaxResults < MinResults || cfg.Search.MaxResults > MaxResults {
		return fmt.Errorf("search.max_results must be %d-%d, got %d", MinResults, MaxResults, cfg.Search.MaxResults)
	}
	if cfg.Search.RequestDelay < 0 {
		return fmt.Errorf("search.request_delay must be >= 0")
	}
	if cfg.Search.HeavyPageCap < 1 {
		return fmt.Errorf("search.heavy_page_cap must be >= 1, got %d", cfg.Search.HeavyPageCap)
	}
	if len(cfg.Search.DefaultSources) == 0 {
		return fmt.Errorf("search.default_sources must name at least one source")
	}

	if cfg.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be > 0")
	}
	if cfg.Fetcher.MaxRetries < 0 {
		return fmt.Errorf("fetcher.max_retries must be >= 0, got %d", cfg.Fetcher.MaxRetries)
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.Proxy != "" {
		if _, err := url.Parse(cfg.Fetcher.Proxy); err != nil {
			return fmt.Errorf("invalid proxy URL %q: %w", cfg.Fetcher.Proxy, err)
		}
	}

	if cfg.Advanced.CacheExpiryHours < 0 {
		return fmt.Errorf("advanced.cache_expiry_hours must be >= 0")
	}
	if cfg.Advanced.ParallelLimit < 1 {
		return fmt.Errorf("advanced.parallel_limit must be >= 1, got %d", cfg.Advanced.ParallelLimit)
	}

	if !IsExportFormat(cfg.Export.Format) {
		return fmt.Errorf("export.format %q is not supported (valid: xlsx, json, jsonl, csv)", cfg.Export.Format)
	}

	switch cfg.Storage.Type {
	case "", "none":
	case "mongodb":
		if cfg.Storage.URI == "" {
			return fmt.Errorf("storage.uri is required for mongodb")
		}
	default:
		return fmt.Errorf("storage.type must be 'none' or 'mongodb', got %q", cfg.Storage.Type)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// Result cap bounds accepted from users.
const (
	MinResults = 10
	MaxResults = 100
)

// ClampResults bounds a requested result cap to [MinResults, MaxResults].
func ClampResults(n int) int {
	if n < MinResults {
		return MinResults
	}
	if n > MaxResults {
		return MaxResults
	}
	return n
}

// IsExportFormat reports whether format names a supported export file format.
func IsExportFormat(format string) bool {
	switch format {
	case "xlsx", "json", "jsonl", "csv":
		return true
	}
	return false
}
