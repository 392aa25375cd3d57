package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and CLI flags.
// Priority (highest to lowest): CLI flags > env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	// KEYSCOPE_SEARCH_MAX_RESULTS overrides search.max_results
	v.SetEnvPrefix("KEYSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("keyscope")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".keyscope"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper so env overrides resolve.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("search.default_pages", cfg.Search.DefaultPages)
	v.SetDefault("search.max_pages", cfg.Search.MaxPages)
	v.SetDefault("search.default_sources", cfg.Search.DefaultSources)
	v.SetDefault("search.max_results", cfg.Search.MaxResults)
	v.SetDefault("search.request_delay", cfg.Search.RequestDelay)
	v.SetDefault("search.placeholders", cfg.Search.Placeholders)
	v.SetDefault("search.heavy_sources", cfg.Search.HeavySources)
	v.SetDefault("search.heavy_page_cap", cfg.Search.HeavyPageCap)

	v.SetDefault("fetcher.timeout", cfg.Fetcher.Timeout)
	v.SetDefault("fetcher.max_retries", cfg.Fetcher.MaxRetries)
	v.SetDefault("fetcher.retry_delay", cfg.Fetcher.RetryDelay)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)
	v.SetDefault("fetcher.rotate_user_agents", cfg.Fetcher.RotateUserAgents)
	v.SetDefault("fetcher.accept_language", cfg.Fetcher.AcceptLanguage)
	v.SetDefault("fetcher.proxy", cfg.Fetcher.Proxy)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.browser_enabled", cfg.Fetcher.BrowserEnabled)
	v.SetDefault("fetcher.headless", cfg.Fetcher.Headless)
	v.SetDefault("fetcher.browser_pool_size", cfg.Fetcher.BrowserPoolSize)

	v.SetDefault("display.table_height", cfg.Display.TableHeight)
	v.SetDefault("display.max_results_display", cfg.Display.MaxResultsDisplay)
	v.SetDefault("display.show_source_distribution", cfg.Display.ShowSourceDistribution)
	v.SetDefault("display.theme", cfg.Display.Theme)

	v.SetDefault("advanced.request_timeout", cfg.Advanced.RequestTimeout)
	v.SetDefault("advanced.cache_results", cfg.Advanced.CacheResults)
	v.SetDefault("advanced.cache_expiry_hours", cfg.Advanced.CacheExpiryHours)
	v.SetDefault("advanced.parallel_requests", cfg.Advanced.ParallelRequests)
	v.SetDefault("advanced.parallel_limit", cfg.Advanced.ParallelLimit)
	v.SetDefault("advanced.dedup", cfg.Advanced.Dedup)

	v.SetDefault("export.dir", cfg.Export.Dir)
	v.SetDefault("export.format", cfg.Export.Format)

	v.SetDefault("cache.path", cfg.Cache.Path)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.uri", cfg.Storage.URI)
	v.SetDefault("storage.database", cfg.Storage.Database)
	v.SetDefault("storage.collection", cfg.Storage.Collection)

	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
