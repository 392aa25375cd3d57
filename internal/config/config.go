package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for Keyscope.
type Config struct {
	Search   SearchConfig   `mapstructure:"search"   yaml:"search" json:"search"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher" json:"fetcher"`
	Display  DisplayConfig  `mapstructure:"display"  yaml:"display" json:"display"`
	Advanced AdvancedConfig `mapstructure:"advanced" yaml:"advanced" json:"advanced"`
	Export   ExportConfig   `mapstructure:"export"   yaml:"export" json:"export"`
	Cache    CacheConfig    `mapstructure:"cache"    yaml:"cache" json:"cache"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage" json:"storage"`
	Server   ServerConfig   `mapstructure:"server"   yaml:"server" json:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging" json:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics" json:"metrics"`
}

// SearchConfig controls how keyword searches fan out to sources.
type SearchConfig struct {
	DefaultPages   int      `mapstructure:"default_pages"   yaml:"default_pages" json:"default_pages"`
	MaxPages       int      `mapstructure:"max_pages"       yaml:"max_pages" json:"max_pages"`
	DefaultSources []string `mapstructure:"default_sources" yaml:"default_sources" json:"default_sources"`
	MaxResults     int      `mapstructure:"max_results"     yaml:"max_results" json:"max_results"`
	RequestDelay   float64  `mapstructure:"request_delay"   yaml:"request_delay" json:"request_delay"` // seconds
	Placeholders   bool     `mapstructure:"placeholders"    yaml:"placeholders" json:"placeholders"`
	HeavySources   []string `mapstructure:"heavy_sources"   yaml:"heavy_sources" json:"heavy_sources"`
	HeavyPageCap   int      `mapstructure:"heavy_page_cap"  yaml:"heavy_page_cap" json:"heavy_page_cap"`
}

// FetcherConfig controls the request fetcher.
type FetcherConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"            yaml:"timeout" json:"timeout"`
	MaxRetries       int           `mapstructure:"max_retries"        yaml:"max_retries" json:"max_retries"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"        yaml:"retry_delay" json:"retry_delay"`
	UserAgents       []string      `mapstructure:"user_agents"        yaml:"user_agents" json:"user_agents"`
	RotateUserAgents bool          `mapstructure:"rotate_user_agents" yaml:"rotate_user_agents" json:"rotate_user_agents"`
	AcceptLanguage   string        `mapstructure:"accept_language"    yaml:"accept_language" json:"accept_language"`
	Proxy            string        `mapstructure:"proxy"              yaml:"proxy" json:"proxy"`
	MaxBodySize      int64         `mapstructure:"max_body_size"      yaml:"max_body_size" json:"max_body_size"`
	BrowserEnabled   bool          `mapstructure:"browser_enabled"    yaml:"browser_enabled" json:"browser_enabled"`
	Headless         bool          `mapstructure:"headless"           yaml:"headless" json:"headless"`
	BrowserPoolSize  int           `mapstructure:"browser_pool_size"  yaml:"browser_pool_size" json:"browser_pool_size"`
}

// DisplayConfig holds dashboard presentation settings.
type DisplayConfig struct {
	TableHeight            int    `mapstructure:"table_height"             yaml:"table_height" json:"table_height"`
	MaxResultsDisplay      int    `mapstructure:"max_results_display"      yaml:"max_results_display" json:"max_results_display"`
	ShowSourceDistribution bool   `mapstructure:"show_source_distribution" yaml:"show_source_distribution" json:"show_source_distribution"`
	Theme                  string `mapstructure:"theme"                    yaml:"theme" json:"theme"`
}

// AdvancedConfig holds caching and concurrency knobs.
type AdvancedConfig struct {
	RequestTimeout   int  `mapstructure:"request_timeout"    yaml:"request_timeout" json:"request_timeout"` // seconds
	CacheResults     bool `mapstructure:"cache_results"      yaml:"cache_results" json:"cache_results"`
	CacheExpiryHours int  `mapstructure:"cache_expiry_hours" yaml:"cache_expiry_hours" json:"cache_expiry_hours"`
	ParallelRequests bool `mapstructure:"parallel_requests"  yaml:"parallel_requests" json:"parallel_requests"`
	ParallelLimit    int  `mapstructure:"parallel_limit"     yaml:"parallel_limit" json:"parallel_limit"`
	Dedup            bool `mapstructure:"dedup"              yaml:"dedup" json:"dedup"`
}

// ExportConfig controls where merged results are written.
type ExportConfig struct {
	Dir    string `mapstructure:"dir"    yaml:"dir" json:"dir"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// CacheConfig controls the page cache database.
type CacheConfig struct {
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

// StorageConfig controls the optional document sink.
type StorageConfig struct {
	Type       string `mapstructure:"type"       yaml:"type" json:"type"`
	URI        string `mapstructure:"uri"        yaml:"uri" json:"uri"`
	Database   string `mapstructure:"database"   yaml:"database" json:"database"`
	Collection string `mapstructure:"collection" yaml:"collection" json:"collection"`
}

// ServerConfig controls the dashboard/API server.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port int    `mapstructure:"port" yaml:"port" json:"port"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path" json:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			DefaultPages:   5,
			MaxPages:       20,
			DefaultSources: []string{"naver_news", "google_search"},
			MaxResults:     50,
			RequestDelay:   1.5,
			Placeholders:   true,
			HeavySources:   []string{"google_search", "youtube", "medium", "twitter", "threads"},
			HeavyPageCap:   3,
		},
		Fetcher: FetcherConfig{
			Timeout:    10 * time.Second,
			MaxRetries: 1,
			RetryDelay: 2 * time.Second,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
			},
			RotateUserAgents: true,
			AcceptLanguage:   "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7",
			MaxBodySize:      10 * 1024 * 1024, // 10MB
			Headless:         true,
			BrowserPoolSize:  2,
		},
		Display: DisplayConfig{
			TableHeight:            600,
			MaxResultsDisplay:      100,
			ShowSourceDistribution: true,
			Theme:                  "dark",
		},
		Advanced: AdvancedConfig{
			RequestTimeout:   10,
			CacheResults:     true,
			CacheExpiryHours: 24,
			ParallelLimit:    4,
		},
		Export: ExportConfig{
			Dir:    "downloads",
			Format: "xlsx",
		},
		Cache: CacheConfig{
			Path: ".keyscope/cache.db",
		},
		Storage: StorageConfig{
			Type:       "none",
			Database:   "keyscope",
			Collection: "records",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// CacheTTL returns the cache expiry as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Advanced.CacheExpiryHours) * time.Hour
}

// PageDelay returns search.request_delay as a duration. It is the floor for
// every adapter's pause between pages.
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.Search.RequestDelay * float64(time.Second))
}
