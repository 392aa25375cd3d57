// Package keyscope provides a public SDK for embedding Keyscope as a library.
//
// Example usage:
//
//	client, err := keyscope.New(
//	    keyscope.WithSources("naver_news", "daum_news", "google_search"),
//	    keyscope.WithPages(3),
//	    keyscope.WithMaxResults(50),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	res, err := client.Search(ctx, "인공지능")
//	path, err := client.Export(ctx, res)
package keyscope

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/IshaanNene/keyscope/internal/aggregator"
	"github.com/IshaanNene/keyscope/internal/cache"
	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/parser"
	"github.com/IshaanNene/keyscope/internal/source"
	"github.com/IshaanNene/keyscope/internal/storage"
	"github.com/IshaanNene/keyscope/internal/types"
)

// Record is a single normalized search result.
type Record = types.Record

// Result is the merged outcome of a search.
type Result = aggregator.Result

// SourceInfo describes a source adapter.
type SourceInfo = source.Info

// Option configures a Client.
type Option func(*settings)

type settings struct {
	cfg      *config.Config
	sources  []string
	pages    int
	parallel bool
	logger   *slog.Logger
}

// WithSources selects the sources searched by default.
func WithSources(names ...string) Option {
	return func(s *settings) { s.sources = names }
}

// WithPages sets the number of pages requested from each source.
func WithPages(n int) Option {
	return func(s *settings) { s.pages = n }
}

// WithMaxResults caps the merged result count (clamped to 10-100).
func WithMaxResults(n int) Option {
	return func(s *settings) { s.cfg.Search.MaxResults = config.ClampResults(n) }
}

// WithParallel queries sources concurrently.
func WithParallel() Option {
	return func(s *settings) { s.parallel = true }
}

// WithoutPlaceholders disables synthetic fallback records.
func WithoutPlaceholders() Option {
	return func(s *settings) { s.cfg.Search.Placeholders = false }
}

// WithCache enables the page cache at path with the given expiry.
func WithCache(path string, ttl time.Duration) Option {
	return func(s *settings) {
		s.cfg.Advanced.CacheResults = true
		s.cfg.Cache.Path = path
		s.cfg.Advanced.CacheExpiryHours = max(1, int(ttl/time.Hour))
	}
}

// WithoutCache disables the page cache.
func WithoutCache() Option {
	return func(s *settings) { s.cfg.Advanced.CacheResults = false }
}

// WithExport sets the export directory and format.
func WithExport(dir, format string) Option {
	return func(s *settings) {
		s.cfg.Export.Dir = dir
		s.cfg.Export.Format = format
	}
}

// WithRequestDelay sets the minimum pause between page requests. Sources
// whose own pacing is slower keep it.
func WithRequestDelay(d time.Duration) Option {
	return func(s *settings) { s.cfg.Search.RequestDelay = d.Seconds() }
}

// WithBrowser enables the headless browser for script-rendered sources.
func WithBrowser(headless bool) Option {
	return func(s *settings) {
		s.cfg.Fetcher.BrowserEnabled = true
		s.cfg.Fetcher.Headless = headless
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithVerbose enables debug-level logging.
func WithVerbose() Option {
	return func(s *settings) { s.cfg.Logging.Level = "debug" }
}

// Client is the high-level API for using Keyscope as a library.
type Client struct {
	cfg     *config.Config
	opts    settings
	logger  *slog.Logger
	fetcher *fetcher.Router
	cache   *cache.SQLite
	agg     *aggregator.Aggregator
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	s := settings{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		opt(&s)
	}
	cfg := s.cfg
	if len(s.sources) > 0 {
		cfg.Search.DefaultSources = s.sources
	}
	if s.pages > 0 {
		cfg.Search.DefaultPages = s.pages
		cfg.Search.MaxPages = max(cfg.Search.MaxPages, s.pages)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logger := s.logger
	if logger == nil {
		level := slog.LevelInfo
		if cfg.Logging.Level == "debug" {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	router, err := fetcher.NewRouter(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}
	env := &source.Env{
		Fetcher:      router,
		Parser:       parser.NewCompositeParser(logger),
		Feeds:        source.NewFeedReader(router, logger),
		Faker:        source.NewRandomFaker(),
		Logger:       logger,
		Placeholders: cfg.Search.Placeholders,
		Timeout:      time.Duration(cfg.Advanced.RequestTimeout) * time.Second,
		MinDelay:     cfg.PageDelay(),
	}

	c := &Client{cfg: cfg, opts: s, logger: logger, fetcher: router}

	var aggOpts []aggregator.Option
	if cfg.Advanced.CacheResults {
		pc, err := cache.Open(cfg.Cache.Path, cfg.CacheTTL())
		if err != nil {
			router.Close()
			return nil, fmt.Errorf("open cache: %w", err)
		}
		c.cache = pc
		aggOpts = append(aggOpts, aggregator.WithCache(pc))
	}
	c.agg = aggregator.New(cfg, source.DefaultRegistry(env), logger, aggOpts...)
	return c, nil
}

// Search runs a keyword search over the configured sources.
func (c *Client) Search(ctx context.Context, keyword string) (*Result, error) {
	return c.agg.Search(ctx, aggregator.Request{
		Keyword:  keyword,
		Pages:    c.opts.pages,
		Parallel: c.opts.parallel,
	})
}

// SearchSources runs a keyword search over the named sources.
func (c *Client) SearchSources(ctx context.Context, keyword string, sources ...string) (*Result, error) {
	return c.agg.Search(ctx, aggregator.Request{
		Keyword:  keyword,
		Sources:  sources,
		Pages:    c.opts.pages,
		Parallel: c.opts.parallel,
	})
}

// Export writes res to the export directory and returns the file path.
func (c *Client) Export(ctx context.Context, res *Result) (string, error) {
	st, path, err := storage.NewFromConfig(c.cfg, res.Keyword, c.logger)
	if err != nil {
		return "", err
	}
	if err := storage.Export(ctx, st, res.Records); err != nil {
		return "", err
	}
	return path, nil
}

// Sources describes every available source.
func (c *Client) Sources() []SourceInfo {
	return c.agg.Registry().Describe()
}

// Close releases the fetchers and the cache.
func (c *Client) Close() error {
	err := c.fetcher.Close()
	if c.cache != nil {
		if cerr := c.cache.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
