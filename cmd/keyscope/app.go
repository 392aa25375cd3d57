package main

import (
	"log/slog"
	"time"

	"github.com/IshaanNene/keyscope/internal/aggregator"
	"github.com/IshaanNene/keyscope/internal/cache"
	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/parser"
	"github.com/IshaanNene/keyscope/internal/source"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	fetcher  *fetcher.Router
	cache    *cache.SQLite
	registry *source.Registry
	agg      *aggregator.Aggregator
}

// newApp wires fetchers, parsers, sources, the page cache and the aggregator.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	router, err := fetcher.NewRouter(cfg, logger)
	if err != nil {
		return nil, err
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

	a := &app{
		cfg:      cfg,
		logger:   logger,
		fetcher:  router,
		registry: source.DefaultRegistry(env),
	}

	var opts []aggregator.Option
	if cfg.Advanced.CacheResults {
		c, err := cache.Open(cfg.Cache.Path, cfg.CacheTTL())
		if err != nil {
			logger.Warn("page cache unavailable, continuing without it", "path", cfg.Cache.Path, "error", err)
		} else {
			a.cache = c
			opts = append(opts, aggregator.WithCache(c))
		}
	}
	a.agg = aggregator.New(cfg, a.registry, logger, opts...)
	return a, nil
}

// Close releases the fetchers and the cache.
func (a *app) Close() {
	if err := a.fetcher.Close(); err != nil {
		a.logger.Debug("fetcher close failed", "error", err)
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Debug("cache close failed", "error", err)
		}
	}
}
