// Package aggregator fans a keyword search out over the selected source
// adapters and merges their records into one capped, source-tagged result.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/IshaanNene/keyscope/internal/cache"
	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/observability"
	"github.com/IshaanNene/keyscope/internal/pipeline"
	"github.com/IshaanNene/keyscope/internal/source"
	"github.com/IshaanNene/keyscope/internal/types"
)

// Request describes one aggregated search.
type Request struct {
	Keyword    string   `json:"keyword"`
	Sources    []string `json:"sources,omitempty"`
	Pages      int      `json:"pages,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
	Parallel   bool     `json:"parallel,omitempty"`
}

// Result is the merged outcome of a search.
type Result struct {
	RunID        string            `json:"run_id"`
	Keyword      string            `json:"keyword"`
	Sources      []string          `json:"sources"`
	Records      []types.Record    `json:"records"`
	PerSource    map[string]int    `json:"per_source"`
	Errors       map[string]string `json:"errors,omitempty"`
	Placeholders int               `json:"placeholders"`
	Dropped      int               `json:"dropped"`
	Started      time.Time         `json:"started"`
	Duration     time.Duration     `json:"duration"`
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithCache enables the page cache.
func WithCache(c cache.Cache) Option {
	return func(a *Aggregator) { a.cache = c }
}

// WithoutPacing disables the delay between page requests.
func WithoutPacing() Option {
	return func(a *Aggregator) { a.pace = false }
}

// Aggregator runs searches across a source registry.
type Aggregator struct {
	cfg      *config.Config
	registry *source.Registry
	cache    cache.Cache
	pace     bool
	logger   *slog.Logger

	purgeOnce sync.Once
}

// New creates an Aggregator.
func New(cfg *config.Config, registry *source.Registry, logger *slog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		cfg:      cfg,
		registry: registry,
		pace:     true,
		logger:   logger.With("component", "aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the source registry.
func (a *Aggregator) Registry() *source.Registry { return a.registry }

// Normalize fills request defaults from config and clamps ranges.
func (a *Aggregator) Normalize(req Request) (Request, error) {
	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Keyword == "" {
		return req, types.ErrEmptyKeyword
	}
	if len(req.Sources) == 0 {
		req.Sources = slices.Clone(a.cfg.Search.DefaultSources)
	}
	if _, err := a.registry.Lookup(req.Sources); err != nil {
		return req, err
	}
	if req.Pages <= 0 {
		req.Pages = a.cfg.Search.DefaultPages
	}
	req.Pages = max(1, min(req.Pages, a.cfg.Search.MaxPages))
	if req.MaxResults <= 0 {
		req.MaxResults = a.cfg.Search.MaxResults
	}
	req.MaxResults = config.ClampResults(req.MaxResults)
	return req, nil
}

// pagesFor applies the page cap for slow or heavily rate-limited sources.
func (a *Aggregator) pagesFor(name string, pages int) int {
	if slices.Contains(a.cfg.Search.HeavySources, name) && a.cfg.Search.HeavyPageCap > 0 {
		return min(pages, a.cfg.Search.HeavyPageCap)
	}
	return pages
}

// Search runs the request. Per-source failures are reported in Result.Errors;
// only invalid requests and context cancellation return an error.
func (a *Aggregator) Search(ctx context.Context, req Request) (*Result, error) {
	req, err := a.Normalize(req)
	if err != nil {
		return nil, err
	}
	sources, _ := a.registry.Lookup(req.Sources)
	a.purgeCache(ctx)

	res := &Result{
		RunID:     uuid.NewString(),
		Keyword:   req.Keyword,
		Sources:   req.Sources,
		PerSource: make(map[string]int, len(sources)),
		Errors:    make(map[string]string),
		Started:   time.Now(),
	}
	logger := a.logger.With("run_id", res.RunID, "keyword", req.Keyword)
	logger.Info("search started", "sources", req.Sources, "pages", req.Pages, "max_results", req.MaxResults, "parallel", req.Parallel)

	batches := make([][]types.Record, len(sources))
	errs := make([]error, len(sources))

	if req.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		if limit := a.cfg.Advanced.ParallelLimit; limit > 0 {
			g.SetLimit(limit)
		}
		for i, src := range sources {
			g.Go(func() error {
				batches[i], errs[i] = a.runSource(gctx, src, req, nil)
				return ctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		collected := 0
		for i, src := range sources {
			if collected >= req.MaxResults {
				logger.Debug("result cap reached, skipping remaining sources", "collected", collected)
				break
			}
			batches[i], errs[i] = a.runSource(ctx, src, req, &collected)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	var merged []types.Record
	for i, src := range sources {
		if errs[i] != nil {
			res.Errors[src.Name()] = errs[i].Error()
			observability.Global.SourceErrors.Add(1)
			logger.Warn("source failed", "source", src.Name(), "error", errs[i])
		}
		for _, rec := range batches[i] {
			rec.Source = src.Name()
			merged = append(merged, rec)
		}
	}

	cleaned, dropped, err := pipeline.Default(a.cfg, a.logger).Run(merged)
	if err != nil {
		return nil, fmt.Errorf("process records: %w", err)
	}
	res.Dropped = dropped
	if len(cleaned) > req.MaxResults {
		cleaned = cleaned[:req.MaxResults]
	}
	res.Records = cleaned

	for _, rec := range res.Records {
		res.PerSource[rec.Source]++
		if rec.Placeholder {
			res.Placeholders++
		}
		observability.SourceRecords.WithLabelValues(rec.Source, strconv.FormatBool(rec.Placeholder)).Inc()
	}
	res.Duration = time.Since(res.Started)

	observability.Global.Searches.Add(1)
	observability.Global.Records.Add(int64(len(res.Records)))
	observability.Global.Placeholders.Add(int64(res.Placeholders))

	logger.Info("search finished",
		"records", len(res.Records),
		"placeholders", res.Placeholders,
		"errors", len(res.Errors),
		"duration", res.Duration,
	)
	return res, nil
}

// runSource walks the page range of one source. collected, when non-nil,
// is the shared running total used to stop early in sequential mode.
func (a *Aggregator) runSource(ctx context.Context, src source.Source, req Request, collected *int) ([]types.Record, error) {
	name := src.Name()
	pages := a.pagesFor(name, req.Pages)
	logger := a.logger.With("source", name)

	// Offline sources generate the whole range in one call.
	if !src.Info().Live {
		q := types.Query{Keyword: req.Keyword, StartPage: 1, MaxPages: pages}
		records, err := src.Search(ctx, q)
		if collected != nil {
			*collected += len(records)
		}
		return records, err
	}

	var out []types.Record
	fetched := false
	for page := 1; page <= pages; page++ {
		if collected != nil && *collected >= req.MaxResults {
			break
		}

		if cached, ok := a.cacheGet(ctx, req.Keyword, name, page); ok {
			if len(cached) == 0 {
				break
			}
			out = append(out, cached...)
			if collected != nil {
				*collected += len(cached)
			}
			continue
		}

		if fetched && a.pace {
			if p, ok := src.(source.Paced); ok {
				if err := p.Pacer().Wait(ctx); err != nil {
					return out, err
				}
			}
		}
		fetched = true

		records, err := src.Search(ctx, types.Query{Keyword: req.Keyword, StartPage: page, MaxPages: 1})
		if err != nil {
			if errors.Is(err, types.ErrNoResults) && len(out) > 0 {
				break
			}
			return out, err
		}

		if hasPlaceholders(records) {
			// Synthetic records only stand in for a source that produced nothing.
			if len(out) == 0 {
				out = records
				if collected != nil {
					*collected += len(records)
				}
			} else {
				logger.Debug("discarding placeholders after live pages", "page", page)
			}
			break
		}

		a.cachePut(ctx, req.Keyword, name, page, records)
		if len(records) == 0 {
			break
		}
		out = append(out, records...)
		if collected != nil {
			*collected += len(records)
		}
	}
	return out, nil
}

func (a *Aggregator) cacheGet(ctx context.Context, keyword, name string, page int) ([]types.Record, bool) {
	if a.cache == nil || !a.cfg.Advanced.CacheResults {
		return nil, false
	}
	records, ok, err := a.cache.Get(ctx, keyword, name, page)
	if err != nil {
		a.logger.Warn("cache read failed", "source", name, "page", page, "error", err)
		return nil, false
	}
	return records, ok
}

func (a *Aggregator) cachePut(ctx context.Context, keyword, name string, page int, records []types.Record) {
	if a.cache == nil || !a.cfg.Advanced.CacheResults {
		return
	}
	if err := a.cache.Put(ctx, keyword, name, page, records); err != nil {
		a.logger.Warn("cache write failed", "source", name, "page", page, "error", err)
	}
}

func (a *Aggregator) purgeCache(ctx context.Context) {
	if a.cache == nil {
		return
	}
	a.purgeOnce.Do(func() {
		n, err := a.cache.Purge(ctx)
		if err != nil {
			a.logger.Warn("cache purge failed", "error", err)
			return
		}
		if n > 0 {
			a.logger.Debug("purged expired cache entries", "count", n)
		}
	})
}

func hasPlaceholders(records []types.Record) bool {
	return len(records) > 0 && records[0].Placeholder
}
