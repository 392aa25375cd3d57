// Package source implements one adapter per content platform. Every adapter
// turns a keyword and page range into uniform records, substituting
// generated placeholder records when live results are unavailable.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/observability"
	"github.com/IshaanNene/keyscope/internal/parser"
	"github.com/IshaanNene/keyscope/internal/types"
)

// Kinds of platform, used for grouping in the UI.
const (
	KindNews   = "news"
	KindSearch = "search"
	KindBlog   = "blog"
	KindSocial = "social"
	KindVideo  = "video"
)

// Info describes a source adapter.
type Info struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
	// Live is false for adapters that only ever produce placeholders.
	Live bool `json:"live"`
}

// Source queries one external platform.
type Source interface {
	// Name is the registry key, e.g. "naver_news".
	Name() string

	// Info describes the adapter.
	Info() Info

	// Search returns records for every page in q.
	Search(ctx context.Context, q types.Query) ([]types.Record, error)
}

// Paced is implemented by sources that want a pause between page requests.
type Paced interface {
	Pacer() fetcher.Pacer
}

// Env carries the collaborators shared by all adapters.
type Env struct {
	Fetcher fetcher.Fetcher
	Parser  *parser.CompositeParser
	Feeds   *FeedReader
	Faker   *Faker
	Logger  *slog.Logger

	// Placeholders enables synthetic fallback records.
	Placeholders bool

	// BaseURLs rewrites the scheme and host of a source's page URLs,
	// keyed by source name. Used to point adapters at test servers.
	BaseURLs map[string]string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MinDelay is the floor for every adapter's pause between pages.
	MinDelay time.Duration

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// rebase rewrites rawURL against the configured base for source.
func (e *Env) rebase(source, rawURL string) string {
	base, ok := e.BaseURLs[source]
	if !ok || base == "" {
		return rawURL
	}
	b, err := url.Parse(base)
	if err != nil {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Scheme, u.Host = b.Scheme, b.Host
	return u.String()
}

// fallback resolves a run that produced no live records.
func (e *Env) fallback(logger *slog.Logger, name string, q types.Query, cause error, gen func(types.Query) []types.Record) ([]types.Record, error) {
	if !e.Placeholders || gen == nil {
		if cause != nil {
			return nil, &types.SourceError{Source: name, Page: q.StartPage, Err: cause}
		}
		return nil, nil
	}

	records := gen(q)
	for i := range records {
		records[i].Placeholder = true
	}
	logger.Warn("using placeholder records", "keyword", q.Keyword, "count", len(records), "cause", cause)
	return records, nil
}

// scraper is the shared page loop behind every HTML adapter.
type scraper struct {
	info    Info
	env     *Env
	logger  *slog.Logger
	pacer   fetcher.Pacer
	dialect string
	rule    parser.ListRule

	// browser requests are rendered by the headless browser when available.
	browser      bool
	waitSelector string

	pageURL     func(keyword string, page int) string
	toRecord    func(resp *types.Response, row parser.Row) (types.Record, bool)
	placeholder func(q types.Query) []types.Record

	// feed is tried once, for the first page, when the HTML pages were empty.
	feed func(ctx context.Context, keyword string) ([]types.Record, error)
}

func newScraper(env *Env, info Info) *scraper {
	return &scraper{
		info:    info,
		env:     env,
		logger:  env.Logger.With("component", "source", "source", info.Name),
		dialect: parser.DialectCSS,
	}
}

func (s *scraper) Name() string         { return s.info.Name }
func (s *scraper) Info() Info           { return s.info }
func (s *scraper) Pacer() fetcher.Pacer { return s.pacer.AtLeast(s.env.MinDelay) }

// Search walks the page range, stopping at the first empty or failed page.
func (s *scraper) Search(ctx context.Context, q types.Query) ([]types.Record, error) {
	if q.Keyword == "" {
		return nil, types.ErrEmptyKeyword
	}

	var records []types.Record
	var cause error
	for i, page := range q.Pages() {
		if i > 0 {
			if err := s.Pacer().Wait(ctx); err != nil {
				return nil, err
			}
		}

		got, err := s.scrapePage(ctx, q.Keyword, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			observability.SourceRequests.WithLabelValues(s.info.Name, "error").Inc()
			s.logger.Warn("page failed", "page", page, "error", err)
			cause = err
			break
		}
		if len(got) == 0 {
			observability.SourceRequests.WithLabelValues(s.info.Name, "empty").Inc()
			s.logger.Debug("no results on page, stopping", "page", page)
			if len(records) == 0 {
				cause = types.ErrNoResults
			}
			break
		}
		observability.SourceRequests.WithLabelValues(s.info.Name, "ok").Inc()
		records = append(records, got...)
	}

	if len(records) == 0 && s.feed != nil && q.StartPage == 1 {
		got, err := s.feed(ctx, q.Keyword)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			s.logger.Warn("feed failed", "error", err)
			cause = err
		case len(got) > 0:
			observability.SourceRequests.WithLabelValues(s.info.Name, "feed").Inc()
			records = got
		}
	}

	if len(records) > 0 {
		return records, nil
	}
	return s.env.fallback(s.logger, s.info.Name, q, cause, s.placeholder)
}

func (s *scraper) scrapePage(ctx context.Context, keyword string, page int) ([]types.Record, error) {
	req, err := types.NewRequest(s.env.rebase(s.info.Name, s.pageURL(keyword, page)))
	if err != nil {
		return nil, err
	}
	req.Source = s.info.Name
	req.Page = page
	req.Timeout = s.env.Timeout
	if s.browser {
		req.FetcherType = "browser"
		req.WaitSelector = s.waitSelector
	}

	resp, err := s.env.Fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	rows, err := s.env.Parser.ParseWith(s.dialect, resp, s.rule)
	if err != nil {
		return nil, fmt.Errorf("parse page %d: %w", page, err)
	}

	records := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		if rec, ok := s.toRecord(resp, row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Registry maps source names to adapters.
type Registry struct {
	sources map[string]Source
}

// NewRegistry creates a registry holding the given sources.
func NewRegistry(sources ...Source) *Registry {
	r := &Registry{sources: make(map[string]Source, len(sources))}
	for _, s := range sources {
		r.Register(s)
	}
	return r
}

// DefaultRegistry builds a registry with every built-in adapter.
func DefaultRegistry(env *Env) *Registry {
	return NewRegistry(
		NewNaverNews(env),
		NewDaumNews(env),
		NewGoogleSearch(env),
		NewNaverBlog(env),
		NewTistory(env),
		NewGoogleBlogger(env),
		NewMedium(env),
		NewWordPress(env),
		NewTwitter(env),
		NewThreads(env),
		NewYouTube(env),
	)
}

// Register adds or replaces a source.
func (r *Registry) Register(s Source) {
	r.sources[s.Name()] = s
}

// Get returns the named source.
func (r *Registry) Get(name string) (Source, error) {
	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownSource, name)
	}
	return s, nil
}

// Lookup resolves a list of names, failing on the first unknown one.
func (r *Registry) Lookup(names []string) ([]Source, error) {
	out := make([]Source, 0, len(names))
	for _, n := range names {
		s, err := r.Get(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for n := range r.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Describe returns Info for every source, sorted by name.
func (r *Registry) Describe() []Info {
	infos := make([]Info, 0, len(r.sources))
	for _, n := range r.Names() {
		infos = append(infos, r.sources[n].Info())
	}
	return infos
}
