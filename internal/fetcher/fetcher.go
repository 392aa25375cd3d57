package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/types"
)

// Fetcher is the interface for all request fetcher implementations.
type Fetcher interface {
	// Fetch retrieves the content at the given request's URL.
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}

// Router dispatches requests to the HTTP or browser fetcher according to
// Request.FetcherType. Browser requests fall back to HTTP when no browser
// is available.
type Router struct {
	http    Fetcher
	browser Fetcher
	logger  *slog.Logger
}

// NewRouter wires the configured fetchers. The browser is only launched when
// fetcher.browser_enabled is set; a launch failure degrades to HTTP only.
func NewRouter(cfg *config.Config, logger *slog.Logger) (*Router, error) {
	httpFetcher, err := NewHTTPFetcher(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create http fetcher: %w", err)
	}

	r := &Router{http: httpFetcher, logger: logger.With("component", "fetch_router")}
	if cfg.Fetcher.BrowserEnabled {
		bf, err := NewBrowserFetcher(cfg, logger)
		if err != nil {
			r.logger.Warn("browser fetcher unavailable, using http only", "error", err)
		} else {
			r.browser = bf
		}
	}
	return r, nil
}

// NewStaticRouter builds a Router from already constructed fetchers.
func NewStaticRouter(httpFetcher, browser Fetcher, logger *slog.Logger) *Router {
	return &Router{http: httpFetcher, browser: browser, logger: logger.With("component", "fetch_router")}
}

// Fetch implements Fetcher.
func (r *Router) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	if req.FetcherType == "browser" && r.browser != nil {
		return r.browser.Fetch(ctx, req)
	}
	if r.http == nil {
		return nil, types.ErrNoFetcher
	}
	return r.http.Fetch(ctx, req)
}

// HasBrowser reports whether browser requests are rendered by a real browser.
func (r *Router) HasBrowser() bool { return r.browser != nil }

// Close closes every underlying fetcher.
func (r *Router) Close() error {
	var firstErr error
	for _, f := range []Fetcher{r.http, r.browser} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Type returns the fetcher type identifier.
func (r *Router) Type() string { return "router" }
