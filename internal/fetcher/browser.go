package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/observability"
	"github.com/IshaanNene/keyscope/internal/types"
)

// BrowserFetcher implements Fetcher using a headless Chromium via Rod.
// Used for JavaScript-rendered result pages such as YouTube search.
type BrowserFetcher struct {
	browser    *rod.Browser
	cfg        *config.FetcherConfig
	logger     *slog.Logger
	userAgents *UserAgentPool
	pagePool   chan *rod.Page
}

// NewBrowserFetcher launches a browser and returns a fetcher bound to it.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger) (*BrowserFetcher, error) {
	bf := &BrowserFetcher{
		cfg:        &cfg.Fetcher,
		logger:     logger.With("component", "browser_fetcher"),
		userAgents: NewUserAgentPool(cfg.Fetcher.UserAgents, cfg.Fetcher.RotateUserAgents),
	}

	launchURL, err := bf.launchBrowser()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	size := cfg.Fetcher.BrowserPoolSize
	if size < 1 {
		size = 1
	}
	bf.browser = browser
	bf.pagePool = make(chan *rod.Page, size)

	bf.logger.Info("browser fetcher ready", "pool_size", size, "headless", cfg.Fetcher.Headless)
	return bf, nil
}

// launchBrowser starts a Chromium instance with appropriate flags.
func (bf *BrowserFetcher) launchBrowser() (string, error) {
	l := launcher.New().
		Headless(bf.cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	if bf.cfg.Proxy != "" {
		l = l.Proxy(bf.cfg.Proxy)
	}

	return l.Launch()
}

// Fetch navigates to a URL and returns the rendered page content.
func (bf *BrowserFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	start := time.Now()

	page, err := bf.getPage()
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err, Retryable: true}
	}
	defer bf.putPage(page)
	page = page.Context(ctx)

	err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      bf.userAgents.Next(),
		AcceptLanguage: bf.cfg.AcceptLanguage,
	})
	if err != nil {
		bf.logger.Warn("failed to set user agent", "error", err)
	}

	timeout := bf.cfg.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	if err := page.Timeout(timeout).Navigate(req.URLString()); err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err, Retryable: true}
	}

	if err := page.Timeout(timeout).WaitStable(300 * time.Millisecond); err != nil {
		bf.logger.Warn("page stability timeout, continuing", "url", req.URLString(), "error", err)
	}

	if req.WaitSelector != "" {
		if _, err := page.Timeout(timeout).Element(req.WaitSelector); err != nil {
			bf.logger.Warn("wait selector timeout", "selector", req.WaitSelector, "error", err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err, Retryable: true}
	}

	finalURL := req.URLString()
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	observability.FetchDuration.WithLabelValues(req.Domain()).Observe(duration.Seconds())

	// Rod does not expose the document status code
	resp := types.NewBrowserResponse(req, 200, []byte(html), finalURL, duration)
	if detector, hit := Analyze(resp, DefaultDetectors()); hit {
		observability.Blocks.WithLabelValues(req.Source, detector).Inc()
		return nil, &types.FetchError{URL: req.URLString(), Err: fmt.Errorf("%w (%s)", types.ErrBlocked, detector)}
	}

	bf.logger.Debug("browser fetch complete",
		"url", req.URLString(),
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return resp, nil
}

// Close shuts down the browser and releases resources.
func (bf *BrowserFetcher) Close() error {
	close(bf.pagePool)
	for page := range bf.pagePool {
		_ = page.Close()
	}
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}

// getPage retrieves a page from the pool or opens a new stealth page.
func (bf *BrowserFetcher) getPage() (*rod.Page, error) {
	select {
	case page := <-bf.pagePool:
		return page, nil
	default:
		return stealth.Page(bf.browser)
	}
}

// putPage returns a page to the pool.
func (bf *BrowserFetcher) putPage(page *rod.Page) {
	_ = page.Navigate("about:blank")

	select {
	case bf.pagePool <- page:
	default:
		_ = page.Close()
	}
}
