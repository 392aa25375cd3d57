package types

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Request is one page fetch issued by a source adapter.
type Request struct {
	URL     *url.URL
	Method  string
	Headers http.Header

	// MaxRetries bounds retries of retryable failures; RetryCount is the
	// number already spent.
	MaxRetries int
	RetryCount int

	// Timeout, when set, overrides the fetcher's client timeout.
	Timeout time.Duration

	// Source and Page identify the adapter and result page for logs and metrics.
	Source string
	Page   int

	// FetcherType is "http" or "browser". Browser requests fall back to
	// HTTP when no browser is running.
	FetcherType  string
	WaitSelector string
}

// NewRequest parses rawURL and returns a GET request with one retry.
// Only http and https URLs are accepted.
func NewRequest(rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return &Request{
		URL:         u,
		Method:      http.MethodGet,
		Headers:     make(http.Header),
		MaxRetries:  1,
		FetcherType: "http",
	}, nil
}

// URLString returns the request URL, or "" when unset.
func (r *Request) URLString() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}

// Domain returns the request hostname.
func (r *Request) Domain() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Hostname()
}
