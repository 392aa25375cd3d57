package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	ErrTimeout       = errors.New("request timed out")
	ErrMaxRetries    = errors.New("max retries exceeded")
	ErrBlocked       = errors.New("blocked by bot protection")
	ErrEmptyResponse = errors.New("empty response body")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrEmptyKeyword  = errors.New("keyword must not be empty")
	ErrUnknownSource = errors.New("unknown source")
	ErrNoResults     = errors.New("no results")
	ErrNoFetcher     = errors.New("no fetcher available for request")
)

// FetchError is a failed page fetch. Retryable marks rate limits, 5xx
// responses and transient network errors.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration // populated from Retry-After header on HTTP 429
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur during parsing.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// SourceError wraps a failure of one source adapter on one page.
type SourceError struct {
	Source string
	Page   int
	Err    error
}

func (e *SourceError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("source %s (page %d): %v", e.Source, e.Page, e.Err)
	}
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the record pipeline.
type PipelineError struct {
	Stage  string
	Record *Record
	Err    error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
