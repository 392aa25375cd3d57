package types

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Response is a fetched page. Body is already decompressed and UTF-8.
type Response struct {
	StatusCode  int
	Headers     http.Header
	Body        []byte
	Request     *Request
	ContentType string
	FinalURL    string // after redirects
	Duration    time.Duration

	doc *goquery.Document
}

// NewResponse wraps an http.Response whose body has been read into body.
func NewResponse(req *Request, httpResp *http.Response, body []byte, duration time.Duration) *Response {
	return &Response{
		StatusCode:  httpResp.StatusCode,
		Headers:     httpResp.Header,
		Body:        body,
		Request:     req,
		ContentType: httpResp.Header.Get("Content-Type"),
		FinalURL:    httpResp.Request.URL.String(),
		Duration:    duration,
	}
}

// NewBrowserResponse wraps the rendered HTML of a headless browser page.
func NewBrowserResponse(req *Request, statusCode int, body []byte, finalURL string, duration time.Duration) *Response {
	return &Response{
		StatusCode:  statusCode,
		Headers:     make(http.Header),
		Body:        body,
		Request:     req,
		ContentType: "text/html",
		FinalURL:    finalURL,
		Duration:    duration,
	}
}

// Document parses the body once and caches the result.
func (r *Response) Document() (*goquery.Document, error) {
	if r.doc != nil {
		return r.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		return nil, err
	}
	if u, err := url.Parse(r.FinalURL); err == nil {
		doc.Url = u
	}
	r.doc = doc
	return doc, nil
}

// Resolve makes href absolute against the final response URL. Relative
// links on a response without a usable base are returned as parsed.
func (r *Response) Resolve(href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	base, err := url.Parse(r.FinalURL)
	if err != nil || base.Host == "" {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
