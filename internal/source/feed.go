package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/types"
)

// FeedReader fetches RSS/Atom feeds through the shared fetcher and parses
// them with gofeed.
type FeedReader struct {
	fetcher fetcher.Fetcher
	parser  *gofeed.Parser
	logger  *slog.Logger
}

// NewFeedReader creates a feed reader.
func NewFeedReader(f fetcher.Fetcher, logger *slog.Logger) *FeedReader {
	return &FeedReader{
		fetcher: f,
		parser:  gofeed.NewParser(),
		logger:  logger.With("component", "feed_reader"),
	}
}

// Fetch retrieves and parses the feed at rawURL.
func (r *FeedReader) Fetch(ctx context.Context, source, rawURL string, timeout time.Duration) (*gofeed.Feed, error) {
	req, err := types.NewRequest(rawURL)
	if err != nil {
		return nil, err
	}
	req.Source = source
	req.Timeout = timeout
	req.Headers.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := r.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	feed, err := r.parser.ParseString(string(resp.Body))
	if err != nil {
		return nil, &types.ParseError{URL: rawURL, Selector: "feed", Err: err}
	}
	r.logger.Debug("feed parsed", "url", rawURL, "items", len(feed.Items))
	return feed, nil
}

// itemContent falls back from content to description to title.
func itemContent(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}
	if item.Content != "" {
		return item.Content
	}
	return item.Title
}

// itemAuthor returns the first author name, or def.
func itemAuthor(item *gofeed.Item, def string) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return def
}

// itemDate formats the item's publish (or update) time, or returns def.
func itemDate(item *gofeed.Item, layout, def string) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.Format(layout)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.Format(layout)
	case item.Published != "":
		return item.Published
	}
	return def
}

// plainText strips markup from a feed description.
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return squash(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return squash(s)
	}
	return squash(doc.Text())
}

// truncateRunes cuts s to n runes, appending "..." when it was longer.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
