package pipeline

import (
	"html"
	"regexp"
	"strings"

	"github.com/IshaanNene/keyscope/internal/types"
)

// HTMLSanitizeMiddleware strips HTML tags and entities from the title,
// content and publisher columns. Snippets scraped from search pages
// often carry <b> highlights around the keyword.
type HTMLSanitizeMiddleware struct {
	stripRe *regexp.Regexp
}

func NewHTMLSanitizeMiddleware() *HTMLSanitizeMiddleware {
	return &HTMLSanitizeMiddleware{
		stripRe: regexp.MustCompile(`<[^>]*>`),
	}
}

func (m *HTMLSanitizeMiddleware) Name() string { return "html_sanitize" }

func (m *HTMLSanitizeMiddleware) Process(rec *types.Record) (*types.Record, error) {
	for _, p := range []*string{&rec.Title, &rec.Content, &rec.Publisher} {
		if *p == "" {
			continue
		}
		cleaned := m.stripRe.ReplaceAllString(*p, "")
		cleaned = html.UnescapeString(cleaned)
		// Social posts keep their paragraph break before the engagement line.
		lines := strings.Split(cleaned, "\n")
		out := lines[:0]
		for _, line := range lines {
			out = append(out, strings.Join(strings.Fields(line), " "))
		}
		*p = strings.TrimSpace(strings.Join(out, "\n"))
	}
	return rec, nil
}
