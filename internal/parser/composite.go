package parser

import (
	"log/slog"

	"github.com/IshaanNene/keyscope/internal/types"
)

// CompositeParser holds one parser per selector dialect and dispatches a
// ListRule to the right one.
type CompositeParser struct {
	css    *CSSParser
	xpath  *XPathParser
	logger *slog.Logger
}

// NewCompositeParser creates a parser that handles CSS and XPath rules.
func NewCompositeParser(logger *slog.Logger) *CompositeParser {
	return &CompositeParser{
		css:    NewCSSParser(logger),
		xpath:  NewXPathParser(logger),
		logger: logger.With("component", "composite_parser"),
	}
}

// Dialect names accepted by ParseWith.
const (
	DialectCSS   = "css"
	DialectXPath = "xpath"
)

// ParseWith parses resp with the parser for dialect. Unknown dialects use CSS.
func (p *CompositeParser) ParseWith(dialect string, resp *types.Response, rule ListRule) ([]Row, error) {
	if dialect == DialectXPath {
		return p.xpath.ParseList(resp, rule)
	}
	return p.css.ParseList(resp, rule)
}

// ParseList implements Parser using CSS selectors.
func (p *CompositeParser) ParseList(resp *types.Response, rule ListRule) ([]Row, error) {
	return p.css.ParseList(resp, rule)
}
