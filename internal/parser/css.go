package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/keyscope/internal/types"
)

// CSSParser extracts result rows using CSS selectors via goquery.
type CSSParser struct {
	logger *slog.Logger
}

// NewCSSParser creates a new CSS selector parser.
func NewCSSParser(logger *slog.Logger) *CSSParser {
	return &CSSParser{
		logger: logger.With("component", "css_parser"),
	}
}

// ParseList implements Parser.
func (p *CSSParser) ParseList(resp *types.Response, rule ListRule) ([]Row, error) {
	doc, err := resp.Document()
	if err != nil {
		return nil, &types.ParseError{
			URL: resp.FinalURL,
			Err: err,
		}
	}

	var containers *goquery.Selection
	var used string
	for _, sel := range rule.Containers {
		if found := doc.Find(sel); found.Length() > 0 {
			containers, used = found, sel
			break
		}
	}
	if containers == nil {
		p.logger.Debug("no result containers", "url", resp.FinalURL, "selectors", rule.Containers)
		return nil, nil
	}

	var rows []Row
	var parseErr error
	containers.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if rule.Limit > 0 && len(rows) >= rule.Limit {
			return false
		}
		row := make(Row, len(rule.Fields))
		for _, field := range rule.Fields {
			val, err := applyPattern(field.Pattern, extractField(sel, field))
			if err != nil {
				parseErr = &types.ParseError{URL: resp.FinalURL, Selector: used, Err: err}
				return false
			}
			row[field.Name] = val
		}
		if !row.empty() {
			rows = append(rows, row)
		}
		return true
	})

	return rows, parseErr
}

// extractField returns the first non-empty value among the rule's selectors.
func extractField(container *goquery.Selection, field FieldRule) string {
	selectors := field.Selectors
	if len(selectors) == 0 {
		selectors = []string{""}
	}
	for _, s := range selectors {
		target := container
		if s != "" {
			target = container.Find(s).First()
		}
		if target.Length() == 0 {
			continue
		}
		if val := selectionValue(target, field.Attribute); val != "" {
			return val
		}
	}
	return ""
}

func selectionValue(sel *goquery.Selection, attribute string) string {
	switch attribute {
	case "", "text":
		return collapseSpace(sel.Text())
	case "html", "innerHTML":
		val, _ := sel.Html()
		return strings.TrimSpace(val)
	default:
		val, _ := sel.Attr(attribute)
		return strings.TrimSpace(val)
	}
}

// collapseSpace trims and folds runs of whitespace into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
