package parser

import (
	"bytes"
	"log/slog"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/keyscope/internal/types"
)

// XPathParser extracts result rows using XPath expressions. Container
// selectors are absolute; field selectors are evaluated relative to the
// container node (e.g. ".//a[@class='f_link_b']").
type XPathParser struct {
	logger *slog.Logger
}

// NewXPathParser creates a new XPath parser.
func NewXPathParser(logger *slog.Logger) *XPathParser {
	return &XPathParser{
		logger: logger.With("component", "xpath_parser"),
	}
}

// ParseList implements Parser.
func (p *XPathParser) ParseList(resp *types.Response, rule ListRule) ([]Row, error) {
	doc, err := html.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &types.ParseError{
			URL: resp.FinalURL,
			Err: err,
		}
	}

	var containers []*html.Node
	for _, expr := range rule.Containers {
		nodes, err := htmlquery.QueryAll(doc, expr)
		if err != nil {
			return nil, &types.ParseError{URL: resp.FinalURL, Selector: expr, Err: err}
		}
		if len(nodes) > 0 {
			containers = nodes
			break
		}
	}

	var rows []Row
	for _, node := range containers {
		if rule.Limit > 0 && len(rows) >= rule.Limit {
			break
		}
		row := make(Row, len(rule.Fields))
		for _, field := range rule.Fields {
			raw, err := p.extractXPath(node, field)
			if err != nil {
				return rows, &types.ParseError{URL: resp.FinalURL, Selector: field.Name, Err: err}
			}
			val, err := applyPattern(field.Pattern, raw)
			if err != nil {
				return rows, &types.ParseError{URL: resp.FinalURL, Selector: field.Name, Err: err}
			}
			row[field.Name] = val
		}
		if !row.empty() {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// extractXPath returns the first non-empty value among the field's expressions.
func (p *XPathParser) extractXPath(container *html.Node, field FieldRule) (string, error) {
	selectors := field.Selectors
	if len(selectors) == 0 {
		selectors = []string{"."}
	}
	for _, expr := range selectors {
		node, err := htmlquery.Query(container, expr)
		if err != nil {
			return "", err
		}
		if node == nil {
			continue
		}

		var val string
		switch field.Attribute {
		case "", "text":
			val = collapseSpace(htmlquery.InnerText(node))
		case "html", "innerHTML":
			val = htmlquery.OutputHTML(node, false)
		default:
			val = htmlquery.SelectAttr(node, field.Attribute)
		}
		if val != "" {
			return val, nil
		}
	}
	return "", nil
}
