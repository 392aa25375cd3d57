package types

import "strings"

// Query is a keyword search over a contiguous page range.
type Query struct {
	Keyword   string
	StartPage int
	MaxPages  int
}

// NewQuery builds a normalized Query.
func NewQuery(keyword string, startPage, maxPages int) (Query, error) {
	q := Query{Keyword: strings.TrimSpace(keyword), StartPage: startPage, MaxPages: maxPages}
	if q.Keyword == "" {
		return q, ErrEmptyKeyword
	}
	if q.StartPage < 1 {
		q.StartPage = 1
	}
	if q.MaxPages < 1 {
		q.MaxPages = 1
	}
	return q, nil
}

// Pages returns the page numbers covered by the query.
func (q Query) Pages() []int {
	start := q.StartPage
	if start < 1 {
		start = 1
	}
	n := q.MaxPages
	if n < 1 {
		n = 1
	}
	pages := make([]int, n)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}
