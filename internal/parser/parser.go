package parser

import (
	"github.com/IshaanNene/keyscope/internal/types"
)

// Row is one extracted result block, keyed by field name.
type Row map[string]string

// FieldRule extracts a single field relative to a result container.
type FieldRule struct {
	// Name is the output key.
	Name string

	// Selectors are tried in order; the first one yielding a non-empty value wins.
	// An empty selector addresses the container itself.
	Selectors []string

	// Attribute is "" or "text" for text content, "html" for inner HTML,
	// or the name of an attribute to read.
	Attribute string

	// Pattern, when set, is applied to the extracted value. The first capture
	// group (or the whole match) replaces the value; no match clears it.
	Pattern string
}

// ListRule describes a repeated result block on a search results page.
type ListRule struct {
	// Containers are alternative selectors for result blocks. The first
	// selector that matches anything is used.
	Containers []string

	// Fields are extracted from every container.
	Fields []FieldRule

	// Limit caps the number of rows; 0 means unlimited.
	Limit int
}

// Parser extracts result rows from a fetched page.
type Parser interface {
	// ParseList applies rule to resp and returns one Row per result block.
	// Rows whose fields are all empty are dropped.
	ParseList(resp *types.Response, rule ListRule) ([]Row, error)
}

// Get returns a field, or def when it is empty.
func (r Row) Get(name, def string) string {
	if v := r[name]; v != "" {
		return v
	}
	return def
}

func (r Row) empty() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}
