package types

import (
	"sort"
	"strconv"
	"strings"
)

// Column keys used in exported workbooks. The Korean keys match the
// headers readers of existing exports expect.
const (
	ColTitle       = "제목"
	ColContent     = "내용"
	ColPublisher   = "언론사"
	ColDate        = "날짜"
	ColLink        = "링크"
	ColSource      = "Source"
	ColPlaceholder = "Placeholder"
)

// StandardColumns is the preferred column order for every export.
var StandardColumns = []string{ColTitle, ColContent, ColPublisher, ColDate, ColLink, ColSource}

// Record is a single normalized search result.
type Record struct {
	Title     string `json:"title"     bson:"title"`
	Content   string `json:"content"   bson:"content"`
	Publisher string `json:"publisher" bson:"publisher"`
	Date      string `json:"date"      bson:"date"`
	Link      string `json:"link"      bson:"link"`

	// Source is the adapter name, set by the aggregator.
	Source string `json:"source,omitempty" bson:"source,omitempty"`

	// Placeholder marks records fabricated because live scraping failed.
	Placeholder bool `json:"placeholder,omitempty" bson:"placeholder,omitempty"`

	// Extra holds additional columns (views, author handles, ...).
	Extra map[string]string `json:"extra,omitempty" bson:"extra,omitempty"`
}

// SetExtra sets an additional column value.
func (r *Record) SetExtra(key, value string) {
	if r.Extra == nil {
		r.Extra = make(map[string]string)
	}
	r.Extra[key] = value
}

// Columns returns the record flattened to column keys.
func (r Record) Columns() map[string]string {
	cols := make(map[string]string, len(StandardColumns)+len(r.Extra)+1)
	cols[ColTitle] = r.Title
	cols[ColContent] = r.Content
	cols[ColPublisher] = r.Publisher
	cols[ColDate] = r.Date
	cols[ColLink] = r.Link
	cols[ColSource] = r.Source
	for k, v := range r.Extra {
		cols[k] = v
	}
	if r.Placeholder {
		cols[ColPlaceholder] = strconv.FormatBool(true)
	}
	return cols
}

// RecordFromColumns rebuilds a Record from column keys. Unknown keys land in Extra.
func RecordFromColumns(cols map[string]string) Record {
	var r Record
	for k, v := range cols {
		switch k {
		case ColTitle:
			r.Title = v
		case ColContent:
			r.Content = v
		case ColPublisher:
			r.Publisher = v
		case ColDate:
			r.Date = v
		case ColLink:
			r.Link = v
		case ColSource:
			r.Source = v
		case ColPlaceholder:
			r.Placeholder = strings.EqualFold(v, "true")
		default:
			if v != "" {
				r.SetExtra(k, v)
			}
		}
	}
	return r
}

// ColumnOrder returns the standard columns followed by every extra key
// present in records, sorted.
func ColumnOrder(records []Record) []string {
	standard := make(map[string]bool, len(StandardColumns))
	for _, c := range StandardColumns {
		standard[c] = true
	}

	extra := make(map[string]bool)
	for _, r := range records {
		for k := range r.Columns() {
			if !standard[k] {
				extra[k] = true
			}
		}
	}

	extras := make([]string, 0, len(extra))
	for k := range extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)

	order := make([]string, 0, len(StandardColumns)+len(extras))
	order = append(order, StandardColumns...)
	return append(order, extras...)
}
