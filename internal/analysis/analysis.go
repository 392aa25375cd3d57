// Package analysis summarizes exported workbooks: file listings, source
// distribution, content length and word frequency.
package analysis

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/IshaanNene/keyscope/internal/storage"
	"github.com/IshaanNene/keyscope/internal/types"
)

// HistogramBins is the number of buckets in the content length histogram.
const HistogramBins = 20

// Report is the full analysis of one export file.
type Report struct {
	File     FileInfo       `json:"file"`
	Overview Overview       `json:"overview"`
	Sources  []SourceCount  `json:"sources"`
	Content  ContentStats   `json:"content"`
	Words    []WordCount    `json:"words"`
	Records  []types.Record `json:"records,omitempty"`
}

// Analyze loads the workbook at path and computes every section of the report.
func Analyze(path string, topWords int) (*Report, error) {
	info, err := Stat(path)
	if err != nil {
		return nil, err
	}
	records, err := storage.ReadXLSX(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", info.Name, err)
	}

	return &Report{
		File:     info,
		Overview: Summarize(records),
		Sources:  CountSources(records),
		Content:  Content(records),
		Words:    WordFrequency(records, topWords),
		Records:  records,
	}, nil
}

// --- Export Files ---

// FileInfo describes an export file. Keyword, Kind and Date are parsed from
// the {keyword}_{kind}_{YYYYMMDD}.xlsx naming scheme.
type FileInfo struct {
	Name     string    `json:"name"`
	Path     string    `json:"-"`
	Keyword  string    `json:"keyword"`
	Kind     string    `json:"kind,omitempty"`
	Date     string    `json:"date"`
	Modified time.Time `json:"modified"`
	SizeKB   float64   `json:"size_kb"`
}

// ParseName splits an export file name into keyword, kind and date. Names
// with fewer than three parts yield the bare name and an "Unknown" date.
func ParseName(name string) (keyword, kind, date string) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return base, "", "Unknown"
	}

	keyword = strings.Join(parts[:len(parts)-2], "_")
	kind = parts[len(parts)-2]
	date = parts[len(parts)-1]
	if t, err := time.Parse("20060102", date); err == nil {
		date = t.Format("2006-01-02")
	}
	return keyword, kind, date
}

// Stat returns the FileInfo for path.
func Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat export: %w", err)
	}
	keyword, kind, date := ParseName(st.Name())
	return FileInfo{
		Name:     st.Name(),
		Path:     path,
		Keyword:  keyword,
		Kind:     kind,
		Date:     date,
		Modified: st.ModTime(),
		SizeKB:   math.Round(float64(st.Size())/1024*10) / 10,
	}, nil
}

// ListExports returns the xlsx files in dir, newest first. A missing
// directory yields an empty list.
func ListExports(dir string) ([]FileInfo, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}

	files := make([]FileInfo, 0, len(matches))
	for _, m := range matches {
		info, err := Stat(m)
		if err != nil {
			continue
		}
		files = append(files, info)
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Modified.Equal(files[j].Modified) {
			return files[i].Name < files[j].Name
		}
		return files[i].Modified.After(files[j].Modified)
	})
	return files, nil
}

// Latest returns the newest export in dir.
func Latest(dir string) (FileInfo, error) {
	files, err := ListExports(dir)
	if err != nil {
		return FileInfo{}, err
	}
	if len(files) == 0 {
		return FileInfo{}, fmt.Errorf("no exports in %s", dir)
	}
	return files[0], nil
}

// --- Text ---

var (
	urlPattern   = regexp.MustCompile(`https?\S+`)
	punctPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// CleanText removes URLs and punctuation and collapses whitespace.
func CleanText(s string) string {
	s = urlPattern.ReplaceAllString(s, "")
	s = punctPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// --- Sources ---

// SourceCount is the number of records attributed to one source.
type SourceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// sourceOf attributes a record to its adapter, or to its publisher for
// workbooks written without a Source column.
func sourceOf(r types.Record) string {
	if r.Source != "" {
		return r.Source
	}
	return r.Publisher
}

// CountSources counts records per source, largest first.
func CountSources(records []types.Record) []SourceCount {
	counts := make(map[string]int)
	for _, r := range records {
		if name := sourceOf(r); name != "" {
			counts[name]++
		}
	}
	out := make([]SourceCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, SourceCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// --- Overview ---

// Overview holds headline counts.
type Overview struct {
	Total         int `json:"total"`
	UniqueSources int `json:"unique_sources"`
	UniqueDates   int `json:"unique_dates"`
	Placeholders  int `json:"placeholders"`
}

// Summarize computes the Overview of records.
func Summarize(records []types.Record) Overview {
	sources := make(map[string]bool)
	dates := make(map[string]bool)
	ov := Overview{Total: len(records)}
	for _, r := range records {
		if s := sourceOf(r); s != "" {
			sources[s] = true
		}
		if r.Date != "" {
			dates[r.Date] = true
		}
		if r.Placeholder {
			ov.Placeholders++
		}
	}
	ov.UniqueSources = len(sources)
	ov.UniqueDates = len(dates)
	return ov
}

// --- Content Length ---

// Bin is one histogram bucket covering [From, To).
type Bin struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// ContentStats describes content lengths in runes.
type ContentStats struct {
	Mean      float64 `json:"mean"`
	Min       int     `json:"min"`
	Max       int     `json:"max"`
	Histogram []Bin   `json:"histogram"`
}

// Content computes content length statistics with an equal-width histogram
// of HistogramBins buckets between the shortest and longest content.
func Content(records []types.Record) ContentStats {
	if len(records) == 0 {
		return ContentStats{}
	}

	lengths := make([]int, len(records))
	stats := ContentStats{Min: math.MaxInt}
	total := 0
	for i, r := range records {
		n := utf8.RuneCountInString(r.Content)
		lengths[i] = n
		total += n
		stats.Min = min(stats.Min, n)
		stats.Max = max(stats.Max, n)
	}
	stats.Mean = float64(total) / float64(len(records))

	lo, hi := float64(stats.Min), float64(stats.Max)
	if hi == lo {
		stats.Histogram = []Bin{{From: lo, To: hi, Count: len(lengths)}}
		return stats
	}

	width := (hi - lo) / HistogramBins
	stats.Histogram = make([]Bin, HistogramBins)
	for i := range stats.Histogram {
		stats.Histogram[i].From = lo + float64(i)*width
		stats.Histogram[i].To = lo + float64(i+1)*width
	}
	for _, n := range lengths {
		idx := int((float64(n) - lo) / width)
		if idx >= HistogramBins {
			idx = HistogramBins - 1 // the maximum lands in the last bin
		}
		stats.Histogram[idx].Count++
	}
	return stats
}

// --- Word Frequency ---

// WordCount is one entry of the word frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

var stopwords = map[string]bool{
	// English
	"the": true, "and": true, "for": true, "are": true, "but": true, "not": true,
	"you": true, "all": true, "any": true, "can": true, "has": true, "have": true,
	"was": true, "were": true, "with": true, "this": true, "that": true, "from": true,
	"they": true, "will": true, "would": true, "there": true, "their": true, "what": true,
	"about": true, "which": true, "when": true, "into": true, "than": true, "then": true,
	"its": true, "our": true, "out": true, "how": true, "why": true, "who": true,
	"of": true, "to": true, "in": true, "is": true, "on": true, "at": true,
	"by": true, "an": true, "be": true, "as": true, "or": true, "it": true,
	"we": true, "my": true, "me": true, "so": true, "if": true, "do": true,
	// Korean function words and particles
	"그리고": true, "그러나": true, "하지만": true, "또한": true, "그래서": true,
	"이번": true, "대한": true, "통해": true, "위해": true, "있는": true,
	"있다": true, "없다": true, "하는": true, "했다": true, "한다": true,
	"이다": true, "것이": true, "것은": true, "에서": true, "으로": true,
	"에게": true, "까지": true, "부터": true, "보다": true, "관련": true,
	"기자": true, "뉴스": true, "등의": true, "이런": true, "그런": true,
}

// WordFrequency returns the n most frequent words in the cleaned titles and
// contents. Words shorter than two runes and stopwords are skipped.
func WordFrequency(records []types.Record, n int) []WordCount {
	counts := make(map[string]int)
	for _, r := range records {
		for _, w := range strings.Fields(CleanText(r.Title + " " + r.Content)) {
			w = strings.ToLower(w)
			if utf8.RuneCountInString(w) < 2 || stopwords[w] {
				continue
			}
			counts[w]++
		}
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
