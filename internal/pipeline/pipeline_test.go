package pipeline

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestPipelineBasic(t *testing.T) {
	p := New(testLogger)
	p.Use(&TrimMiddleware{})

	rec := &types.Record{Title: "  Hello World  ", Extra: map[string]string{"Views": " 12 "}}

	result, err := p.Process(rec)
	if err != nil {
		t.Fatalf("pipeline error: %v", err)
	}
	if result.Title != "Hello World" {
		t.Errorf("expected trimmed title, got %q", result.Title)
	}
	if result.Extra["Views"] != "12" {
		t.Errorf("expected trimmed extra, got %q", result.Extra["Views"])
	}
}

func TestRequiredFieldsMiddleware(t *testing.T) {
	m := &RequiredFieldsMiddleware{Fields: []string{types.ColTitle}}

	result, err := m.Process(&types.Record{Title: "Hello"})
	if err != nil || result == nil {
		t.Error("record with required field should pass")
	}

	result, _ = m.Process(&types.Record{Content: "no title"})
	if result != nil {
		t.Error("record missing required field should be dropped (nil)")
	}
}

func TestHTMLSanitizeMiddleware(t *testing.T) {
	m := NewHTMLSanitizeMiddleware()
	rec := &types.Record{
		Title:   `<b>Go</b> 1.24 &amp; beyond`,
		Content: "<p>Hello   <b>World</b></p>\n\n🔄 1 💬 2 ❤️ 3",
		Link:    "https://example.com/?a=<b>",
	}

	result, err := m.Process(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Title != "Go 1.24 & beyond" {
		t.Errorf("title = %q", result.Title)
	}
	if result.Content != "Hello World\n\n🔄 1 💬 2 ❤️ 3" {
		t.Errorf("content = %q", result.Content)
	}
	if result.Link != "https://example.com/?a=<b>" {
		t.Errorf("link should be untouched, got %q", result.Link)
	}
}

func TestDedupMiddleware(t *testing.T) {
	m := NewDedupMiddleware(types.ColLink)

	r1, _ := m.Process(&types.Record{Title: "a", Link: "https://example.com/1"})
	r2, _ := m.Process(&types.Record{Title: "b", Link: "https://example.com/1"})
	r3, _ := m.Process(&types.Record{Title: "c", Link: "https://example.com/2"})
	r4, _ := m.Process(&types.Record{Title: "d"})
	r5, _ := m.Process(&types.Record{Title: "e"})

	if r1 == nil || r3 == nil {
		t.Error("first occurrences should pass")
	}
	if r2 != nil {
		t.Error("duplicate link should be dropped")
	}
	if r4 == nil || r5 == nil {
		t.Error("records without a link should never be deduplicated")
	}
}

func TestDedupCanonicalLinks(t *testing.T) {
	m := NewDedupMiddleware(types.ColLink)

	first, _ := m.Process(&types.Record{Title: "a", Link: "https://News.Example.com:443/article/1/?b=2&a=1&utm_source=feed#top"})
	dup, _ := m.Process(&types.Record{Title: "b", Link: "https://news.example.com/article/1?a=1&b=2"})
	if first == nil || dup != nil {
		t.Fatal("links differing only in form should be treated as duplicates")
	}
	if first.Link != "https://News.Example.com:443/article/1/?b=2&a=1&utm_source=feed#top" {
		t.Errorf("stored link should be untouched, got %q", first.Link)
	}
}

func TestCanonicalLink(t *testing.T) {
	tests := map[string]string{
		"http://Example.com:80":                 "http://example.com/",
		"https://example.com/a/?z=1&fbclid=x#f": "https://example.com/a?z=1",
		"  not a url  ":                         "not a url",
		"/relative/path":                        "/relative/path",
	}
	for in, want := range tests {
		if got := CanonicalLink(in); got != want {
			t.Errorf("CanonicalLink(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultValueMiddleware(t *testing.T) {
	m := &DefaultValueMiddleware{Defaults: map[string]string{
		types.ColPublisher: "Unknown",
		"Views":            "0",
	}}

	result, _ := m.Process(&types.Record{Title: "x"})
	if result.Publisher != "Unknown" {
		t.Errorf("publisher = %q", result.Publisher)
	}
	if result.Extra["Views"] != "0" {
		t.Errorf("extra default not applied: %v", result.Extra)
	}

	result, _ = m.Process(&types.Record{Title: "x", Publisher: "연합뉴스"})
	if result.Publisher != "연합뉴스" {
		t.Errorf("existing value overwritten: %q", result.Publisher)
	}
}

type failing struct{}

func (failing) Name() string { return "failing" }
func (failing) Process(*types.Record) (*types.Record, error) {
	return nil, errors.New("boom")
}

func TestPipelineErrorCarriesStage(t *testing.T) {
	p := New(testLogger)
	p.Use(&TrimMiddleware{})
	p.Use(failing{})

	_, err := p.Process(&types.Record{Title: "x"})
	var pe *types.PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pe.Stage != "failing" || pe.Record == nil {
		t.Errorf("unexpected error detail: %+v", pe)
	}
}

func TestDefaultPipelineRun(t *testing.T) {
	cfg := config.DefaultConfig()

	records := []types.Record{
		{Title: " <b>First</b> ", Link: "https://a.example/1"},
		{Title: "", Content: "dropped"},
		{Title: "Second", Link: "https://a.example/1"},
	}

	out, dropped, err := Default(cfg, testLogger).Run(records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if dropped != 1 || len(out) != 2 {
		t.Fatalf("expected 2 kept and 1 dropped, got %d kept, %d dropped", len(out), dropped)
	}
	if out[0].Title != "First" || out[0].Publisher != "Unknown" {
		t.Errorf("unexpected first record: %+v", out[0])
	}
	if records[0].Title != " <b>First</b> " {
		t.Error("Run must not modify the input slice")
	}

	cfg.Advanced.Dedup = true
	out, dropped, _ = Default(cfg, testLogger).Run(records)
	if len(out) != 1 || dropped != 2 {
		t.Errorf("dedup enabled: expected 1 kept, got %d (dropped %d)", len(out), dropped)
	}
}
