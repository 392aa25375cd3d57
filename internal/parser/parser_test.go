package parser

import (
	"log/slog"
	"os"
	"testing"

	"github.com/IshaanNene/keyscope/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const testHTML = `<!DOCTYPE html>
<html>
<head><title>Results</title></head>
<body>
  <ul class="results">
    <li class="item">
      <a class="tit" href="/news/1">  First
         headline </a>
      <p class="desc">First summary</p>
      <span class="meta">Daily Times - 2024.01.15</span>
    </li>
    <li class="item">
      <a class="tit" href="https://example.com/news/2">Second headline</a>
      <div class="alt-desc">Second summary</div>
      <span class="meta">3 days ago</span>
    </li>
    <li class="item"></li>
  </ul>
</body>
</html>`

func makeResp(url, body string) *types.Response {
	req, _ := types.NewRequest(url)
	return &types.Response{
		Request:     req,
		StatusCode:  200,
		Body:        []byte(body),
		ContentType: "text/html",
		FinalURL:    url,
	}
}

var listRule = ListRule{
	Containers: []string{"div.missing", "li.item"},
	Fields: []FieldRule{
		{Name: "title", Selectors: []string{"a.tit"}},
		{Name: "link", Selectors: []string{"a.tit"}, Attribute: "href"},
		{Name: "content", Selectors: []string{"p.desc", "div.alt-desc"}},
		{Name: "date", Selectors: []string{"span.meta"}, Pattern: `(\d{4}\.\d{2}\.\d{2})`},
	},
}

// --- CSS Parser Tests ---

func TestCSSParseList(t *testing.T) {
	p := NewCSSParser(testLogger)
	rows, err := p.ParseList(makeResp("https://example.com/search", testHTML), listRule)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (empty container dropped), got %d", len(rows))
	}

	if rows[0]["title"] != "First headline" {
		t.Errorf("expected whitespace-collapsed title, got %q", rows[0]["title"])
	}
	if rows[0]["link"] != "/news/1" {
		t.Errorf("expected raw href, got %q", rows[0]["link"])
	}
	if rows[0]["date"] != "2024.01.15" {
		t.Errorf("expected pattern-narrowed date, got %q", rows[0]["date"])
	}
	if rows[1]["content"] != "Second summary" {
		t.Errorf("expected fallback selector content, got %q", rows[1]["content"])
	}
	if rows[1]["date"] != "" {
		t.Errorf("expected no date match, got %q", rows[1]["date"])
	}
}

func TestCSSParseListLimit(t *testing.T) {
	p := NewCSSParser(testLogger)
	rule := listRule
	rule.Limit = 1

	rows, err := p.ParseList(makeResp("https://example.com", testHTML), rule)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(rows))
	}
}

func TestCSSParseListNoContainers(t *testing.T) {
	p := NewCSSParser(testLogger)
	rows, err := p.ParseList(makeResp("https://example.com", "<html><body>nothing</body></html>"), listRule)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestCSSParseListBadPattern(t *testing.T) {
	p := NewCSSParser(testLogger)
	rule := ListRule{
		Containers: []string{"li.item"},
		Fields:     []FieldRule{{Name: "title", Selectors: []string{"a.tit"}, Pattern: `([`}},
	}
	if _, err := p.ParseList(makeResp("https://example.com", testHTML), rule); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

// --- XPath Parser Tests ---

func TestXPathParseList(t *testing.T) {
	p := NewXPathParser(testLogger)
	rule := ListRule{
		Containers: []string{"//li[@class='item']"},
		Fields: []FieldRule{
			{Name: "title", Selectors: []string{".//a[@class='tit']"}},
			{Name: "link", Selectors: []string{".//a[@class='tit']"}, Attribute: "href"},
			{Name: "content", Selectors: []string{".//p[@class='desc']", ".//div[@class='alt-desc']"}},
		},
	}

	rows, err := p.ParseList(makeResp("https://example.com", testHTML), rule)
	if err != nil {
		t.Fatalf("xpath parse error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["title"] != "First headline" {
		t.Errorf("expected 'First headline', got %q", rows[0]["title"])
	}
	if rows[1]["link"] != "https://example.com/news/2" {
		t.Errorf("unexpected link %q", rows[1]["link"])
	}
	if rows[1]["content"] != "Second summary" {
		t.Errorf("expected fallback content, got %q", rows[1]["content"])
	}
}

func TestXPathInvalidExpression(t *testing.T) {
	p := NewXPathParser(testLogger)
	rule := ListRule{Containers: []string{"//li[@class="}}
	if _, err := p.ParseList(makeResp("https://example.com", testHTML), rule); err == nil {
		t.Error("expected error for invalid xpath")
	}
}

// --- Composite / helpers ---

func TestCompositeDispatch(t *testing.T) {
	p := NewCompositeParser(testLogger)
	rows, err := p.ParseWith(DialectXPath, makeResp("https://example.com", testHTML), ListRule{
		Containers: []string{"//li[@class='item']"},
		Fields:     []FieldRule{{Name: "title", Selectors: []string{".//a"}}},
	})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		pattern, input, want string
	}{
		{`url=([^&]+)`, "/url?url=https://a.com/x&sa=U", "https://a.com/x"},
		{`\d{1,2} [A-Za-z]{3} \d{4}`, "Posted 5 Mar 2024 by Ann", "5 Mar 2024"},
		{`(x)|(y)`, "y", "y"},
		{`nomatch(\d)`, "abc", ""},
		{``, "keep", "keep"},
		{`([`, "bad", ""},
	}
	for _, tt := range tests {
		if got := Extract(tt.pattern, tt.input); got != tt.want {
			t.Errorf("Extract(%q, %q) = %q, want %q", tt.pattern, tt.input, got, tt.want)
		}
	}
}

func TestRowGet(t *testing.T) {
	r := Row{"a": "x", "b": ""}
	if r.Get("a", "d") != "x" || r.Get("b", "d") != "d" || r.Get("c", "d") != "d" {
		t.Error("Row.Get default handling is wrong")
	}
}
