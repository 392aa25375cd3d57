package source

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/parser"
	"github.com/IshaanNene/keyscope/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// newTestEnv builds an Env whose adapters all talk to srv.
func newTestEnv(t *testing.T, srv *httptest.Server) *Env {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Fetcher.RetryDelay = time.Millisecond
	cfg.Fetcher.MaxRetries = 0
	hf, err := fetcher.NewHTTPFetcher(cfg, testLogger)
	if err != nil {
		t.Fatalf("NewHTTPFetcher: %v", err)
	}
	t.Cleanup(func() { hf.Close() })

	base := map[string]string{}
	if srv != nil {
		for _, name := range []string{
			"naver_news", "daum_news", "google_search", "naver_blog", "tistory",
			"google_blogger", "medium", "wordpress", "youtube",
		} {
			base[name] = srv.URL
		}
	}
	return &Env{
		Fetcher:      hf,
		Parser:       parser.NewCompositeParser(testLogger),
		Feeds:        NewFeedReader(hf, testLogger),
		Faker:        NewFaker(42),
		Logger:       testLogger,
		Placeholders: true,
		BaseURLs:     base,
		Timeout:      5 * time.Second,
		Now:          func() time.Time { return fixedNow },
	}
}

// unpaced removes the inter-page delay from a scraper-backed source.
func unpaced(s Source) Source {
	if sc, ok := s.(*scraper); ok {
		sc.pacer = fetcher.Pacer{}
	}
	return s
}

func htmlHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}
}

func query(t *testing.T, keyword string, start, pages int) types.Query {
	t.Helper()
	q, err := types.NewQuery(keyword, start, pages)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	return q
}

const naverNewsPage = `<html><body>
<ul class="list_news">
  <li><div class="news_wrap api_ani_send">
    <a class="news_tit" href="https://n.news.naver.com/article/001/0000000001">반도체 수출 회복</a>
    <div class="news_dsc">반도체 수출이 다시 늘고 있다.</div>
    <div class="info_group"><a class="info press">연합뉴스</a><span class="info">1일 전</span></div>
  </div></li>
  <li><div class="news_wrap api_ani_send">
    <a class="news_tit" href="/article/002">두 번째 기사</a>
    <div class="news_dsc">내용</div>
    <div class="info_group"><span class="info">2025.03.13.</span></div>
  </div></li>
</ul>
</body></html>`

func TestNaverNewsParsesAndPaginates(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("start") == "1" {
			htmlHandler(naverNewsPage)(w, r)
			return
		}
		htmlHandler("<html><body><p>검색결과가 없습니다</p></body></html>")(w, r)
	}))
	defer srv.Close()

	env := newTestEnv(t, srv)
	src := unpaced(NewNaverNews(env))

	records, err := src.Search(context.Background(), query(t, "반도체", 1, 3))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("expected pagination to stop after the empty page (2 requests), got %d", got)
	}

	first := records[0]
	if first.Title != "반도체 수출 회복" || first.Publisher != "연합뉴스" || first.Date != "1일 전" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.Placeholder {
		t.Error("live record marked as placeholder")
	}
	if records[1].Publisher != "Unknown" {
		t.Errorf("expected default publisher, got %q", records[1].Publisher)
	}
	if !strings.HasPrefix(records[1].Link, srv.URL+"/article/002") {
		t.Errorf("expected relative link resolved against page, got %q", records[1].Link)
	}
}

func TestScraperFallsBackToPlaceholders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	env := newTestEnv(t, srv)
	records, err := unpaced(NewNaverNews(env)).Search(context.Background(), query(t, "AI", 1, 1))
	if err != nil {
		t.Fatalf("placeholders should hide the fetch error, got %v", err)
	}
	if len(records) < 4 || len(records) > 9 {
		t.Fatalf("expected 4-9 placeholder records, got %d", len(records))
	}
	for _, r := range records {
		if !r.Placeholder {
			t.Errorf("record not marked placeholder: %+v", r)
		}
		if !strings.Contains(r.Title, "AI") {
			t.Errorf("placeholder title missing keyword: %q", r.Title)
		}
		if !strings.HasPrefix(r.Link, "https://n.news.naver.com/article/") {
			t.Errorf("unexpected placeholder link %q", r.Link)
		}
	}
}

func TestScraperPlaceholdersDisabled(t *testing.T) {
	srv := httptest.NewServer(htmlHandler("<html><body></body></html>"))
	defer srv.Close()

	env := newTestEnv(t, srv)
	env.Placeholders = false

	records, err := unpaced(NewDaumNews(env)).Search(context.Background(), query(t, "경제", 1, 2))
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	var se *types.SourceError
	if !errors.As(err, &se) || se.Source != "daum_news" {
		t.Fatalf("expected SourceError for daum_news, got %v", err)
	}
	if !errors.Is(err, types.ErrNoResults) {
		t.Errorf("expected ErrNoResults cause, got %v", err)
	}
}

func TestScraperHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(htmlHandler(naverNewsPage))
	defer srv.Close()

	env := newTestEnv(t, srv)
	src := NewNaverNews(env).(*scraper)
	src.pacer = fetcher.NewPacer(5, 5)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := src.Search(ctx, query(t, "반도체", 1, 2))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestDaumNewsDefaultsDate(t *testing.T) {
	page := `<html><body><ul class="list_news">
	<li><a class="tit_main" href="https://v.daum.net/v/1">다음 기사</a><div class="desc">요약</div>
	<span class="txt_info">한국경제</span></li>
	</ul></body></html>`
	srv := httptest.NewServer(htmlHandler(page))
	defer srv.Close()

	records, err := unpaced(NewDaumNews(newTestEnv(t, srv))).Search(context.Background(), query(t, "경제", 1, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Publisher != "한국경제" {
		t.Errorf("publisher = %q", records[0].Publisher)
	}
	if records[0].Date != "2025.03.14" {
		t.Errorf("expected today's date, got %q", records[0].Date)
	}
}

func TestTistoryKeepsOnlyTistoryLinks(t *testing.T) {
	page := `<html><body><ul class="list_info">
	<li>
	  <a class="f_link_b" href="https://dev.tistory.com/12">티스토리 글</a>
	  <p class="f_eb">본문 요약</p>
	  <div class="etc_info"><a class="f_url">개발노트</a></div>
	  <span class="f_nb">2025.02.01</span>
	</li>
	<li>
	  <a class="f_link_b" href="https://blog.example.com/1">다른 블로그</a>
	</li>
	</ul></body></html>`
	srv := httptest.NewServer(htmlHandler(page))
	defer srv.Close()

	records, err := unpaced(NewTistory(newTestEnv(t, srv))).Search(context.Background(), query(t, "golang", 1, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 tistory record, got %d: %+v", len(records), records)
	}
	r := records[0]
	if r.Publisher != "Tistory - 개발노트" || r.Date != "2025.02.01" || r.Content != "본문 요약" {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestGoogleSearchCleansRedirects(t *testing.T) {
	page := `<html><body>
	<div class="g">
	  <a href="/url?q=https://go.dev/doc/&amp;sa=U"><h3>Documentation</h3></a>
	  <div class="VwiC3b">The Go programming language docs.</div>
	  <span class="MUxGbd">go.dev - 2 days ago</span>
	</div>
	<div class="g">
	  <a href="https://pkg.go.dev/"><h3>Packages</h3></a>
	</div>
	</body></html>`
	srv := httptest.NewServer(htmlHandler(page))
	defer srv.Close()

	records, err := unpaced(NewGoogleSearch(newTestEnv(t, srv))).Search(context.Background(), query(t, "golang", 1, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Link != "https://go.dev/doc/" {
		t.Errorf("redirect not cleaned: %q", records[0].Link)
	}
	if records[0].Publisher != "go.dev" || records[0].Date != "2 days ago" {
		t.Errorf("meta not split: %+v", records[0])
	}
	if records[1].Publisher != "pkg.go.dev" || records[1].Date != "2025-03-14" {
		t.Errorf("expected host publisher and today's date, got %+v", records[1])
	}
}

func TestGooglePlaceholders(t *testing.T) {
	env := newTestEnv(t, nil)
	src := NewGoogleSearch(env).(*scraper)
	records := src.placeholder(query(t, "machine learning", 1, 1))
	if len(records) < 4 || len(records) > 11 {
		t.Fatalf("expected 4-11 records, got %d", len(records))
	}
	if records[0].Link != "https://medium.com/article-about-machine-learning" {
		t.Errorf("unexpected first link %q", records[0].Link)
	}
	if records[0].Date != "2025-03-14" {
		t.Errorf("unexpected date %q", records[0].Date)
	}
}

func TestGoogleBloggerFiltersHosts(t *testing.T) {
	page := `<html><body>
	<div class="g">
	  <a href="https://cooking.blogspot.com/2024/05/kimchi.html"><h3>Kimchi notes</h3></a>
	  <div class="VwiC3b">5 Mar 2024 — How I make kimchi.</div>
	</div>
	<div class="g">
	  <a href="https://example.com/post"><h3>Not a blog</h3></a>
	</div>
	<div class="g">
	  <a href="https://travel.blogspot.com/seoul.html"><h3>Seoul in spring</h3></a>
	  <div class="VwiC3b">Cherry blossoms along the river.</div>
	</div>
	</body></html>`
	srv := httptest.NewServer(htmlHandler(page))
	defer srv.Close()

	records, err := unpaced(NewGoogleBlogger(newTestEnv(t, srv))).Search(context.Background(), query(t, "kimchi", 1, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Publisher != "Google Blogger - cooking" || records[0].Date != "2024.03.05" {
		t.Errorf("unexpected record: %+v", records[0])
	}
	if records[1].Publisher != "Google Blogger - travel" || records[1].Date != "2025.03.14" {
		t.Errorf("undated post should default to today: %+v", records[1])
	}
}

const mediumFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
  <title>Go on Medium</title>
  <item>
    <title>Concurrency patterns in Go</title>
    <link>https://medium.com/@gopher/concurrency-123</link>
    <dc:creator>Gopher</dc:creator>
    <pubDate>Mon, 10 Mar 2025 08:00:00 GMT</pubDate>
    <description><![CDATA[<p>Channels <b>and</b> goroutines.</p>]]></description>
  </item>
</channel>
</rss>`

func TestMediumFallsBackToFeed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", htmlHandler("<html><body><div>nothing</div></body></html>"))
	mux.HandleFunc("/feed/tag/go-lang", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(mediumFeed))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	records, err := unpaced(NewMedium(newTestEnv(t, srv))).Search(context.Background(), query(t, "go lang", 1, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 feed record, got %d", len(records))
	}
	r := records[0]
	if r.Placeholder {
		t.Error("feed record marked as placeholder")
	}
	if r.Publisher != "Medium - Gopher" || r.Date != "2025-03-10" || r.Content != "Channels and goroutines." {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestMediumHTMLRelativeDates(t *testing.T) {
	long := strings.Repeat("가", 600)
	page := `<html><body><article>
	  <h2>Writing a parser</h2>
	  <a href="https://medium.com/@ann/parser-1">read</a>
	  <p>` + long + `</p>
	  <a data-user-id="1">Ann</a>
	  <time>3 days ago</time>
	</article></body></html>`
	srv := httptest.NewServer(htmlHandler(page))
	defer srv.Close()

	records, err := unpaced(NewMedium(newTestEnv(t, srv))).Search(context.Background(), query(t, "parser", 1, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Date != "2025-03-11" {
		t.Errorf("relative date not resolved: %q", r.Date)
	}
	if n := len([]rune(r.Content)); n != mediumContentLimit+3 {
		t.Errorf("expected content cut to %d runes plus ellipsis, got %d", mediumContentLimit, n)
	}
	if r.Publisher != "Medium - Ann" {
		t.Errorf("publisher = %q", r.Publisher)
	}
}

func TestFeedSourcesEscapeHangulKeywords(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if strings.Contains(r.URL.Path, "/tag/") {
			w.Header().Set("Content-Type", "application/rss+xml")
			w.Write([]byte(mediumFeed))
			return
		}
		htmlHandler("<html><body></body></html>")(w, r)
	}))
	defer srv.Close()

	env := newTestEnv(t, srv)
	for _, tc := range []struct {
		src      Source
		wantPath string
	}{
		{NewWordPress(env), "/tag/인공지능-뉴스/feed/"},
		{unpaced(NewMedium(env)), "/feed/tag/인공지능-뉴스"},
	} {
		records, err := tc.src.Search(context.Background(), query(t, "인공지능 뉴스", 1, 1))
		if err != nil {
			t.Fatalf("%s: Search: %v", tc.src.Name(), err)
		}
		if len(records) != 1 || records[0].Placeholder {
			t.Errorf("%s: expected the live feed record, got %+v", tc.src.Name(), records)
		}
		mu.Lock()
		if !slices.Contains(paths, tc.wantPath) {
			t.Errorf("%s: feed %q not requested, got %v", tc.src.Name(), tc.wantPath, paths)
		}
		mu.Unlock()
	}
}

func TestMinDelayFloorsPacers(t *testing.T) {
	env := newTestEnv(t, nil)
	env.MinDelay = 3 * time.Second

	tests := []struct {
		src      Source
		min, max time.Duration
	}{
		{NewNaverNews(env), 3 * time.Second, 3 * time.Second},
		{NewDaumNews(env), 3 * time.Second, 3 * time.Second},
		{NewYouTube(env), 3 * time.Second, 4 * time.Second},
		{NewWordPress(env), 3 * time.Second, 3 * time.Second},
	}
	for _, tt := range tests {
		p := tt.src.(Paced).Pacer()
		if p.Min != tt.min || p.Max != tt.max {
			t.Errorf("%s: pacer = %+v, want [%v, %v]", tt.src.Name(), p, tt.min, tt.max)
		}
	}

	env.MinDelay = 0
	if p := NewYouTube(env).(Paced).Pacer(); p.Min != 2*time.Second || p.Max != 4*time.Second {
		t.Errorf("zero floor should keep the adapter's pacing, got %+v", p)
	}
}

func TestWordPressPlaceholdersOnFeedError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	src := NewWordPress(newTestEnv(t, srv))
	records, err := src.Search(context.Background(), query(t, "design", 1, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) < 5 || len(records) > 8 {
		t.Fatalf("expected 5-8 placeholders, got %d", len(records))
	}
	for _, r := range records {
		if !r.Placeholder || !strings.Contains(r.Content, "min read") || !strings.HasSuffix(r.Publisher, "]") {
			t.Errorf("unexpected placeholder: %+v", r)
		}
	}

	later, err := src.Search(context.Background(), query(t, "design", 2, 1))
	if err != nil || len(later) != 0 {
		t.Errorf("expected nothing for page 2, got %d records, err %v", len(later), err)
	}
}

func TestSocialPlaceholders(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, tc := range []struct {
		src        Source
		linkPrefix string
		publisher  string
	}{
		{NewTwitter(env), "https://twitter.com/", "Twitter/X - @"},
		{NewThreads(env), "https://www.threads.net/@", "Threads - @"},
	} {
		t.Run(tc.src.Name(), func(t *testing.T) {
			if tc.src.Info().Live {
				t.Error("social sources are not live")
			}
			records, err := tc.src.Search(context.Background(), query(t, "open source", 1, 1))
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(records) < 8 || len(records) > 13 {
				t.Fatalf("expected 8-13 posts, got %d", len(records))
			}
			for _, r := range records {
				handle := strings.TrimPrefix(r.Publisher, tc.publisher)
				if handle == r.Publisher || len(handle) > 15 || handleChar.MatchString(handle) {
					t.Errorf("bad handle in publisher %q", r.Publisher)
				}
				if !strings.HasPrefix(r.Link, tc.linkPrefix+handle) {
					t.Errorf("link %q does not match handle %q", r.Link, handle)
				}
				if !strings.HasPrefix(r.Title, "@"+handle+": ") {
					t.Errorf("unexpected title %q", r.Title)
				}
				if _, err := time.Parse(layoutTime, r.Date); err != nil {
					t.Errorf("bad date %q: %v", r.Date, err)
				}
			}
		})
	}
}

func TestSocialPlaceholdersDisabled(t *testing.T) {
	env := newTestEnv(t, nil)
	env.Placeholders = false
	_, err := NewTwitter(env).Search(context.Background(), query(t, "go", 1, 1))
	if !errors.Is(err, types.ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
}

func TestYouTubeHTTPFallback(t *testing.T) {
	page := `<html><body>
	<a id="video-title" title="Go in 100 seconds" href="/watch?v=abcdefghijk">Go in 100 seconds</a>
	</body></html>`
	srv := httptest.NewServer(htmlHandler(page))
	defer srv.Close()

	env := newTestEnv(t, srv)
	env.Fetcher = fetcher.NewStaticRouter(env.Fetcher, nil, testLogger)

	records, err := unpaced(NewYouTube(env)).Search(context.Background(), query(t, "go", 1, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Link != "https://www.youtube.com/watch?v=abcdefghijk" || records[0].Date != "Recent" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestPlaceholdersAreDeterministic(t *testing.T) {
	gen := func() []types.Record {
		env := newTestEnv(t, nil)
		return NewYouTube(env).(*scraper).placeholder(query(t, "요리", 1, 1))
	}
	a, b := gen(), gen()
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			t.Fatalf("record %d differs:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestYouTubePlaceholderCount(t *testing.T) {
	env := newTestEnv(t, nil)
	yt := NewYouTube(env).(*scraper)
	seen := map[int]bool{}
	for seed := range uint64(200) {
		env.Faker = NewFaker(seed)
		n := len(yt.placeholder(query(t, "요리", 1, 1)))
		if n < 7 || n > 12 {
			t.Fatalf("seed %d: %d placeholder videos", seed, n)
		}
		seen[n] = true
	}
	if !seen[7] || !seen[12] {
		t.Errorf("bounds never reached: %v", seen)
	}
}

func TestMediumFeedWithoutAuthor(t *testing.T) {
	feed := strings.Replace(mediumFeed, "<dc:creator>Gopher</dc:creator>", "", 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/search", htmlHandler("<html><body></body></html>"))
	mux.HandleFunc("/feed/tag/go", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feed))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	records, err := unpaced(NewMedium(newTestEnv(t, srv))).Search(context.Background(), query(t, "go", 1, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 || records[0].Publisher != "Medium - Unknown Author" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry(newTestEnv(t, nil))

	names := reg.Names()
	if len(names) != 11 {
		t.Fatalf("expected 11 sources, got %d: %v", len(names), names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}

	if _, err := reg.Get("myspace"); !errors.Is(err, types.ErrUnknownSource) {
		t.Errorf("expected unknown source error, got %v", err)
	}
	got, err := reg.Lookup([]string{"youtube", "naver_news"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got[0].Name() != "youtube" || got[1].Name() != "naver_news" {
		t.Errorf("Lookup changed order: %s, %s", got[0].Name(), got[1].Name())
	}
	if _, err := reg.Lookup([]string{"naver_news", "nope"}); err == nil {
		t.Error("expected error for unknown name in selection")
	}

	for _, info := range reg.Describe() {
		if info.Label == "" || info.Kind == "" {
			t.Errorf("incomplete info: %+v", info)
		}
	}
}

func TestEmptyKeyword(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, src := range DefaultRegistry(env).sources {
		if _, err := src.Search(context.Background(), types.Query{StartPage: 1, MaxPages: 1}); !errors.Is(err, types.ErrEmptyKeyword) {
			t.Errorf("%s: expected ErrEmptyKeyword, got %v", src.Name(), err)
		}
	}
}
