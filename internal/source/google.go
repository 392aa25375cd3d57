package source

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/parser"
	"github.com/IshaanNene/keyscope/internal/types"
)

const googleSearchURL = "https://www.google.com/search"

func googlePageURL(query string, page int) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("hl", "ko")
	if page > 1 {
		v.Set("start", strconv.Itoa((page-1)*10))
	}
	return googleSearchURL + "?" + v.Encode()
}

// cleanGoogleLink unwraps Google's /url?q=... redirect links.
func cleanGoogleLink(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Path != "/url" {
		return href
	}
	q := u.Query()
	for _, key := range []string{"url", "q"} {
		if target := q.Get(key); target != "" {
			return target
		}
	}
	return href
}

// splitMeta splits Google's "source - date" citation line.
func splitMeta(meta string) (source, date string) {
	source, date, _ = strings.Cut(meta, " - ")
	return strings.TrimSpace(source), strings.TrimSpace(date)
}

func googleRule() parser.ListRule {
	return parser.ListRule{
		Containers: []string{"div.g", "div.Gx5Zad"},
		Fields: []parser.FieldRule{
			{Name: "title", Selectors: []string{"h3", ".DKV0Md"}},
			{Name: "link", Selectors: []string{"a[href]"}, Attribute: "href"},
			{Name: "content", Selectors: []string{".VwiC3b", ".s3v9rd"}},
			{Name: "meta", Selectors: []string{".MUxGbd", ".NJjxre", "cite"}},
		},
	}
}

// NewGoogleSearch returns the Google web search adapter.
func NewGoogleSearch(env *Env) Source {
	s := newScraper(env, Info{Name: "google_search", Label: "Google Search", Kind: KindSearch, Live: true})
	s.pacer = fetcher.NewPacer(1, 3)
	s.rule = googleRule()
	s.pageURL = googlePageURL
	s.toRecord = func(resp *types.Response, row parser.Row) (types.Record, bool) {
		link := resp.Resolve(cleanGoogleLink(row["link"]))
		if row["title"] == "" || !strings.HasPrefix(link, "http") {
			return types.Record{}, false
		}
		publisher, date := splitMeta(row["meta"])
		if publisher == "" {
			if u, err := url.Parse(link); err == nil {
				publisher = u.Hostname()
			}
		}
		if date == "" {
			date = env.now().Format(layoutDash)
		}
		return types.Record{
			Title:     row["title"],
			Content:   row["content"],
			Publisher: publisher,
			Date:      date,
			Link:      link,
		}, true
	}
	s.placeholder = func(q types.Query) []types.Record {
		now := env.now()
		n := env.Faker.Between(4, 11)
		slug := strings.ReplaceAll(q.Keyword, " ", "-")
		records := make([]types.Record, 0, n)
		for i := 1; i <= n; i++ {
			rec := types.Record{
				Title: fmt.Sprintf("Google result: %s - Article %d", q.Keyword, i),
				Content: fmt.Sprintf("This is a sample Google search result about %s. It includes relevant "+
					"information that matches the search query and might interest the user.", q.Keyword),
				Publisher: fmt.Sprintf("google.com/sample-site-%d", i),
				Date:      now.Format(layoutDash),
				Link:      fmt.Sprintf("https://www.google.com/search?q=%s#%d", url.QueryEscape(q.Keyword), i),
			}
			if i <= len(googleDomains) {
				domain := googleDomains[i-1]
				rec.Publisher = domain
				rec.Link = fmt.Sprintf("https://%s/article-about-%s", domain, slug)
			}
			records = append(records, rec)
		}
		return records
	}
	return s
}

var googleDomains = []string{
	"medium.com", "wikipedia.org", "github.com", "cnn.com", "bbc.com", "nytimes.com",
}

// NewGoogleBlogger returns the Blogger adapter, which queries Google
// restricted to blogspot.com.
func NewGoogleBlogger(env *Env) Source {
	s := newScraper(env, Info{Name: "google_blogger", Label: "Google Blogger", Kind: KindBlog, Live: true})
	s.pacer = fetcher.NewPacer(2, 3)
	s.rule = googleRule()
	s.rule.Fields = append(s.rule.Fields, parser.FieldRule{
		Name:      "date",
		Selectors: []string{""},
		Pattern:   bloggerDatePattern,
	})
	s.pageURL = func(keyword string, page int) string {
		return googlePageURL(keyword+" site:blogspot.com", page)
	}
	s.toRecord = func(resp *types.Response, row parser.Row) (types.Record, bool) {
		link := resp.Resolve(cleanGoogleLink(row["link"]))
		if row["title"] == "" {
			return types.Record{}, false
		}
		u, err := url.Parse(link)
		if err != nil {
			return types.Record{}, false
		}
		host := u.Hostname()
		if !strings.HasSuffix(host, "blogspot.com") && !strings.HasSuffix(host, "blogger.com") {
			return types.Record{}, false
		}
		blog, _, _ := strings.Cut(host, ".")
		return types.Record{
			Title:     row["title"],
			Content:   row["content"],
			Publisher: "Google Blogger - " + blog,
			Date:      NormalizeBloggerDate(row["date"], env.now().Format(layoutDot)),
			Link:      link,
		}, true
	}
	s.placeholder = func(q types.Query) []types.Record {
		now := env.now()
		n := env.Faker.Between(5, 8)
		records := make([]types.Record, 0, n)
		for range n {
			blog := env.Faker.Pick(bloggerNames)
			title := fill(env.Faker.Pick(bloggerTitles), q.Keyword, now)
			date := env.Faker.DaysAgo(now, 1, 365)
			records = append(records, types.Record{
				Title: title,
				Content: fmt.Sprintf("In this post, I'll share everything I've learned about %s over the past year. "+
					"From practical tips to in-depth analysis, this guide covers all aspects of %s that you need to know in %d.",
					q.Keyword, q.Keyword, now.Year()),
				Publisher: "Google Blogger - " + blog,
				Date:      date.Format(layoutDot),
				Link: fmt.Sprintf("https://%s.blogspot.com/%d/%02d/%s.html",
					strings.ToLower(blog), date.Year(), env.Faker.Between(1, 12), slugify(title)),
			})
		}
		return records
	}
	return s
}

var bloggerTitles = []string{
	"{keyword} - A Comprehensive Guide",
	"My Journey with {keyword}",
	"10 Things You Need to Know About {keyword}",
	"{year}'s Best {keyword} Resources",
	"How {keyword} Changed My Life",
	"The Ultimate {keyword} Tutorial",
	"Understanding {keyword}: A Beginner's Guide",
	"{keyword} Tips and Tricks",
	"Why {keyword} Matters in Today's World",
	"Everything About {keyword} - Updated {year}",
}

var bloggerNames = []string{
	"TechEnthusiast", "LifeHacker", "ThoughtfulWriter", "DigitalNomad",
	"CreativeMind", "TravelDiary", "FoodAdventures", "HealthyLiving",
	"DIYProjects", "BusinessInsights", "FinancialFreedom", "CodeCrafter",
}
