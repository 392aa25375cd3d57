package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/parser"
	"github.com/IshaanNene/keyscope/internal/types"
)

const mediumContentLimit = 500

// NewMedium returns the Medium adapter. Search pages are scraped first; when
// they yield nothing the tag feed for the keyword is read instead.
func NewMedium(env *Env) Source {
	s := newScraper(env, Info{Name: "medium", Label: "Medium", Kind: KindBlog, Live: true})
	s.pacer = fetcher.NewPacer(2, 3)
	s.rule = parser.ListRule{
		Containers: []string{"div.postArticle", "article"},
		Fields: []parser.FieldRule{
			{Name: "title", Selectors: []string{"h3", "h2"}},
			{Name: "link", Selectors: []string{"a[data-post-id]", `a[href*="medium.com"]`, "h2 a", "a[href]"}, Attribute: "href"},
			{Name: "content", Selectors: []string{"div.postArticle-content", `section[aria-label="Post preview"]`, "p"}},
			{Name: "author", Selectors: []string{"a[data-user-id]", `div[aria-label="Author"]`}},
			{Name: "date", Selectors: []string{"time", "span.readingTime"}},
		},
	}
	s.pageURL = func(keyword string, page int) string {
		u := "https://medium.com/search?q=" + url.QueryEscape(keyword)
		if page > 1 {
			u += "&page=" + strconv.Itoa(page)
		}
		return u
	}
	s.toRecord = func(resp *types.Response, row parser.Row) (types.Record, bool) {
		if row["title"] == "" {
			return types.Record{}, false
		}
		return types.Record{
			Title:     row["title"],
			Content:   truncateRunes(row["content"], mediumContentLimit),
			Publisher: "Medium - " + row.Get("author", "Unknown Author"),
			Date:      ResolveRelativeDate(row["date"], env.now(), "Unknown date"),
			Link:      resp.Resolve(row["link"]),
		}, true
	}
	s.feed = func(ctx context.Context, keyword string) ([]types.Record, error) {
		if env.Feeds == nil {
			return nil, nil
		}
		feedURL := env.rebase("medium", "https://medium.com/feed/tag/"+url.PathEscape(slugify(keyword)))
		feed, err := env.Feeds.Fetch(ctx, "medium", feedURL, env.Timeout)
		if err != nil {
			return nil, err
		}
		records := make([]types.Record, 0, len(feed.Items))
		for _, item := range feed.Items {
			if item.Title == "" {
				continue
			}
			records = append(records, types.Record{
				Title:     item.Title,
				Content:   truncateRunes(plainText(itemContent(item)), mediumContentLimit),
				Publisher: "Medium - " + itemAuthor(item, "Unknown Author"),
				Date:      itemDate(item, layoutDash, "Unknown date"),
				Link:      item.Link,
			})
		}
		return records, nil
	}
	s.placeholder = func(q types.Query) []types.Record {
		now := env.now()
		n := env.Faker.Between(5, 8)
		slug := strings.ToLower(strings.ReplaceAll(q.Keyword, " ", "-"))
		records := make([]types.Record, 0, n)
		for range n {
			author := env.Faker.Pick(mediumAuthors)
			title := fill(env.Faker.Pick(mediumTitles), q.Keyword, now)
			records = append(records, types.Record{
				Title: title,
				Content: fmt.Sprintf("A closer look at %s: what it is, why it matters and how practitioners are "+
					"putting it to work today. This article walks through the key ideas behind %s with examples "+
					"and lessons learned along the way.", q.Keyword, q.Keyword),
				Publisher: "Medium - " + author,
				Date:      env.Faker.DaysAgo(now, 1, 180).Format(layoutDash),
				Link: fmt.Sprintf("https://medium.com/@%s/%s-%s",
					strings.ToLower(strings.ReplaceAll(author, " ", "")), slug, env.Faker.Alnum(12)),
			})
		}
		return records
	}
	return s
}

var mediumTitles = []string{
	"The Ultimate Guide to {keyword}",
	"How {keyword} is Changing the Future of Technology",
	"10 Things You Need to Know About {keyword}",
	"Why {keyword} Matters More Than Ever in {year}",
	"{keyword}: A Deep Dive into the Technology",
	"The Evolution of {keyword}: Past, Present, and Future",
	"Building a Career in {keyword}: Tips from Experts",
	"{keyword} vs. Traditional Approaches: What's Better?",
	"The Ethics of {keyword}: Considerations for Developers",
	"Learning {keyword} in Just 30 Days - My Journey",
}

var mediumAuthors = []string{
	"Tech Enthusiast", "Digital Nomad", "Code Artisan", "Data Scientist",
	"Product Manager", "UX Designer", "Software Engineer", "AI Researcher",
	"Tech Consultant", "Startup Founder", "Innovation Strategist",
}
