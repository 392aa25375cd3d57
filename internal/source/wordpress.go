package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/observability"
	"github.com/IshaanNene/keyscope/internal/types"
)

// WordPress reads the WordPress.com tag feed for the keyword. The feed is not
// paginated, so only the first page of a query produces records.
type WordPress struct {
	env    *Env
	logger *slog.Logger
}

// NewWordPress returns the WordPress.com adapter.
func NewWordPress(env *Env) Source {
	return &WordPress{
		env:    env,
		logger: env.Logger.With("component", "source", "source", "wordpress"),
	}
}

func (w *WordPress) Name() string { return "wordpress" }

func (w *WordPress) Info() Info {
	return Info{Name: "wordpress", Label: "WordPress", Kind: KindBlog, Live: true}
}

func (w *WordPress) Pacer() fetcher.Pacer { return fetcher.NewPacer(1, 2).AtLeast(w.env.MinDelay) }

// Search fetches the tag feed.
func (w *WordPress) Search(ctx context.Context, q types.Query) ([]types.Record, error) {
	if q.Keyword == "" {
		return nil, types.ErrEmptyKeyword
	}
	if q.StartPage > 1 {
		return nil, nil
	}

	records, err := w.fromFeed(ctx, q.Keyword)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		observability.SourceRequests.WithLabelValues("wordpress", "error").Inc()
		w.logger.Warn("feed failed", "error", err)
	} else if len(records) == 0 {
		observability.SourceRequests.WithLabelValues("wordpress", "empty").Inc()
		err = types.ErrNoResults
	} else {
		observability.SourceRequests.WithLabelValues("wordpress", "ok").Inc()
		return records, nil
	}
	return w.env.fallback(w.logger, "wordpress", q, err, w.placeholders)
}

func (w *WordPress) fromFeed(ctx context.Context, keyword string) ([]types.Record, error) {
	if w.env.Feeds == nil {
		return nil, nil
	}
	feedURL := w.env.rebase("wordpress", "https://wordpress.com/tag/"+url.PathEscape(slugify(keyword))+"/feed/")
	feed, err := w.env.Feeds.Fetch(ctx, "wordpress", feedURL, w.env.Timeout)
	if err != nil {
		return nil, err
	}

	records := make([]types.Record, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}
		site := "WordPress"
		if u, err := url.Parse(item.Link); err == nil && u.Hostname() != "" {
			site = u.Hostname()
		}
		category := "Blog"
		if len(item.Categories) > 0 {
			category = item.Categories[0]
		}
		records = append(records, types.Record{
			Title:     item.Title,
			Content:   truncateRunes(plainText(itemContent(item)), 500),
			Publisher: fmt.Sprintf("%s [%s]", site, category),
			Date:      itemDate(item, layoutDash, w.env.now().Format(layoutDash)),
			Link:      item.Link,
		})
	}
	return records, nil
}

func (w *WordPress) placeholders(q types.Query) []types.Record {
	env := w.env
	now := env.now()
	n := env.Faker.Between(5, 8)
	records := make([]types.Record, 0, n)
	for range n {
		site := wordpressSites[env.Faker.Between(0, len(wordpressSites)-1)]
		title := fill(env.Faker.Pick(wordpressTitles), q.Keyword, now)
		author := env.Faker.Pick(wordpressFirstNames) + " " + env.Faker.Pick(wordpressLastNames)
		date := env.Faker.DaysAgo(now, 1, 90)
		records = append(records, types.Record{
			Title: title,
			Content: fmt.Sprintf("By %s. %s has been one of the most talked-about topics this year. "+
				"We look at what is driving interest in %s and what it means for readers. • %d min read • %d comments",
				author, q.Keyword, q.Keyword, env.Faker.Between(4, 15), env.Faker.Between(0, 35)),
			Publisher: fmt.Sprintf("%s [%s]", site.name, site.category),
			Date:      date.Format(layoutDash),
			Link:      fmt.Sprintf("https://%s/%s/%s/", site.domain, date.Format("2006/01/02"), slugify(title)),
		})
	}
	return records
}

var wordpressSites = []struct{ name, domain, category string }{
	{"TechCrunch", "techcrunch.com", "Technology News"},
	{"Wired", "wired.com", "Technology & Culture"},
	{"Mashable", "mashable.com", "Digital Culture"},
	{"Smashing Magazine", "smashingmagazine.com", "Web Design"},
	{"WP Beginner", "wpbeginner.com", "WordPress Tutorials"},
	{"The Next Web", "thenextweb.com", "Tech News"},
}

var wordpressTitles = []string{
	"{keyword}: Our Complete Analysis",
	"The Rise of {keyword} in {year}",
	"How {keyword} is Transforming the Industry",
	"{keyword} for Beginners: A Step-by-Step Guide",
	"5 Ways {keyword} Will Change Your Business",
	"The Future of {keyword}: Trends to Watch",
	"Why Every Professional Should Know About {keyword}",
	"{keyword} vs Competitors: Which is Better?",
	"Breaking News: Major Developments in {keyword}",
	"The Complete {keyword} Resource Guide",
}

var (
	wordpressFirstNames = []string{"Sarah", "Michael", "Emma", "David", "Olivia", "James", "Sophia", "Daniel"}
	wordpressLastNames  = []string{"Johnson", "Chen", "Williams", "Park", "Garcia", "Miller", "Kim", "Brown"}
)
