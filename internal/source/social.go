package source

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/observability"
	"github.com/IshaanNene/keyscope/internal/types"
)

// platform holds the per-network vocabulary of a social adapter.
type platform struct {
	info      Info
	prefixes  []string
	suffixes  []string
	hashtags  []string
	templates []string
	maxHours  int
	maxMonths int

	engagement func(f *Faker) string
	publisher  func(handle string) string
	link       func(f *Faker, handle string) string
}

// Social is an adapter for networks whose search is gated behind an API
// login. It never fetches; every record it returns is a placeholder.
type Social struct {
	p      platform
	env    *Env
	logger *slog.Logger
}

func newSocial(env *Env, p platform) *Social {
	return &Social{
		p:      p,
		env:    env,
		logger: env.Logger.With("component", "source", "source", p.info.Name),
	}
}

func (s *Social) Name() string         { return s.p.info.Name }
func (s *Social) Info() Info           { return s.p.info }
func (s *Social) Pacer() fetcher.Pacer { return fetcher.Pacer{} }

// Search produces roughly ten posts per requested page.
func (s *Social) Search(ctx context.Context, q types.Query) ([]types.Record, error) {
	if q.Keyword == "" {
		return nil, types.ErrEmptyKeyword
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	observability.SourceRequests.WithLabelValues(s.p.info.Name, "offline").Inc()
	return s.env.fallback(s.logger, s.p.info.Name, q, types.ErrNoResults, s.posts)
}

func (s *Social) posts(q types.Query) []types.Record {
	f := s.env.Faker
	now := s.env.now()
	target := q.MaxPages * 10
	n := f.Between(target-2, target+3)
	tag := "#" + strings.ReplaceAll(q.Keyword, " ", "")

	records := make([]types.Record, 0, n)
	for range n {
		handle := s.handle(q.Keyword)
		hours := f.Between(1, s.p.maxHours)
		posted := now.Add(-time.Duration(hours)*time.Hour - time.Duration(f.Between(0, 59))*time.Minute)

		tags := f.Sample(s.p.hashtags, f.Between(1, 3))
		if f.Chance(0.8) {
			tags = append(tags, tag)
		}
		content := strings.NewReplacer(
			"{keyword}", q.Keyword,
			"{hashtags}", strings.Join(tags, " "),
			"{link}", shortLink(f),
			"{months}", strconv.Itoa(f.Between(1, s.p.maxMonths)),
			"{year}", strconv.Itoa(now.Year()),
		).Replace(f.Pick(s.p.templates))

		records = append(records, types.Record{
			Title:     socialTitle(handle, content),
			Content:   fmt.Sprintf("%s\n\n%s • %s", content, s.p.engagement(f), relativeHours(hours)),
			Publisher: s.p.publisher(handle),
			Date:      posted.Format(layoutTime),
			Link:      s.p.link(f, handle),
		})
	}
	return records
}

// handle builds a plausible account name: usually a prefix plus the keyword,
// otherwise the keyword's first word plus a suffix.
func (s *Social) handle(keyword string) string {
	f := s.env.Faker
	var h string
	if f.Chance(0.7) {
		h = f.Pick(s.p.prefixes) + strings.ReplaceAll(keyword, " ", "")
	} else {
		first, _, _ := strings.Cut(keyword, " ")
		h = strings.ToLower(first) + f.Pick(s.p.suffixes)
	}
	return cleanHandle(h)
}

// cleanHandle keeps [A-Za-z0-9_] and cuts to 15 characters.
func cleanHandle(h string) string {
	h = handleChar.ReplaceAllString(h, "")
	if len(h) > 15 {
		h = h[:15]
	}
	return h
}

func socialTitle(handle, content string) string {
	r := []rune(content)
	if len(r) > 50 {
		return fmt.Sprintf("@%s: %s...", handle, string(r[:50]))
	}
	return fmt.Sprintf("@%s: %s", handle, content)
}

func relativeHours(hours int) string {
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dd", hours/24)
}

func shortLink(f *Faker) string {
	domain := f.Pick([]string{"bit.ly", "t.co", "tiny.url", "ow.ly"})
	return fmt.Sprintf("https://%s/%s", domain, f.Alnum(7))
}

// NewTwitter returns the Twitter/X adapter.
func NewTwitter(env *Env) Source {
	return newSocial(env, platform{
		info:     Info{Name: "twitter", Label: "Twitter/X", Kind: KindSocial},
		prefixes: []string{"tech", "real", "the", "digital", "ai", "dev", "data", "official", "mr", "ms", "dr", "prof"},
		suffixes: []string{"guru", "expert", "pro", "fan", "lover", "enthusiast", "geek", "nerd", "123", "xyz", "official"},
		hashtags: []string{
			"#tech", "#innovation", "#digital", "#future", "#AI", "#ML",
			"#data", "#trends", "#business", "#startup", "#technology", "#news",
		},
		templates: []string{
			"Just published a new article about {keyword}. Check it out! {link} {hashtags}",
			"Has anyone else been following the latest developments in {keyword}? Thoughts? {hashtags}",
			"{keyword} is going to change everything. Here's why: {link} {hashtags}",
			"My take on {keyword}: It's not just hype, it's the future. {hashtags}",
			"5 reasons why {keyword} matters in {year}: {link} {hashtags}",
			"Breaking: Major announcement about {keyword} coming soon! Stay tuned. {hashtags}",
			"I've been working with {keyword} for {months} months now. Here's what I've learned: {link}",
			"Hot take: {keyword} isn't what everyone thinks it is. Here's the reality: {hashtags}",
			"Question for my followers: How are you using {keyword} in your work? {hashtags}",
			"The problem with most {keyword} discussions is that they miss this key point: {link} {hashtags}",
		},
		maxHours:  48,
		maxMonths: 18,
		engagement: func(f *Faker) string {
			likes := f.Between(0, 1000)
			retweets := int(float64(likes) * f.Float(0.05, 0.3))
			comments := int(float64(likes) * f.Float(0.02, 0.15))
			return fmt.Sprintf("🔄 %d 💬 %d ❤️ %d", retweets, comments, likes)
		},
		publisher: func(h string) string { return "Twitter/X - @" + h },
		link: func(f *Faker, h string) string {
			return fmt.Sprintf("https://twitter.com/%s/status/%s", h, f.Digits(19))
		},
	})
}

// NewThreads returns the Threads adapter.
func NewThreads(env *Env) Source {
	return newSocial(env, platform{
		info:     Info{Name: "threads", Label: "Threads", Kind: KindSocial},
		prefixes: []string{"real", "the", "official", "mr", "ms", "dr", "prof", "its", "im", "just", "my"},
		suffixes: []string{"official", "real", "original", "actual", "account", "verified", "123", "xyz"},
		hashtags: []string{
			"#trending", "#viral", "#threads", "#instagram", "#community", "#thoughts",
			"#discussion", "#ideas", "#today", "#share", "#connect", "#explore",
		},
		templates: []string{
			"Just posted about {keyword}. What do you all think? {hashtags}",
			"Has anyone else been following the latest on {keyword}? Thoughts? {hashtags}",
			"{keyword} is changing everything. Here's my take: {hashtags}",
			"My perspective on {keyword}: It's more complex than people think. {hashtags}",
			"Curious what others think about {keyword}? Let's discuss. {hashtags}",
			"New thread on {keyword}. Join the conversation! {hashtags}",
			"I've been exploring {keyword} for {months} months now. Here's what I've found: {hashtags}",
			"Hot take: {keyword} isn't what everyone thinks it is. {hashtags}",
			"Question for my followers: How are you engaging with {keyword}? {hashtags}",
			"The conversation around {keyword} is missing some key points: {hashtags}",
		},
		maxHours:  168,
		maxMonths: 12,
		engagement: func(f *Faker) string {
			likes := f.Between(5, 10000)
			replies := int(float64(likes) * f.Float(0.01, 0.1))
			reposts := int(float64(likes) * f.Float(0.01, 0.05))
			return fmt.Sprintf("❤️ %d • 💬 %d • 🔄 %d", likes, replies, reposts)
		},
		publisher: func(h string) string { return "Threads - @" + h },
		link: func(f *Faker, h string) string {
			return fmt.Sprintf("https://www.threads.net/@%s/post/%s", h, f.Hex(16))
		},
	})
}
