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

const daumSearchURL = "https://search.daum.net/search"

// NewDaumNews returns the Daum news search adapter.
func NewDaumNews(env *Env) Source {
	s := newScraper(env, Info{Name: "daum_news", Label: "Daum News", Kind: KindNews, Live: true})
	s.pacer = fetcher.NewPacer(1, 2)
	s.rule = parser.ListRule{
		Containers: []string{"ul.list_news li", "ul.c-list-basic li"},
		Fields: []parser.FieldRule{
			{Name: "title", Selectors: []string{"a.tit_main", "div.item-title a"}},
			{Name: "link", Selectors: []string{"a.tit_main", "div.item-title a"}, Attribute: "href"},
			{Name: "content", Selectors: []string{"div.desc", "p.conts-desc"}},
			{Name: "publisher", Selectors: []string{"span.txt_info:nth-of-type(1)", "strong.tit_item"}},
			{Name: "date", Selectors: []string{"span.txt_info:nth-of-type(2)", "span.gem-subinfo"}},
		},
	}
	s.pageURL = func(keyword string, page int) string {
		v := url.Values{}
		v.Set("w", "news")
		v.Set("q", keyword)
		v.Set("p", strconv.Itoa(page))
		return daumSearchURL + "?" + v.Encode()
	}
	s.toRecord = func(resp *types.Response, row parser.Row) (types.Record, bool) {
		if row["title"] == "" {
			return types.Record{}, false
		}
		return types.Record{
			Title:     row["title"],
			Content:   row["content"],
			Publisher: row.Get("publisher", "Unknown"),
			Date:      row.Get("date", env.now().Format(layoutDot)),
			Link:      resp.Resolve(row["link"]),
		}, true
	}
	s.placeholder = func(q types.Query) []types.Record {
		// The office id is dropped; Daum links carry only the article id.
		return koreanNewsPlaceholders(env, q.Keyword, "https://news.daum.net/article/%.0s%s")
	}
	return s
}

// NewTistory returns the Tistory adapter. Tistory has no search of its own,
// so it queries Daum blog search restricted to tistory.com. The result markup
// is matched with XPath class tests, which survive Daum's frequent class
// reordering better than compound CSS selectors.
func NewTistory(env *Env) Source {
	s := newScraper(env, Info{Name: "tistory", Label: "Tistory", Kind: KindBlog, Live: true})
	s.pacer = fetcher.NewPacer(1, 2)
	s.dialect = parser.DialectXPath
	s.rule = parser.ListRule{
		Containers: []string{
			"//ul[contains(@class,'list_info')]/li",
			"//div[contains(concat(' ',normalize-space(@class),' '),' c-item ')]",
		},
		Fields: []parser.FieldRule{
			{Name: "title", Selectors: []string{".//a[contains(@class,'f_link_b')]", ".//a[contains(@class,'tit_main')]"}},
			{Name: "link", Selectors: []string{".//a[contains(@class,'f_link_b')]", ".//a[contains(@class,'tit_main')]"}, Attribute: "href"},
			{Name: "content", Selectors: []string{".//p[contains(@class,'f_eb')]", ".//div[contains(@class,'desc')]"}},
			{Name: "blog", Selectors: []string{".//div[contains(@class,'etc_info')]//a[contains(@class,'f_url')]", ".//span[contains(@class,'f_nb')]"}},
			{Name: "date", Selectors: []string{".//span[contains(@class,'f_nb')]", ".//span[contains(@class,'txt_info')]"}},
		},
	}
	s.pageURL = func(keyword string, page int) string {
		v := url.Values{}
		v.Set("w", "blog")
		v.Set("q", keyword+" site:tistory.com")
		v.Set("p", strconv.Itoa(page))
		return daumSearchURL + "?" + v.Encode()
	}
	s.toRecord = func(resp *types.Response, row parser.Row) (types.Record, bool) {
		link := resp.Resolve(row["link"])
		if row["title"] == "" || !strings.Contains(link, "tistory.com") {
			return types.Record{}, false
		}
		return types.Record{
			Title:     row["title"],
			Content:   row["content"],
			Publisher: "Tistory - " + row.Get("blog", "Tistory Blog"),
			Date:      row["date"],
			Link:      link,
		}, true
	}
	s.placeholder = func(q types.Query) []types.Record {
		now := env.now()
		n := env.Faker.Between(5, 8)
		records := make([]types.Record, 0, n)
		for range n {
			blog := tistoryBlogs[env.Faker.Between(0, len(tistoryBlogs)-1)]
			records = append(records, types.Record{
				Title: fill(env.Faker.Pick(tistoryTitles), q.Keyword, now),
				Content: fmt.Sprintf("안녕하세요, %s입니다. 오늘은 %s에 대해 자세히 알아보려고 합니다. "+
					"많은 분들이 %s에 관심을 가지고 계시지만 정확한 정보를 찾기 어려워하시는 것 같아 "+
					"제가 직접 경험하고 조사한 내용을 정리해봤습니다. 궁금한 점은 댓글로 남겨주세요!",
					blog.name, q.Keyword, q.Keyword),
				Publisher: "Tistory - " + blog.name,
				Date:      env.Faker.DaysAgo(now, 1, 180).Format(layoutDot),
				Link:      fmt.Sprintf("https://%s.tistory.com/%d", blog.subdomain, env.Faker.Between(1, 999)),
			})
		}
		return records
	}
	return s
}

var tistoryTitles = []string{
	"{keyword}에 대한 내 생각과 경험",
	"{keyword} 완벽 가이드 - 초보자도 쉽게 따라할 수 있는",
	"{keyword} 활용법 10가지",
	"요즘 핫한 {keyword} 리뷰",
	"{keyword} 사용 후기 및 장단점 분석",
	"{year}년 최신 {keyword} 트렌드",
	"{keyword} 관련 꿀팁 모음",
	"전문가가 알려주는 {keyword} 노하우",
	"{keyword} 실패하지 않는 방법",
	"[초보탈출] {keyword} 기초부터 실전까지",
}

var tistoryBlogs = []struct{ name, subdomain string }{
	{"일상의기록", "dailylog"},
	{"테크인사이트", "techinsight"},
	{"프로그래머노트", "devnote"},
	{"디자인스튜디오", "designstudio"},
	{"여행이야기", "travelstory"},
	{"푸드블로거", "foodblogger"},
	{"건강한생활", "healthylife"},
	{"리뷰전문가", "reviewpro"},
	{"마케팅인사이트", "marketinginsight"},
	{"금융전문가", "financepro"},
}
