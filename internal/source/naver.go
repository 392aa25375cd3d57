package source

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/parser"
	"github.com/IshaanNene/keyscope/internal/types"
)

const naverSearchURL = "https://search.naver.com/search.naver"

// naverStart converts a 1-based page number to Naver's 1-based result offset.
func naverStart(page int) string {
	return strconv.Itoa((page-1)*10 + 1)
}

// NewNaverNews returns the Naver news vertical adapter.
func NewNaverNews(env *Env) Source {
	s := newScraper(env, Info{Name: "naver_news", Label: "Naver News", Kind: KindNews, Live: true})
	s.pacer = fetcher.NewPacer(1, 1)
	s.rule = parser.ListRule{
		Containers: []string{"div.news_wrap.api_ani_send", "div.news_area"},
		Fields: []parser.FieldRule{
			{Name: "title", Selectors: []string{"a.news_tit"}},
			{Name: "link", Selectors: []string{"a.news_tit"}, Attribute: "href"},
			{Name: "content", Selectors: []string{"div.news_dsc", "a.api_txt_lines.dsc_txt_wrap"}},
			{Name: "publisher", Selectors: []string{"div.info_group a.info.press", "a.info.press"}},
			{Name: "date", Selectors: []string{"div.info_group span.info", "span.info"}},
		},
	}
	s.pageURL = func(keyword string, page int) string {
		v := url.Values{}
		v.Set("where", "news")
		v.Set("query", keyword)
		v.Set("sm", "tab_pge")
		v.Set("sort", "0")
		v.Set("start", naverStart(page))
		return naverSearchURL + "?" + v.Encode()
	}
	s.toRecord = func(resp *types.Response, row parser.Row) (types.Record, bool) {
		if row["title"] == "" {
			return types.Record{}, false
		}
		return types.Record{
			Title:     row["title"],
			Content:   row["content"],
			Publisher: row.Get("publisher", "Unknown"),
			Date:      row["date"],
			Link:      resp.Resolve(row["link"]),
		}, true
	}
	s.placeholder = func(q types.Query) []types.Record {
		return koreanNewsPlaceholders(env, q.Keyword, "https://n.news.naver.com/article/%s/%s")
	}
	return s
}

// NewNaverBlog returns the Naver blog search adapter.
func NewNaverBlog(env *Env) Source {
	s := newScraper(env, Info{Name: "naver_blog", Label: "Naver Blog", Kind: KindBlog, Live: true})
	s.pacer = fetcher.NewPacer(1, 2)
	s.rule = parser.ListRule{
		Containers: []string{"li.bx", "div.total_area"},
		Fields: []parser.FieldRule{
			{Name: "title", Selectors: []string{"a.api_txt_lines.total_tit", "a.title_link"}},
			{Name: "link", Selectors: []string{"a.api_txt_lines.total_tit", "a.title_link"}, Attribute: "href"},
			{Name: "content", Selectors: []string{"div.api_txt_lines.dsc_txt", "a.dsc_link"}},
			{Name: "blog", Selectors: []string{"a.sub_txt.sub_name", "a.name"}},
			{Name: "date", Selectors: []string{"span.sub_time", "span.sub"}},
		},
	}
	s.pageURL = func(keyword string, page int) string {
		v := url.Values{}
		v.Set("where", "post")
		v.Set("sm", "tab_jum")
		v.Set("query", keyword)
		v.Set("start", naverStart(page))
		return naverSearchURL + "?" + v.Encode()
	}
	s.toRecord = func(resp *types.Response, row parser.Row) (types.Record, bool) {
		if row["title"] == "" || row["link"] == "" {
			return types.Record{}, false
		}
		return types.Record{
			Title:     row["title"],
			Content:   row["content"],
			Publisher: "Naver Blog - " + row.Get("blog", "Naver Blog"),
			Date:      row["date"],
			Link:      resp.Resolve(row["link"]),
		}, true
	}
	s.placeholder = func(q types.Query) []types.Record {
		now := env.now()
		n := env.Faker.Between(5, 8)
		records := make([]types.Record, 0, n)
		for range n {
			blog := env.Faker.Pick(naverBlogNames)
			title := fill(env.Faker.Pick(naverBlogTitles), q.Keyword, now)
			records = append(records, types.Record{
				Title: title,
				Content: fmt.Sprintf("안녕하세요, %s 입니다. 오늘은 %s에 대한 상세한 정보를 공유해드리려고 합니다. "+
					"제가 %s를 접하게 된 계기부터 실제 사용 경험, 그리고 여러분들에게 도움이 될 만한 팁까지 정리했습니다. "+
					"이 포스팅이 %s에 관심 있으신 분들에게 도움이 되길 바랍니다.", blog, q.Keyword, q.Keyword, q.Keyword),
				Publisher: "Naver Blog - " + blog,
				Date:      env.Faker.DaysAgo(now, 1, 180).Format(layoutDot),
				Link:      fmt.Sprintf("https://blog.naver.com/%s/%s", env.Faker.Alnum(8), env.Faker.Digits(10)),
			})
		}
		return records
	}
	return s
}

var koreanOutlets = []string{
	"동아일보", "조선일보", "중앙일보", "한국일보", "경향신문",
	"매일경제", "한국경제", "서울경제", "머니투데이", "아시아경제",
	"YTN", "MBC", "KBS", "SBS", "JTBC",
}

var koreanTitlePrefixes = []string{
	"속보: ", "", "", "[%s 단독] ", "", "뉴스브리핑: ", "", "화제의 기사: ", "", "",
}

// koreanNewsPlaceholders generates 4-9 news articles from Korean outlets.
// linkFormat receives two random numeric ids.
func koreanNewsPlaceholders(env *Env, keyword, linkFormat string) []types.Record {
	now := env.now()
	n := env.Faker.Between(4, 9)
	records := make([]types.Record, 0, n)
	for i := 1; i <= n; i++ {
		publisher := env.Faker.Pick(koreanOutlets)
		date := env.Faker.DaysAgo(now, 0, 30).Format(layoutDot)
		prefix := env.Faker.Pick(koreanTitlePrefixes)
		if prefix != "" && prefix[0] == '[' {
			prefix = fmt.Sprintf(prefix, publisher)
		}
		records = append(records, types.Record{
			Title:     fmt.Sprintf("%s%s 관련 뉴스 - %d번째 기사", prefix, keyword, i),
			Content:   fmt.Sprintf("%s에 관한 중요한 소식입니다. 자세한 내용은 본문을 확인하세요. 이 기사는 %s에서 %s에 발행되었습니다.", keyword, publisher, date),
			Publisher: publisher,
			Date:      date,
			Link:      fmt.Sprintf(linkFormat, env.Faker.Digits(3), env.Faker.Digits(10)),
		})
	}
	return records
}

var naverBlogTitles = []string{
	"[{keyword} 리뷰] 직접 사용해 본 솔직한 후기",
	"{keyword} 초보자를 위한 완벽 가이드",
	"{keyword} 사용법 & 팁 정리",
	"{keyword} 관련 Q&A 모음",
	"오늘의 {keyword} 정보 - 알아두면 유용한 팁",
	"{keyword} 추천 TOP 10",
	"{keyword}를 선택할 때 주의할 점",
	"{keyword} 최신 트렌드 {year}",
	"{keyword} 비교 분석 - 장단점 정리",
	"블로거가 추천하는 {keyword} 활용법",
}

var naverBlogNames = []string{
	"행복한일상", "마케팅연구소", "it전문가", "트렌드헌터",
	"맘스노트", "여행의발견", "푸드스토리", "뷰티생활",
	"건강이야기", "책읽는사람", "소비자리뷰", "IT인사이트",
}
