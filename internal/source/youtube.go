package source

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/IshaanNene/keyscope/internal/fetcher"
	"github.com/IshaanNene/keyscope/internal/parser"
	"github.com/IshaanNene/keyscope/internal/types"
)

// NewYouTube returns the YouTube adapter. Results are rendered by JavaScript,
// so pages go through the browser fetcher when one is running; the plain
// HTTP fallback rarely sees any video links.
func NewYouTube(env *Env) Source {
	s := newScraper(env, Info{Name: "youtube", Label: "YouTube", Kind: KindVideo, Live: true})
	s.pacer = fetcher.NewPacer(2, 4)
	s.browser = true
	s.waitSelector = "a#video-title"
	s.rule = parser.ListRule{
		Containers: []string{"a#video-title"},
		Fields: []parser.FieldRule{
			{Name: "title", Attribute: "title"},
			{Name: "text"},
			{Name: "href", Attribute: "href"},
		},
		Limit: 10,
	}
	s.pageURL = func(keyword string, page int) string {
		v := url.Values{}
		v.Set("search_query", keyword)
		v.Set("page", strconv.Itoa(page))
		return "https://www.youtube.com/results?" + v.Encode()
	}
	s.toRecord = func(_ *types.Response, row parser.Row) (types.Record, bool) {
		title := row.Get("title", row["text"])
		if title == "" || row["href"] == "" {
			return types.Record{}, false
		}
		return types.Record{
			Title:     title,
			Content:   "YouTube video description (unavailable without JavaScript)",
			Publisher: "YouTube",
			Date:      "Recent",
			Link:      "https://www.youtube.com" + row["href"],
		}, true
	}
	s.placeholder = func(q types.Query) []types.Record {
		now := env.now()
		n := env.Faker.Between(7, 12)
		records := make([]types.Record, 0, n)
		for range n {
			channel := env.Faker.Pick(youtubeChannels)
			records = append(records, types.Record{
				Title: fill(env.Faker.Pick(youtubeTitles), q.Keyword, now),
				Content: fmt.Sprintf("안녕하세요, %s 채널입니다! 오늘은 %s에 관한 영상을 준비했습니다. "+
					"이 영상에서는 %s의 기본 개념부터 실전 활용법까지 모두 알려드립니다. #유튜브 #%s #튜토리얼",
					channel, q.Keyword, q.Keyword, q.Keyword),
				Publisher: "YouTube - " + channel,
				Date:      env.Faker.DaysAgo(now, 1, 730).Format(layoutDot),
				Link:      "https://www.youtube.com/watch?v=" + env.Faker.String(videoID, 11),
			})
		}
		return records
	}
	return s
}

var youtubeTitles = []string{
	"{keyword} 완벽 가이드 - 초보자도 쉽게 따라할 수 있는 방법",
	"[{keyword}] 100만 구독자 채널의 꿀팁 대공개",
	"{year} 최신 {keyword} 리뷰 및 비교",
	"{keyword} VLOG | 현직자가 알려주는 실무 노하우",
	"당신이 몰랐던 {keyword}의 숨겨진 비밀 5가지",
	"{keyword} Q&A - 자주 묻는 질문 총정리",
	"프로가 알려주는 {keyword} 실전 테크닉",
	"{keyword} 단점부터 솔직하게 말씀드립니다",
	"화제의 {keyword} 직접 사용해보고 솔직 후기",
	"세계 TOP10 {keyword} 트렌드",
}

var youtubeChannels = []string{
	"테크리뷰TV", "비즈니스인사이트", "트렌드헌터", "일상브이로그",
	"How To 코리아", "리뷰의신", "디지털노마드", "IT전문가TV",
	"생활꿀팁", "커리어멘토", "스마트라이프", "오늘의콘텐츠",
}
