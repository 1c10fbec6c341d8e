package forum

import (
	"testing"

	"marketing-intel/models"
)

func TestBrandMentions(t *testing.T) {
	posts := []models.ForumPost{
		{
			Title:   "노스페이스 패딩 어떤가요",
			URL:     "http://example.com/1",
			Content: "노스페이스 눕시 샀는데 따뜻합니다. 짧음. 네파 바람막이도 좋아요!",
		},
		{
			Title:    "등산화 추천",
			URL:      "http://example.com/2",
			Content:  "브랜드 얘기 없는 글",
			Comments: "저는 노스페이스 신발 신는데 만족해요",
		},
	}
	brands := []string{"노스페이스", "네파", "블랙야크"}

	mentions := BrandMentions(posts, brands)

	if got := len(mentions["노스페이스"]); got != 3 {
		t.Fatalf("노스페이스 mentions = %d, want 3", got)
	}
	if got := len(mentions["네파"]); got != 1 {
		t.Fatalf("네파 mentions = %d, want 1", got)
	}
	if _, ok := mentions["블랙야크"]; ok {
		t.Fatal("블랙야크 should have no mentions")
	}
	if mentions["네파"][0].URL != "http://example.com/1" {
		t.Errorf("mention URL = %q", mentions["네파"][0].URL)
	}
}

func TestBrandMentionsDropsShortSentences(t *testing.T) {
	posts := []models.ForumPost{{Content: "네파!", URL: "u"}}
	mentions := BrandMentions(posts, []string{"네파"})
	if len(mentions) != 0 {
		t.Fatalf("short sentence should be dropped, got %v", mentions)
	}
}

func TestTopKeywords(t *testing.T) {
	posts := []models.ForumPost{
		{Content: "패딩 패딩 패딩 패딩 등산화 등산화 a 1 2 3"},
		{Content: "등산화, 바람막이... 바람막이"},
	}

	got := TopKeywords(posts, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Word != "패딩" || got[0].Count != 4 {
		t.Errorf("top = %+v, want 패딩 x4", got[0])
	}
	if got[1].Word != "등산화" || got[1].Count != 3 {
		t.Errorf("second = %+v, want 등산화 x3", got[1])
	}
}

func TestTopKeywordsSkipsSingleRuneWords(t *testing.T) {
	posts := []models.ForumPost{{Content: "산 산 산 겨울 겨울"}}
	got := TopKeywords(posts, 10)
	if len(got) != 1 || got[0].Word != "겨울" {
		t.Fatalf("got %+v, want only 겨울", got)
	}
}
