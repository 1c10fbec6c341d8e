package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"marketing-intel/models"
)

func intp(v int) *int { return &v }

var testNow = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

func TestComma(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{45000, "45,000"},
		{1234567, "1,234,567"},
		{-5000, "-5,000"},
	}
	for _, tc := range cases {
		if got := comma(tc.in); got != tc.want {
			t.Errorf("comma(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := signedComma(5000); got != "+5,000" {
		t.Errorf("signedComma(5000) = %q", got)
	}
	if got := signedComma(-300); got != "-300" {
		t.Errorf("signedComma(-300) = %q", got)
	}
}

func TestBuildForumData(t *testing.T) {
	mentions := map[string][]models.BrandMention{
		"노스페이스": {
			{Text: "노스페이스 패딩 진짜 따뜻함", URL: "https://example.com/1", Title: strings.Repeat("아", 30)},
		},
		"네파": {},
	}
	keywords := []models.KeywordCount{{Word: "패딩", Count: 4}}

	data := BuildForumData(mentions, keywords, []string{"네파", "노스페이스"}, testNow)

	if !data.HasData {
		t.Fatal("HasData = false with one brand populated")
	}
	if len(data.Tabs) != 1 || data.Tabs[0].Name != "노스페이스" {
		t.Fatalf("tabs = %+v, want only 노스페이스", data.Tabs)
	}
	if !data.Tabs[0].Active {
		t.Error("first tab not active")
	}
	short := data.Tabs[0].Mentions[0].TitleShort
	if !strings.HasSuffix(short, "...") || len([]rune(short)) != 28 {
		t.Errorf("title not truncated to 25 runes: %q", short)
	}

	empty := BuildForumData(nil, nil, []string{"네파"}, testNow)
	if empty.HasData {
		t.Error("HasData = true with no mentions")
	}
}

func TestRenderForum(t *testing.T) {
	data := BuildForumData(map[string][]models.BrandMention{
		"K2": {{Text: "케이투 신발 괜찮네", URL: "https://example.com/p", Title: "등산화 추천"}},
	}, []models.KeywordCount{{Word: "등산화", Count: 3}}, []string{"K2"}, testNow)

	path := filepath.Join(t.TempDir(), "external_signal.html")
	if err := RenderForum(path, data); err != nil {
		t.Fatalf("RenderForum: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	html := string(raw)

	for _, want := range []string{"VOC Real-time Analysis", "tab-K2", "케이투 신발 괜찮네", "# 등산화"} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestBuildHeroData(t *testing.T) {
	banners := []models.Banner{
		{BrandKey: "tnf", BrandName: "노스페이스", Rank: 2, Title: "둘째", ImgLocal: "tnf_2_aa.jpg", ImgStatus: models.ImgStatusOK},
		{BrandKey: "tnf", BrandName: "노스페이스", Rank: 1, Title: "첫째", ImgURL: "https://cdn.example.com/a.jpg",
			ImgLocal: "tnf_1_bb.jpg", ImgStatus: models.ImgStatusOK, ImgWidth: 1100, ImgHeight: 550, ImgBytes: 204800,
			PlanStart: "2026-09-01", PlanEnd: "2026-09-15"},
	}
	refs := []models.BrandRef{{Key: "tnf", Name: "노스페이스"}, {Key: "nepa", Name: "네파"}}

	data := BuildHeroData(banners, refs, "/out/hero_assets", "hero_assets", false, true, testNow)

	if len(data.Tabs) != 1 || data.Tabs[0].Key != "tnf" {
		t.Fatalf("tabs = %+v, want tnf only", data.Tabs)
	}
	cards := data.Tabs[0].Cards
	if cards[0].Rank != 1 || cards[1].Rank != 2 {
		t.Errorf("cards not sorted by rank: %+v", cards)
	}
	if cards[0].ImgSrc != "hero_assets/tnf_1_bb.jpg" {
		t.Errorf("relative ImgSrc = %q", cards[0].ImgSrc)
	}
	if cards[0].DateText != "2026-09-01 ~ 2026-09-15" {
		t.Errorf("DateText = %q", cards[0].DateText)
	}
	if cards[0].MetaText != "1100×550 · 200KB" {
		t.Errorf("MetaText = %q", cards[0].MetaText)
	}
	if data.DateFetch != "ON" {
		t.Errorf("DateFetch = %q", data.DateFetch)
	}

	abs := BuildHeroData(banners, refs, "/out/hero_assets", "hero_assets", true, false, testNow)
	if !strings.HasPrefix(abs.Tabs[0].Cards[0].ImgSrc, "file:///") {
		t.Errorf("absolute ImgSrc = %q", abs.Tabs[0].Cards[0].ImgSrc)
	}
	if abs.PathMode != "ABS(file://)" {
		t.Errorf("PathMode = %q", abs.PathMode)
	}

	// no banners at all: every brand still gets a tab
	none := BuildHeroData(nil, refs, "/out/hero_assets", "hero_assets", false, false, testNow)
	if len(none.Tabs) != 2 {
		t.Errorf("empty run tabs = %d, want 2", len(none.Tabs))
	}
}

func TestRenderHero(t *testing.T) {
	data := BuildHeroData([]models.Banner{
		{BrandKey: "nepa", BrandName: "네파", Rank: 1, Title: "가을 신상", ImgURL: "https://cdn.example.com/b.jpg"},
	}, []models.BrandRef{{Key: "nepa", Name: "네파"}}, "/out/hero_assets", "hero_assets", false, false, testNow)

	path := filepath.Join(t.TempDir(), "hero_main.html")
	if err := RenderHero(path, data); err != nil {
		t.Fatalf("RenderHero: %v", err)
	}
	raw, _ := os.ReadFile(path)
	html := string(raw)

	for _, want := range []string{"Hero Banner Analysis", "content-nepa", "가을 신상", "RANK 1"} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestBuildPriceData(t *testing.T) {
	rows := []models.PriceRow{
		{Code: "C7ABCD", NameEN: "Down Jacket", NameKO: "다운 재킷",
			OfficialPrice: intp(50000), LowestPrice: 45000, Diff: intp(5000),
			MallName: "네이버", FinalImage: "https://img.example.com/1.jpg",
			OfficialImage: "https://img.example.com/1.jpg",
			Confidence:    4, PrevPrice: intp(46000), Delta: intp(-1000)},
		{Code: "C6WXYZ", NameEN: "Fleece", LowestPrice: 30000,
			FinalImage: "https://img.example.com/2.jpg", MarketImage: "https://img.example.com/2.jpg"},
	}

	data, err := BuildPriceData(rows, "/history/result_0831.csv", testNow)
	if err != nil {
		t.Fatalf("BuildPriceData: %v", err)
	}

	if data.TotalCount != 2 || data.DiffPosCount != 1 || data.MissingCount != 0 {
		t.Errorf("summary = %d/%d/%d", data.TotalCount, data.DiffPosCount, data.MissingCount)
	}
	if data.PrevLabel != "result_0831.csv" {
		t.Errorf("PrevLabel = %q", data.PrevLabel)
	}

	names := []string{}
	for _, tab := range data.Tabs {
		names = append(names, tab.Name)
	}
	if strings.Join(names, ",") != "C7,C6,전체" {
		t.Errorf("tab order = %v", names)
	}
	if data.Tabs[2].Count != 2 {
		t.Errorf("전체 count = %d", data.Tabs[2].Count)
	}

	card := data.Tabs[0].Cards[0]
	if card.OfficialText != "50,000원" || card.NaverText != "45,000원" {
		t.Errorf("price text = %q / %q", card.OfficialText, card.NaverText)
	}
	if card.DiffText != "+5,000원" || card.DiffLabel != "공식↑" || card.DiffPosFlag != 1 {
		t.Errorf("diff badge = %q %q %d", card.DiffText, card.DiffLabel, card.DiffPosFlag)
	}
	if card.DeltaText != "-1,000원" || !strings.Contains(card.DeltaClass, "sky") {
		t.Errorf("delta badge = %q %q", card.DeltaText, card.DeltaClass)
	}
	if card.SrcLabel != "IMG: OFFICIAL" {
		t.Errorf("SrcLabel = %q", card.SrcLabel)
	}
	if !strings.Contains(card.ConfClass, "emerald") {
		t.Errorf("ConfClass = %q", card.ConfClass)
	}

	noHist := data.Tabs[1].Cards[0]
	if noHist.DiffText != "-" || noHist.DiffAttr != "" || noHist.DiffAbs != -1 {
		t.Errorf("no-diff card = %q %q %d", noHist.DiffText, noHist.DiffAttr, noHist.DiffAbs)
	}
	if noHist.DeltaAttr != deltaSortDefault {
		t.Errorf("DeltaAttr = %q", noHist.DeltaAttr)
	}
	if noHist.SrcLabel != "IMG: NAVER" {
		t.Errorf("SrcLabel = %q", noHist.SrcLabel)
	}

	if !strings.Contains(string(data.RowsJSON), "C7ABCD") {
		t.Error("rows json missing code")
	}
	if !strings.Contains(string(data.TopGapJSON), "C7ABCD") {
		t.Error("top gap json missing largest diff code")
	}
}

func TestRenderPrice(t *testing.T) {
	rows := []models.PriceRow{
		{Code: "C7ABCD", NameEN: "Down Jacket", NameKO: "다운 재킷",
			OfficialPrice: intp(50000), LowestPrice: 45000, Diff: intp(5000),
			MallName: "네이버", Link: "https://shopping.example.com/x",
			FinalImage: "https://img.example.com/1.jpg", Confidence: 3,
			Top3: []models.Top3Entry{{LowPrice: intp(45000), MallName: "네이버", Link: "https://l"}}},
	}
	data, err := BuildPriceData(rows, "", testNow)
	if err != nil {
		t.Fatalf("BuildPriceData: %v", err)
	}

	path := filepath.Join(t.TempDir(), "result.html")
	if err := RenderPrice(path, data); err != nil {
		t.Fatalf("RenderPrice: %v", err)
	}
	raw, _ := os.ReadFile(path)
	html := string(raw)

	if !strings.HasPrefix(html, "\ufeff") {
		t.Error("missing BOM")
	}
	for _, want := range []string{
		"Naver Lowest Price Monitor",
		`data-code-raw="C7ABCD"`,
		"const ALL_ROWS",
		"없음(비교 불가)",
		"Match 3/5",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
