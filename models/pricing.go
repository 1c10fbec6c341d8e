package models

import (
	"regexp"
	"strconv"
	"strings"
)

// Product is one row of the official price list.
type Product struct {
	Code          string
	NameEN        string
	NameKO        string
	OfficialPrice *int
	Row           int
}

// SearchItem is one marketplace listing returned by the shopping search
// API. LowPrice stays a string on the wire; PriceValue parses it.
type SearchItem struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Image    string `json:"image"`
	LowPrice string `json:"lprice"`
	MallName string `json:"mallName"`
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// CleanTitle returns the listing title with markup tags stripped.
func (it SearchItem) CleanTitle() string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(it.Title, ""))
}

// PriceValue parses the listing's lowest price. ok is false when the field
// is empty or not purely numeric.
func (it SearchItem) PriceValue() (int, bool) {
	s := strings.TrimSpace(it.LowPrice)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Top3Entry is one of the cheapest listings kept for the report.
type Top3Entry struct {
	LowPrice *int   `json:"lprice"`
	MallName string `json:"mallName"`
	Link     string `json:"link"`
}

// PriceInsightReport is the console summary of one reconciliation run.
type PriceInsightReport struct {
	TotalRows    int
	DiffPositive int
	WithHistory  int

	AverageDiff float64
	MinDiff     int
	MaxDiff     int
	BiggestGap  *PriceRow

	TopGaps      []PriceRow
	RowsByMall   map[string]int
	ByConfidence [6]int
}

// PriceRow is a fully reconciled output row. Every row has a positive
// LowestPrice and a non-empty FinalImage by construction; rows missing
// either were excluded upstream. JSON tags match the dashboard payload
// and the exported CSV columns.
type PriceRow struct {
	Code          string      `json:"코드"`
	NameEN        string      `json:"상품명(영문)"`
	NameKO        string      `json:"상품명(한글)"`
	OfficialPrice *int        `json:"공식몰가"`
	LowestPrice   int         `json:"네이버최저가"`
	Diff          *int        `json:"가격차이"`
	MallName      string      `json:"최저가몰"`
	Link          string      `json:"링크"`
	FinalImage    string      `json:"이미지URL"`
	OfficialImage string      `json:"공식이미지URL"`
	MarketImage   string      `json:"네이버이미지URL"`
	MatchTitle    string      `json:"naver_title"`
	Confidence    int         `json:"confidence"`
	Top3          []Top3Entry `json:"top3"`
	PrevPrice     *int        `json:"prev_naver"`
	Delta         *int        `json:"delta_naver"`
}
