// Package report renders the self-contained HTML portals for each
// collector run. Each page embeds Tailwind via CDN and all of its data,
// so the output can be opened from disk or served as a static file.
package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"marketing-intel/models"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

const utf8BOM = "\ufeff"

func render(path, name string, data interface{}, withBOM bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %q: %w", path, err)
	}
	defer f.Close()

	if withBOM {
		if _, err := f.WriteString(utf8BOM); err != nil {
			return fmt.Errorf("report: write bom: %w", err)
		}
	}

	if err := templates.ExecuteTemplate(f, name, data); err != nil {
		return fmt.Errorf("report: render %s: %w", name, err)
	}
	return nil
}

// comma formats n with thousands separators.
func comma(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// signedComma is comma formatting with an explicit + on non-negatives.
func signedComma(n int) string {
	if n >= 0 {
		return "+" + comma(n)
	}
	return comma(n)
}

// ---------------------------------------------------------------------
// Forum signal portal
// ---------------------------------------------------------------------

// ForumMention is one quoted sentence card.
type ForumMention struct {
	Text       string
	URL        string
	TitleShort string
}

// ForumTab is one brand tab of the VOC page.
type ForumTab struct {
	Name     string
	Count    int
	Active   bool
	Mentions []ForumMention
}

// ForumData is everything the VOC page template needs.
type ForumData struct {
	GeneratedAt string
	Keywords    []models.KeywordCount
	Tabs        []ForumTab
	HasData     bool
}

// BuildForumData groups brand mentions into tabs following brandOrder.
// Brands with zero mentions get no tab; if nothing was collected at all,
// HasData is false and the template shows a placeholder card instead.
func BuildForumData(mentions map[string][]models.BrandMention, keywords []models.KeywordCount, brandOrder []string, now time.Time) ForumData {
	data := ForumData{
		GeneratedAt: now.Format("2006-01-02 15:04"),
		Keywords:    keywords,
	}

	for _, brand := range brandOrder {
		items := mentions[brand]
		if len(items) == 0 {
			continue
		}
		tab := ForumTab{
			Name:   brand,
			Count:  len(items),
			Active: len(data.Tabs) == 0,
		}
		for _, m := range items {
			tab.Mentions = append(tab.Mentions, ForumMention{
				Text:       m.Text,
				URL:        m.URL,
				TitleShort: shortenTitle(m.Title, 25),
			})
		}
		data.Tabs = append(data.Tabs, tab)
	}

	data.HasData = len(data.Tabs) > 0
	return data
}

func shortenTitle(title string, max int) string {
	r := []rune(title)
	if len(r) <= max {
		return title
	}
	return string(r[:max]) + "..."
}

// RenderForum writes the VOC analysis page to path.
func RenderForum(path string, data ForumData) error {
	return render(path, "forum.html.tmpl", data, false)
}

// ---------------------------------------------------------------------
// Hero banner portal
// ---------------------------------------------------------------------

// HeroCard is one banner card.
type HeroCard struct {
	Rank     int
	Title    string
	ImgSrc   string
	Href     string
	ImgURL   string
	DateText string
	MetaText string
}

// HeroTab is one brand tab of the hero page.
type HeroTab struct {
	Key    string
	Name   string
	Count  int
	Active bool
	Cards  []HeroCard
}

// HeroData is everything the hero page template needs.
type HeroData struct {
	GeneratedAt string
	PathMode    string
	DateFetch   string
	Tabs        []HeroTab
}

// BuildHeroData groups banners into brand tabs in refs order. Brands with
// no banners this run still get a tab with a placeholder card. Local
// images link either as absolute file:// URLs or relative to the asset
// directory, depending on absoluteFileURL.
func BuildHeroData(banners []models.Banner, refs []models.BrandRef, assetDir, assetDirName string, absoluteFileURL, fetchDates bool, now time.Time) HeroData {
	byBrand := make(map[string][]models.Banner)
	for _, b := range banners {
		byBrand[b.BrandKey] = append(byBrand[b.BrandKey], b)
	}

	data := HeroData{
		GeneratedAt: now.Format("2006-01-02 15:04"),
		PathMode:    "REL(" + assetDirName + "/)",
		DateFetch:   "OFF",
	}
	if absoluteFileURL {
		data.PathMode = "ABS(file://)"
	}
	if fetchDates {
		data.DateFetch = "ON"
	}

	active := make([]models.BrandRef, 0, len(refs))
	for _, ref := range refs {
		if len(byBrand[ref.Key]) > 0 {
			active = append(active, ref)
		}
	}
	if len(active) == 0 {
		active = refs
	}

	for i, ref := range active {
		items := byBrand[ref.Key]
		sort.SliceStable(items, func(a, b int) bool { return items[a].Rank < items[b].Rank })

		tab := HeroTab{Key: ref.Key, Name: ref.Name, Count: len(items), Active: i == 0}
		for _, it := range items {
			tab.Cards = append(tab.Cards, buildHeroCard(it, assetDir, assetDirName, absoluteFileURL))
		}
		data.Tabs = append(data.Tabs, tab)
	}
	return data
}

func buildHeroCard(b models.Banner, assetDir, assetDirName string, absoluteFileURL bool) HeroCard {
	imgSrc := ""
	if b.ImgLocal != "" {
		if absoluteFileURL {
			imgSrc = fileURL(filepath.Join(assetDir, b.ImgLocal))
		} else {
			imgSrc = assetDirName + "/" + b.ImgLocal
		}
	}
	if imgSrc == "" {
		imgSrc = b.ImgURL
	}

	href := b.HrefClean
	if href == "" {
		href = b.Href
	}
	if href == "" {
		href = "#"
	}

	imgBtn := b.ImgURL
	if imgBtn == "" {
		imgBtn = imgSrc
	}
	if imgBtn == "" {
		imgBtn = "#"
	}

	dateText := ""
	switch {
	case b.PlanStart != "" && b.PlanEnd != "":
		dateText = b.PlanStart + " ~ " + b.PlanEnd
	case b.PlanStart != "":
		dateText = b.PlanStart
	}

	metaText := ""
	if b.ImgWidth > 0 && b.ImgHeight > 0 {
		metaText = fmt.Sprintf("%d×%d", b.ImgWidth, b.ImgHeight)
		if b.ImgBytes > 0 {
			metaText += fmt.Sprintf(" · %sKB", comma(int(b.ImgBytes/1024)))
		}
	} else if b.ImgStatus != "" && b.ImgStatus != models.ImgStatusOK {
		metaText = b.ImgStatus
	}

	return HeroCard{
		Rank:     b.Rank,
		Title:    b.Title,
		ImgSrc:   imgSrc,
		Href:     href,
		ImgURL:   imgBtn,
		DateText: dateText,
		MetaText: metaText,
	}
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

// RenderHero writes the hero banner page to path.
func RenderHero(path string, data HeroData) error {
	return render(path, "hero.html.tmpl", data, false)
}

// ---------------------------------------------------------------------
// Price monitoring portal
// ---------------------------------------------------------------------

// deltaSortDefault pushes rows with no history to the end of ascending
// delta sorts on the client.
const deltaSortDefault = "1000000000000000000"

// Top3View is one row of the expandable top-3 list.
type Top3View struct {
	Index     int
	PriceText string
	Mall      string
	Link      string
}

// PriceCard carries the precomputed strings, badge classes and data
// attributes for one product card.
type PriceCard struct {
	Code        string
	CodeLower   string
	NameEnLower string
	NameKoLower string
	TitleMain   string
	TitleSub    string
	ImgFinal    string
	ImgAlt      string

	OfficialText string
	NaverText    string
	DiffText     string
	PrevText     string
	DeltaText    string
	Mall         string
	Link         string

	HasDiff   bool
	DiffClass string
	DiffLabel string

	HasDelta   bool
	DeltaClass string

	ConfClass  string
	Confidence int

	SrcLabel string
	SrcClass string

	Top3 []Top3View

	MissingFlag int
	DiffPosFlag int
	DiffAttr    string
	DiffAbs     int
	NaverNum    int
	OfficialNum int
	DeltaAttr   string
}

// PriceTab is one code-prefix tab of the dashboard.
type PriceTab struct {
	Name   string
	Count  int
	Active bool
	Cards  []PriceCard
}

// PriceData is everything the price dashboard template needs.
type PriceData struct {
	GeneratedAt  string
	PrevLabel    string
	TotalCount   int
	DiffPosCount int
	MissingCount int
	Tabs         []PriceTab
	RowsJSON     template.JS
	TopGapJSON   template.JS
}

// BuildPriceData groups rows into the C7 / C6 / 전체 tabs and precomputes
// every display string and sort attribute the dashboard script reads.
// prevCSV is the snapshot used for delta computation, empty when none.
func BuildPriceData(rows []models.PriceRow, prevCSV string, now time.Time) (PriceData, error) {
	data := PriceData{
		GeneratedAt: now.Format("2006-01-02 15:04"),
		PrevLabel:   "없음(비교 불가)",
		TotalCount:  len(rows),
	}
	if prevCSV != "" {
		data.PrevLabel = filepath.Base(prevCSV)
	}

	groups := map[string][]models.PriceRow{}
	for _, r := range rows {
		code := strings.ToUpper(r.Code)
		switch {
		case strings.HasPrefix(code, "C7"):
			groups["C7"] = append(groups["C7"], r)
		case strings.HasPrefix(code, "C6"):
			groups["C6"] = append(groups["C6"], r)
		}
		groups["전체"] = append(groups["전체"], r)

		if r.LowestPrice <= 0 {
			data.MissingCount++
		}
		if r.Diff != nil && *r.Diff > 0 {
			data.DiffPosCount++
		}
	}

	tabs := []string{}
	for _, name := range []string{"C7", "C6", "전체"} {
		if len(groups[name]) > 0 {
			tabs = append(tabs, name)
		}
	}
	if len(tabs) == 0 {
		tabs = []string{"전체"}
	}

	for i, name := range tabs {
		tab := PriceTab{Name: name, Count: len(groups[name]), Active: i == 0}
		for _, r := range groups[name] {
			tab.Cards = append(tab.Cards, buildPriceCard(r))
		}
		data.Tabs = append(data.Tabs, tab)
	}

	topGap := make([]models.PriceRow, len(rows))
	copy(topGap, rows)
	sort.SliceStable(topGap, func(a, b int) bool { return gapAbs(topGap[a]) > gapAbs(topGap[b]) })
	if len(topGap) > 10 {
		topGap = topGap[:10]
	}
	topCodes := make([]string, 0, len(topGap))
	for _, r := range topGap {
		if code := strings.TrimSpace(r.Code); code != "" {
			topCodes = append(topCodes, code)
		}
	}

	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return PriceData{}, fmt.Errorf("report: encode rows: %w", err)
	}
	topJSON, err := json.Marshal(topCodes)
	if err != nil {
		return PriceData{}, fmt.Errorf("report: encode top gap codes: %w", err)
	}
	data.RowsJSON = template.JS(rowsJSON)
	data.TopGapJSON = template.JS(topJSON)

	return data, nil
}

func gapAbs(r models.PriceRow) int {
	if r.Diff == nil {
		return -1
	}
	if *r.Diff < 0 {
		return -*r.Diff
	}
	return *r.Diff
}

func buildPriceCard(r models.PriceRow) PriceCard {
	card := PriceCard{
		Code:        r.Code,
		CodeLower:   strings.ToLower(r.Code),
		NameEnLower: strings.ToLower(r.NameEN),
		NameKoLower: strings.ToLower(r.NameKO),
		ImgFinal:    strings.TrimSpace(r.FinalImage),
		Mall:        r.MallName,
		Link:        r.Link,
		Confidence:  r.Confidence,

		OfficialText: "-",
		NaverText:    "미검색",
		DiffText:     "-",
		PrevText:     "-",
		DeltaText:    "-",

		NaverNum:    -1,
		OfficialNum: -1,
		DiffAbs:     -1,
		DeltaAttr:   deltaSortDefault,
	}

	card.TitleMain = r.NameKO
	card.TitleSub = r.NameEN
	if card.TitleMain == "" {
		card.TitleMain = r.NameEN
		card.TitleSub = ""
	}
	card.ImgAlt = r.NameEN
	if card.ImgAlt == "" {
		card.ImgAlt = r.NameKO
	}

	if r.OfficialPrice != nil {
		card.OfficialText = comma(*r.OfficialPrice) + "원"
		card.OfficialNum = *r.OfficialPrice
	}
	if r.LowestPrice > 0 {
		card.NaverText = comma(r.LowestPrice) + "원"
		card.NaverNum = r.LowestPrice
	} else {
		card.MissingFlag = 1
	}

	if r.Diff != nil {
		card.HasDiff = true
		card.DiffText = signedComma(*r.Diff) + "원"
		card.DiffAttr = strconv.Itoa(*r.Diff)
		card.DiffAbs = gapAbs(r)
		if *r.Diff > 0 {
			card.DiffPosFlag = 1
			card.DiffClass = "bg-red-500/10 text-red-600"
			card.DiffLabel = "공식↑"
		} else {
			card.DiffClass = "bg-emerald-500/10 text-emerald-700"
			card.DiffLabel = "공식↓"
		}
	}

	if r.PrevPrice != nil {
		card.PrevText = comma(*r.PrevPrice) + "원"
	}
	if r.Delta != nil {
		card.HasDelta = true
		card.DeltaText = signedComma(*r.Delta) + "원"
		card.DeltaAttr = strconv.Itoa(*r.Delta)
		switch {
		case *r.Delta > 0:
			card.DeltaClass = "bg-amber-500/10 text-amber-700"
		case *r.Delta < 0:
			card.DeltaClass = "bg-sky-500/10 text-sky-700"
		default:
			card.DeltaClass = "bg-slate-500/10 text-slate-700"
		}
	}

	switch {
	case r.Confidence >= 3:
		card.ConfClass = "bg-emerald-500/10 text-emerald-700"
	case r.Confidence == 2:
		card.ConfClass = "bg-amber-500/10 text-amber-800"
	case r.Confidence == 1:
		card.ConfClass = "bg-red-500/10 text-red-600"
	default:
		card.ConfClass = "bg-slate-500/10 text-slate-700"
	}

	if card.ImgFinal != "" {
		switch {
		case r.OfficialImage != "" && card.ImgFinal == r.OfficialImage:
			card.SrcLabel = "IMG: OFFICIAL"
			card.SrcClass = "bg-blue-500/10 text-blue-700"
		case r.MarketImage != "" && card.ImgFinal == r.MarketImage:
			card.SrcLabel = "IMG: NAVER"
			card.SrcClass = "bg-purple-500/10 text-purple-700"
		default:
			card.SrcLabel = "IMG: MIX"
			card.SrcClass = "bg-slate-500/10 text-slate-700"
		}
	}

	for i, e := range r.Top3 {
		if i >= 3 {
			break
		}
		v := Top3View{Index: i + 1, PriceText: "-", Mall: e.MallName, Link: e.Link}
		if e.LowPrice != nil {
			v.PriceText = comma(*e.LowPrice) + "원"
		}
		card.Top3 = append(card.Top3, v)
	}

	return card
}

// RenderPrice writes the price dashboard to path. The file carries a BOM
// so Excel and older browsers pick up the Korean text correctly.
func RenderPrice(path string, data PriceData) error {
	return render(path, "price.html.tmpl", data, true)
}
