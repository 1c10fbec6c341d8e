package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"marketing-intel/models"
)

// utf8BOM is prepended to every CSV so Excel detects the Korean columns.
const utf8BOM = "\ufeff"

// priceCSVHeader is the fixed column order of the reconciled price export.
var priceCSVHeader = []string{
	"코드", "상품명(영문)", "상품명(한글)",
	"공식몰가", "네이버최저가", "가격차이", "최저가몰", "링크",
	"이미지URL", "공식이미지URL", "네이버이미지URL",
	"naver_title", "confidence", "top3", "prev_naver", "delta_naver",
}

var bannerCSVHeader = []string{
	"date", "brand_key", "brand_name", "rank",
	"title", "href", "href_clean",
	"plan_start", "plan_end",
	"img_url", "img_local", "img_status",
	"img_w", "img_h", "img_bytes",
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("csv: write bom: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteBannerCSV writes collected banners to path.
func WriteBannerCSV(path string, banners []models.Banner) error {
	rows := make([][]string, 0, len(banners))
	for _, b := range banners {
		rows = append(rows, []string{
			b.Date, b.BrandKey, b.BrandName, strconv.Itoa(b.Rank),
			b.Title, b.Href, b.HrefClean,
			b.PlanStart, b.PlanEnd,
			b.ImgURL, b.ImgLocal, b.ImgStatus,
			strconv.Itoa(b.ImgWidth), strconv.Itoa(b.ImgHeight),
			strconv.FormatInt(b.ImgBytes, 10),
		})
	}
	return writeCSV(path, bannerCSVHeader, rows)
}

// WritePriceCSV writes reconciled price rows to path. Nil numeric fields
// become empty cells so re-imports can tell "absent" from zero; top3 is
// embedded as inline JSON.
func WritePriceCSV(path string, priceRows []models.PriceRow) error {
	rows := make([][]string, 0, len(priceRows))
	for _, r := range priceRows {
		top3, err := json.Marshal(r.Top3)
		if err != nil {
			return fmt.Errorf("csv: encode top3 for %s: %w", r.Code, err)
		}
		rows = append(rows, []string{
			r.Code, r.NameEN, r.NameKO,
			intPtrString(r.OfficialPrice), strconv.Itoa(r.LowestPrice),
			intPtrString(r.Diff), r.MallName, r.Link,
			r.FinalImage, r.OfficialImage, r.MarketImage,
			r.MatchTitle, strconv.Itoa(r.Confidence), string(top3),
			intPtrString(r.PrevPrice), intPtrString(r.Delta),
		})
	}
	return writeCSV(path, priceCSVHeader, rows)
}

func intPtrString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
