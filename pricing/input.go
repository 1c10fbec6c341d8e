package pricing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"marketing-intel/models"
	"marketing-intel/utils"
)

// Column synonyms accepted in the product list, matched case-insensitively
// after trimming. Exports from different teams disagree on header names.
var (
	codeColumns   = []string{"코드", "상품코드", "style_code", "product_code", "code"}
	nameENColumns = []string{"상품명(영문)", "상품명_영문", "name_en", "product_name_en", "english_name"}
	nameKOColumns = []string{"상품명(한글)", "상품명", "name_ko", "product_name", "korean_name"}
	priceColumns  = []string{"공식몰가", "공식가", "정상가", "official_price", "price"}
)

// Positional fallbacks when no header matches: code=col 1, English name=
// col 2, official price=col 4.
const (
	codeFallbackIdx  = 1
	nameFallbackIdx  = 2
	priceFallbackIdx = 4
)

var nonDigitRe = regexp.MustCompile(`[^\d]`)

// PickInputFile resolves the product list path: the explicit path if given,
// else defaultName if it exists, else the newest file matching any of the
// glob patterns.
func PickInputFile(explicit, defaultName string, patterns []string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("input file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	if _, err := os.Stat(defaultName); err == nil {
		return defaultName, nil
	}

	var candidates []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		candidates = append(candidates, matches...)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no input file found (tried %s and %v)", defaultName, patterns)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return fileModTime(candidates[i]) > fileModTime(candidates[j])
	})
	return candidates[0], nil
}

func fileModTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}

// LoadProducts reads the official product list. Rows without a code are
// dropped; at most limit rows are returned when limit > 0.
func LoadProducts(path string, limit int) ([]models.Product, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("product list %s: no data rows", path)
	}

	header := records[0]
	codeIdx := findColumn(header, codeColumns, codeFallbackIdx)
	nameENIdx := findColumn(header, nameENColumns, nameFallbackIdx)
	nameKOIdx := findColumn(header, nameKOColumns, -1)
	priceIdx := findColumn(header, priceColumns, priceFallbackIdx)

	var products []models.Product
	for rowNum, rec := range records[1:] {
		code := strings.ToUpper(strings.TrimSpace(field(rec, codeIdx)))
		if code == "" || strings.EqualFold(code, "nan") {
			continue
		}

		products = append(products, models.Product{
			Code:          code,
			NameEN:        strings.TrimSpace(field(rec, nameENIdx)),
			NameKO:        strings.TrimSpace(field(rec, nameKOIdx)),
			OfficialPrice: parsePrice(field(rec, priceIdx)),
			Row:           rowNum + 2,
		})
		if limit > 0 && len(products) >= limit {
			break
		}
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product list %s: no usable rows", path)
	}
	return products, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func findColumn(header []string, synonyms []string, fallback int) int {
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		for _, syn := range synonyms {
			if name == strings.ToLower(syn) {
				return i
			}
		}
	}
	if fallback >= 0 && fallback < len(header) {
		return fallback
	}
	return -1
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func parsePrice(raw string) *int {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return nil
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &v
}

// Official image map parsing. The export mixes product photos with site
// chrome; only ProductImages URLs count and icon/banner paths are dropped.
var (
	officialCodeURLRe  = regexp.MustCompile(`(?i)/([A-Z]\d{2}[A-Z]{2}\d{7})\.(?:jpg|jpeg|png|webp)(?:\?|$)`)
	officialCodeNameRe = regexp.MustCompile(`(?i)\(([A-Z]\d{2}[A-Z]{2}\d{7})\)`)
	badImagePathTerms  = []string{"/images/pc/common/ico_", "/data/banner/", "gift_banner", "icon"}
)

// LoadOfficialImageMap builds code → official image URL from the site
// export. Returns an empty map (never nil) when the file is missing or
// lacks the required columns; the run proceeds without official images.
func LoadOfficialImageMap(path string, logger *utils.Logger) map[string]string {
	result := make(map[string]string)
	if path == "" {
		return result
	}

	records, err := readCSV(path)
	if err != nil {
		logger.Warn("[pricewatch] official image map unavailable: %v", err)
		return result
	}
	if len(records) < 2 {
		return result
	}

	header := records[0]
	nameIdx, urlIdx, hashIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "product_name":
			nameIdx = i
		case "image_url":
			urlIdx = i
		case "ahash64":
			hashIdx = i
		}
	}
	if nameIdx < 0 || urlIdx < 0 {
		logger.Warn("[pricewatch] official image map %s: product_name/image_url columns missing", path)
		return result
	}

	type pair struct{ code, url string }
	var pairs []pair
	for _, rec := range records[1:] {
		imgURL := strings.TrimSpace(field(rec, urlIdx))
		if imgURL == "" {
			continue
		}
		lower := strings.ToLower(imgURL)
		if containsAny(lower, badImagePathTerms) {
			continue
		}
		if !strings.Contains(lower, "/data/productimages/") {
			continue
		}
		if hashIdx >= 0 {
			if h := strings.TrimSpace(field(rec, hashIdx)); h == "" || h == "0" {
				continue
			}
		}

		code := ""
		if m := officialCodeURLRe.FindStringSubmatch(imgURL); m != nil {
			code = m[1]
		} else if m := officialCodeNameRe.FindStringSubmatch(field(rec, nameIdx)); m != nil {
			code = m[1]
		}
		if code == "" {
			continue
		}
		pairs = append(pairs, pair{code: strings.ToUpper(code), url: imgURL})
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].code < pairs[j].code })
	for _, p := range pairs {
		if _, ok := result[p.code]; !ok {
			result[p.code] = p.url
		}
	}

	logger.Info("[pricewatch] official image map loaded: %d codes", len(result))
	return result
}
