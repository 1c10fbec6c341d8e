package pricing

import (
	"sort"
	"strings"

	"marketing-intel/models"
)

// Accessory noise that regularly outranks the real product in search
// results. Matched as substrings of the tag-stripped title.
var noiseTitleTerms = []string{"호환", "케이스", "필름", "스티커", "리필", "커버"}

// Seller-name fragments that indicate an official or department-store
// channel; used for the confidence score only, never for filtering.
var trustedMallTerms = []string{
	"공식", "브랜드", "백화점", "현대", "롯데", "신세계", "네이버", "스마트스토어",
}

var brandTitleTokens = []string{"columbia", "컬럼비아"}

// FilterItems drops listings outside the price bounds, from excluded
// sellers, or with accessory-noise titles. Order is preserved, so the
// operation is idempotent and the stable-min/top-N picks downstream stay
// deterministic.
func FilterItems(items []models.SearchItem, minPrice, maxPrice *int, excludeMalls []string) []models.SearchItem {
	var excludes []string
	for _, m := range excludeMalls {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			excludes = append(excludes, m)
		}
	}

	var kept []models.SearchItem
	for _, it := range items {
		price := -1
		if v, ok := it.PriceValue(); ok {
			price = v
		}
		if minPrice != nil && price < *minPrice {
			continue
		}
		if maxPrice != nil && price > *maxPrice {
			continue
		}

		mall := strings.ToLower(it.MallName)
		if containsAny(mall, excludes) {
			continue
		}

		title := strings.ToLower(it.CleanTitle())
		if containsAny(title, noiseTitleTerms) {
			continue
		}

		kept = append(kept, it)
	}
	return kept
}

// PickLowestItem returns the first listing with the strictly lowest
// parseable price. Listings with unparseable prices never win.
func PickLowestItem(items []models.SearchItem) (models.SearchItem, bool) {
	best := models.SearchItem{}
	bestPrice := 0
	found := false

	for _, it := range items {
		price, ok := it.PriceValue()
		if !ok {
			continue
		}
		if !found || price < bestPrice {
			best, bestPrice, found = it, price, true
		}
	}
	return best, found
}

// PickTopNByPrice returns the n cheapest listings in ascending price
// order. The sort is stable, so equal prices keep API order and the result
// is always a prefix of the full ascending sort.
func PickTopNByPrice(items []models.SearchItem, n int) []models.SearchItem {
	sorted := make([]models.SearchItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sortPrice(sorted[i]) < sortPrice(sorted[j])
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func sortPrice(it models.SearchItem) int {
	if v, ok := it.PriceValue(); ok {
		return v
	}
	return int(^uint(0) >> 1)
}

// ComputeConfidence scores how likely the best listing is the product
// itself: +2 when the style code appears in the title, +1 for a brand
// token, +1 for a trusted seller. Zero when there is no listing. Display
// only; it never gates a row.
func ComputeConfidence(code string, best *models.SearchItem) int {
	if best == nil {
		return 0
	}

	score := 0
	title := strings.ToLower(best.CleanTitle())
	if c := strings.ToLower(strings.TrimSpace(code)); c != "" && strings.Contains(title, c) {
		score += 2
	}
	if containsAny(title, brandTitleTokens) {
		score++
	}
	if containsAny(strings.ToLower(best.MallName), trustedMallTerms) {
		score++
	}
	return score
}

// ChooseMarketImage picks the marketplace-side image: the best listing's
// image, else the first non-empty image among the cheapest listings.
func ChooseMarketImage(best *models.SearchItem, top []models.SearchItem) string {
	if best != nil && best.Image != "" {
		return best.Image
	}
	for _, it := range top {
		if it.Image != "" {
			return it.Image
		}
	}
	return ""
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
