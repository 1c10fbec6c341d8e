package banner

import (
	"sort"
	"strings"

	"marketing-intel/models"
)

// DedupeRows removes duplicate banners within one brand. The normalized
// href is the primary key; banners without any href fall back to the image
// URL. Ranks are reassigned 1..N afterwards so the output is always dense.
func DedupeRows(rows []models.Banner) []models.Banner {
	if len(rows) == 0 {
		return rows
	}

	sorted := make([]models.Banner, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })

	seenHref := map[string]bool{}
	seenImg := map[string]bool{}
	var out []models.Banner

	for _, b := range sorted {
		hc := b.HrefClean
		if hc == "" {
			hc = NormalizeHref(b.Href)
		}
		img := strings.TrimSpace(b.ImgURL)

		if hc != "" {
			if seenHref[hc] {
				continue
			}
			seenHref[hc] = true
		} else if img != "" {
			if seenImg[img] {
				continue
			}
			seenImg[img] = true
		}

		out = append(out, b)
	}

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
