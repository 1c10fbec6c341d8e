package banner

import (
	"regexp"
	"sort"
	"strings"
)

const fallbackTitle = "메인 배너"

var wsRe = regexp.MustCompile(`\s+`)

func normWS(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// Tokens that mark a candidate as a file name, an image query string, or
// carousel chrome rather than a campaign title.
var junkTitleTokens = []string{
	"phpthumb", "src=/uploads", "w=1200", "q=80", "f=webp",
	".jpg", ".jpeg", ".png", ".webp", "data:image",
	"main_mc", "kakaotalk_", "img_", "banner_", "thumb",
}

var hashLikeRe = regexp.MustCompile(`^[a-f0-9_\-]{18,}$`)

var navWords = map[string]bool{
	"next": true, "prev": true, "이전": true, "다음": true, "닫기": true,
}

func isJunkTitle(t string) bool {
	tl := strings.ToLower(strings.TrimSpace(t))
	if tl == "" {
		return true
	}
	for _, tok := range junkTitleTokens {
		if strings.Contains(tl, tok) {
			return true
		}
	}
	return hashLikeRe.MatchString(tl)
}

func cleanCampaignTitle(t string) string {
	t = normWS(t)
	t = strings.Trim(t, `"'`)
	t = strings.TrimSpace(t)
	if runes := []rune(t); len(runes) > 90 {
		t = string(runes[:90])
	}
	return t
}

// chooseTitle picks the best campaign title from the candidate texts:
// navigation words and near-empty strings are dropped, junk candidates
// only win when nothing else is left, and among survivors the longest
// wins.
func chooseTitle(cands ...string) string {
	var all []string
	for _, c := range cands {
		c = normWS(c)
		if c == "" || navWords[strings.ToLower(c)] || len([]rune(c)) <= 1 {
			continue
		}
		all = append(all, c)
	}

	var clean []string
	for _, c := range all {
		if !isJunkTitle(c) {
			clean = append(clean, c)
		}
	}

	pick := func(list []string) string {
		sort.Slice(list, func(i, j int) bool {
			li, lj := len([]rune(list[i])), len([]rune(list[j]))
			if li != lj {
				return li > lj
			}
			return list[i] > list[j]
		})
		return cleanCampaignTitle(list[0])
	}

	if len(clean) > 0 {
		return pick(clean)
	}
	if len(all) > 0 {
		return pick(all)
	}
	return fallbackTitle
}
