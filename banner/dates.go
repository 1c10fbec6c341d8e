package banner

import (
	"fmt"
	"regexp"
	"strconv"
)

// Campaign period notations seen on event pages, most specific first. The
// second form omits the end year; the third covers 부터/까지 phrasing.
var (
	dateRangeFullRe = regexp.MustCompile(
		`(\d{4}[./-]\d{1,2}[./-]\d{1,2})\s*(?:~|∼|–|-|—)\s*(\d{4}[./-]\d{1,2}[./-]\d{1,2})`)
	dateRangeShortRe = regexp.MustCompile(
		`(\d{4})[./-](\d{1,2})[./-](\d{1,2})\s*(?:~|∼|–|-|—)\s*(\d{1,2})[./-](\d{1,2})`)
	dateRangeKoRe = regexp.MustCompile(
		`(\d{4}[./-]\d{1,2}[./-]\d{1,2}).{0,12}?(?:부터|~|∼|–|-|—).{0,12}?(\d{4}[./-]\d{1,2}[./-]\d{1,2})`)
)

var (
	dateParseRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	dateSepRe   = regexp.MustCompile(`[./]`)
)

func normDate(s string) string {
	s = wsRe.ReplaceAllString(s, "")
	s = dateSepRe.ReplaceAllString(s, "-")
	m := dateParseRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s-%02d-%02d", m[1], mo, d)
}

// ExtractDateRange scans free text for a campaign period and returns the
// start and end in YYYY-MM-DD. Both are empty when nothing matches.
func ExtractDateRange(text string) (string, string) {
	t := wsRe.ReplaceAllString(text, " ")

	if m := dateRangeFullRe.FindStringSubmatch(t); m != nil {
		return normDate(m[1]), normDate(m[2])
	}
	if m := dateRangeShortRe.FindStringSubmatch(t); m != nil {
		year := m[1]
		mo1, _ := strconv.Atoi(m[2])
		d1, _ := strconv.Atoi(m[3])
		mo2, _ := strconv.Atoi(m[4])
		d2, _ := strconv.Atoi(m[5])
		return fmt.Sprintf("%s-%02d-%02d", year, mo1, d1),
			fmt.Sprintf("%s-%02d-%02d", year, mo2, d2)
	}
	if m := dateRangeKoRe.FindStringSubmatch(t); m != nil {
		return normDate(m[1]), normDate(m[2])
	}
	return "", ""
}
