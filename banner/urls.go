package banner

import (
	"net/url"
	"strings"
)

// absURL resolves a possibly relative reference against the page URL.
// Protocol-relative URLs get https.
func absURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

var trackingParamKeys = map[string]bool{
	"fbclid":    true,
	"gclid":     true,
	"wbraid":    true,
	"gbraid":    true,
	"NaPm":      true,
	"nacn":      true,
	"sms_click": true,
	"igshid":    true,
}

// NormalizeHref canonicalizes a link for dedupe: tracking params (utm_*
// plus the known click ids) and the fragment are stripped, everything else
// kept in original order.
func NormalizeHref(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	if u.RawQuery != "" {
		var kept []string
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" {
				continue
			}
			key := pair
			if i := strings.IndexByte(pair, '='); i >= 0 {
				key = pair[:i]
			}
			if decoded, err := url.QueryUnescape(key); err == nil {
				key = decoded
			}
			if strings.HasPrefix(key, "utm_") || trackingParamKeys[key] {
				continue
			}
			kept = append(kept, pair)
		}
		u.RawQuery = strings.Join(kept, "&")
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
