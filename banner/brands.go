package banner

import "marketing-intel/models"

// Extraction modes. Site-specific modes know the carousel markup; generic
// scans the top of the page for wide visible elements.
const (
	ModeTNFSlick      = "tnf_slick"
	ModeNepaStatic    = "nepa_static"
	ModePatagoniaHero = "patagonia_hero"
	ModeBlackyakSwipe = "blackyak_swiper"
	ModeDiscoverySw   = "discovery_swiper"
	ModeGeneric       = "generic"
)

// Brand describes one landing page to crawl and which extraction heuristic
// to apply.
type Brand struct {
	Key      string
	Name     string
	URL      string
	Mode     string
	MaxItems int
}

// Brands is the crawl order. Tracking params in the URLs are left as found
// on the referral paths; NormalizeHref strips them before dedupe.
var Brands = []Brand{
	{"tnf", "The North Face", "https://www.thenorthfacekorea.co.kr/", ModeTNFSlick, 3},
	{"nepa", "NEPA", "https://www.nplus.co.kr/main/main.asp?NaPm=ct%3Dmk68nx7b%7Cci%3Dcheckout%7Ctr%3Dds%7Ctrx%3Dnull%7Chk%3D2eb6245a50cfbdfae4c4e3e806691658fa257fa9", ModeNepaStatic, 3},
	{"patagonia", "Patagonia", "https://www.patagonia.co.kr/", ModePatagoniaHero, 1},
	{"blackyak", "Black Yak", "https://www.byn.kr/blackyak?utm_source=naver&utm_medium=BSA&utm_campaign=BY_EC_250828_hyperpulse_PERF_NV_BSA&utm_content=PC_BY_EC_naver_BSA_250828_hyperpulse_homelink&utm_term=%EB%B8%94%EB%9E%99%EC%95%BC%ED%81%AC&NaPm=ct%3Dmhwxwfpl%7Cci%3DERbd1ca7ea%2Dc04a%2D11f0%2D935c%2Df6a058b83a4c%7Ctr%3Dbrnd%7Chk%3D07dc9aedc63b17fba956801b4aa26232c93036a5%7Cnacn%3DBOWtB0gPQcOt", ModeBlackyakSwipe, 3},
	{"discovery", "Discovery", "https://www.discovery-expedition.com/?gf=A", ModeDiscoverySw, 3},

	{"arcteryx", "Arc'teryx", "https://www.arcteryx.co.kr/", ModeGeneric, 3},
	{"salomon", "Salomon", "https://salomon.co.kr/", ModeGeneric, 3},
	{"snowpeak", "Snow Peak", "https://www.snowpeakstore.co.kr/", ModeGeneric, 3},
	{"natgeo", "National Geographic", "https://www.natgeokorea.com/", ModeGeneric, 3},
	{"kolonsport", "Kolon Sport", "https://www.kolonsport.com/", ModeGeneric, 3},
	{"k2", "K2", "https://www.k2.co.kr/", ModeGeneric, 3},
	{"montbell", "Montbell", "https://www.montbell.co.kr/", ModeGeneric, 3},
	{"eider", "Eider", "https://www.eider.co.kr/", ModeGeneric, 3},
}

// Refs returns the (key, name) pairs in crawl order for the report tabs.
func Refs() []models.BrandRef {
	refs := make([]models.BrandRef, len(Brands))
	for i, b := range Brands {
		refs[i] = models.BrandRef{Key: b.Key, Name: b.Name}
	}
	return refs
}
