package models

// Image statuses recorded per banner.
const (
	ImgStatusOK       = "ok"
	ImgStatusCached   = "cached"
	ImgStatusNoURL    = "no_url"
	ImgStatusDownFail = "download_fail"
)

// Banner is one hero banner captured from a brand landing page.
type Banner struct {
	Date      string
	BrandKey  string
	BrandName string
	Rank      int
	Title     string
	Href      string
	HrefClean string
	PlanStart string
	PlanEnd   string
	ImgURL    string
	ImgLocal  string
	ImgStatus string
	ImgWidth  int
	ImgHeight int
	ImgBytes  int64
}

// BrandRef is the (key, display name) pair the report uses for tab order.
type BrandRef struct {
	Key  string
	Name string
}
