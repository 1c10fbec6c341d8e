package banner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"marketing-intel/config"
	"marketing-intel/models"
	"marketing-intel/utils"
)

// Collector drives one headless browser across the brand list. Brands are
// crawled strictly in order; a brand failure never aborts the run, and a
// dead browser is relaunched once per brand before the brand is skipped.
type Collector struct {
	cfg      *config.BannerConfig
	logger   *utils.Logger
	images   *ImageStore
	progress *utils.Progress
	assetDir string

	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
}

func NewCollector(cfg *config.BannerConfig, logger *utils.Logger) *Collector {
	assetDir := filepath.Join(cfg.OutDir, cfg.AssetDirName)
	return &Collector{
		cfg:      cfg,
		logger:   logger,
		assetDir: assetDir,
		images:   NewImageStore(assetDir, cfg.MaxImageWidth, cfg.JPEGQuality, cfg.UserAgent, logger),
		progress: utils.NewProgress(len(Brands)),
	}
}

// AssetDir returns the directory local banner images are written to.
func (c *Collector) AssetDir() string { return c.assetDir }

// Run crawls every brand and returns the deduped, rank-ordered banners.
func (c *Collector) Run(ctx context.Context) []models.Banner {
	c.launch(ctx)
	defer c.shutdown()

	dateStr := utils.NowKST().Format("2006-01-02")
	var rows []models.Banner

	for _, brand := range Brands {
		c.logger.Info("[hero] analyzing %s (%s)", brand.Name, brand.URL)

		brandRows, ok := c.collectBrand(ctx, brand, dateStr)
		brandRows = DedupeRows(brandRows)
		if c.cfg.FetchCampaignDates {
			c.enrichDates(brandRows)
		}

		rows = append(rows, brandRows...)
		c.progress.StepDone(ok)
	}
	c.progress.Finish()

	c.logger.Info("[hero] run complete: %d banners across %d brands", len(rows), len(Brands))
	return rows
}

func (c *Collector) launch(ctx context.Context) {
	chromeBin := findChromeBinary(c.cfg.ChromeBin)
	if chromeBin != "" {
		c.logger.Info("[hero] using browser binary: %s", chromeBin)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", "ko-KR"),
		chromedp.WindowSize(1440, 900),
		chromedp.UserAgent(c.cfg.UserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	c.cancelAlloc = cancelAlloc

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	c.browserCtx = browserCtx
	c.cancelBrowser = cancelBrowser
}

func (c *Collector) shutdown() {
	if c.cancelBrowser != nil {
		c.cancelBrowser()
	}
	if c.cancelAlloc != nil {
		c.cancelAlloc()
	}
}

func (c *Collector) relaunch(ctx context.Context) {
	c.logger.Warn("[hero] browser lost — relaunching")
	c.shutdown()
	c.launch(ctx)
}

func (c *Collector) collectBrand(ctx context.Context, b Brand, dateStr string) ([]models.Banner, bool) {
	for attempt := 1; attempt <= 2; attempt++ {
		c.progress.SetStage(fmt.Sprintf("%s open_page (try %d/2)", b.Name, attempt))

		rows, err := c.crawlBrand(b, dateStr)
		if err == nil {
			return rows, true
		}

		c.logger.Error("[hero] %s attempt %d failed: %v", b.Name, attempt, err)
		if attempt < 2 && isClosedError(err) {
			c.relaunch(ctx)
		}
	}
	return nil, false
}

func (c *Collector) crawlBrand(b Brand, dateStr string) ([]models.Banner, error) {
	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()

	navCtx, cancelNav := context.WithTimeout(tabCtx, c.cfg.NavTimeout)
	defer cancelNav()

	var cands []candidate
	err := chromedp.Run(navCtx,
		chromedp.Navigate(b.URL),
		chromedp.Sleep(c.cfg.WaitAfterGoto),
		chromedp.Evaluate(closePopupsJS, nil),
		chromedp.Evaluate(scrollNudgeJS, nil),
		chromedp.Sleep(900*time.Millisecond),
		chromedp.Evaluate(scriptForMode(b.Mode), &cands),
	)
	if err != nil {
		return nil, fmt.Errorf("crawl %s: %w", b.Key, err)
	}

	c.progress.SetStage(fmt.Sprintf("%s extract (%s)", b.Name, b.Mode))
	return c.buildBanners(b, dateStr, cands), nil
}

// buildBanners resolves candidate URLs, picks titles, downloads images, and
// caps the result at the brand's max. Candidates with neither a link nor an
// image are discarded.
func (c *Collector) buildBanners(b Brand, dateStr string, cands []candidate) []models.Banner {
	seen := map[string]bool{}
	var out []models.Banner
	rank := 1

	for _, cand := range cands {
		if rank > b.MaxItems {
			break
		}

		href := absURL(b.URL, cand.Href)
		imgURL := absURL(b.URL, cand.Img)
		if href == "" && imgURL == "" {
			continue
		}

		key := NormalizeHref(href) + "\n" + imgURL
		if seen[key] {
			continue
		}
		seen[key] = true

		title := chooseTitle(cand.Text, cand.Alt)
		if b.Mode == ModePatagoniaHero && title == fallbackTitle {
			// last path segment of the image often names the campaign
			title = chooseTitle(cand.Text, cand.Alt, lastPathSegment(imgURL))
		}

		local, status := c.images.Save(imgURL, b.Key, rank, b.URL)
		c.progress.AddImage(local != "")

		banner := models.Banner{
			Date:      dateStr,
			BrandKey:  b.Key,
			BrandName: b.Name,
			Rank:      rank,
			Title:     title,
			Href:      href,
			HrefClean: NormalizeHref(href),
			ImgURL:    imgURL,
			ImgLocal:  local,
			ImgStatus: status,
		}
		if meta, ok := c.images.Meta(local); ok && local != "" {
			banner.ImgWidth = meta.Width
			banner.ImgHeight = meta.Height
			banner.ImgBytes = meta.Bytes
		}

		out = append(out, banner)
		rank++
	}
	return out
}

// enrichDates opens each banner's target page in a fresh tab and scans it
// for a campaign period.
func (c *Collector) enrichDates(rows []models.Banner) {
	for i := range rows {
		href := rows[i].HrefClean
		if href == "" {
			href = rows[i].Href
		}
		if href == "" {
			continue
		}

		c.progress.SetStage(fmt.Sprintf("%s dates #%d", rows[i].BrandKey, rows[i].Rank))
		start, end := c.fetchCampaignDates(href)
		rows[i].PlanStart = start
		rows[i].PlanEnd = end
	}
}

func (c *Collector) fetchCampaignDates(href string) (string, string) {
	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()

	ctx, cancel := context.WithTimeout(tabCtx, c.cfg.DateFetchTimeout)
	defer cancel()

	var bodyText string
	err := chromedp.Run(ctx,
		chromedp.Navigate(href),
		chromedp.Sleep(800*time.Millisecond),
		chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &bodyText),
	)
	if err != nil {
		return "", ""
	}

	start, end := ExtractDateRange(bodyText)
	if start == "" {
		var html string
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(`document.documentElement.outerHTML`, &html)); err == nil {
			start, end = ExtractDateRange(html)
		}
	}
	return start, end
}

func lastPathSegment(u string) string {
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		u = u[i+1:]
	}
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	return u
}

// isClosedError reports whether the failure means the browser process or
// target went away, in which case a relaunch can still save the brand.
func isClosedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "has been closed") ||
		strings.Contains(msg, "target closed") ||
		strings.Contains(msg, "browser closed") ||
		strings.Contains(msg, "websocket") ||
		strings.Contains(msg, "context canceled")
}

// findChromeBinary locates a Chrome/Chromium binary, preferring the
// configured path.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
