package forum

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"marketing-intel/config"
	"marketing-intel/models"
	"marketing-intel/utils"
)

const postDateLayout = "2006.01.02 15:04:05"

// Scraper walks a discussion-board gallery backwards in time and collects
// every post inside the target window, comments included.
type Scraper struct {
	cfg    *config.ForumConfig
	logger *utils.Logger
	http   *resty.Client
}

func NewScraper(cfg *config.ForumConfig, logger *utils.Logger) *Scraper {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1)
	client := resty.New().
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8").
		SetTimeout(cfg.RequestTimeout).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})

	return &Scraper{cfg: cfg, logger: logger, http: client}
}

// Scrape pages through the board list until it meets a post older than the
// target window or runs out of pages. Fetch failures end the page loop or
// skip the post; they never abort the run.
func (s *Scraper) Scrape(ctx context.Context) []models.ForumPost {
	windowStart := startOfWindow(utils.NowKST(), s.cfg.TargetDays)
	s.logger.Info("[forum] collecting posts since %s (gallery=%s)",
		windowStart.Format("2006-01-02"), s.cfg.GalleryID)

	var posts []models.ForumPost
	stop := false

	for page := 1; page <= s.cfg.MaxPages && !stop; page++ {
		listURL := fmt.Sprintf("%s/board/lists/?id=%s&page=%d",
			s.cfg.BaseURL, url.QueryEscape(s.cfg.GalleryID), page)

		doc, err := s.fetchDocument(ctx, listURL)
		if err != nil {
			s.logger.Warn("[forum] page %d fetch failed: %v — stopping pagination", page, err)
			break
		}

		rows := doc.Find("tr.ub-content")
		if rows.Length() == 0 {
			s.logger.Warn("[forum] page %d has no list rows — stopping pagination", page)
			break
		}

		rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
			num := strings.TrimSpace(row.Find("td.gall_num").First().Text())
			if !isDigits(num) {
				// notice and ad rows carry non-numeric markers
				return true
			}

			link, ok := row.Find("td.gall_tit a").First().Attr("href")
			if !ok || link == "" {
				return true
			}
			title := strings.TrimSpace(row.Find("td.gall_tit a").First().Text())

			post, err := s.fetchPost(ctx, s.absoluteURL(link), title)
			if err != nil {
				s.logger.Warn("[forum] post skipped (%s): %v", link, err)
				return true
			}

			if post.CreatedAt.Before(windowStart) {
				stop = true
				return false
			}
			posts = append(posts, post)
			return true
		})

		s.logger.Info("[forum] page %d done, %d posts so far", page, len(posts))
	}

	s.logger.Info("[forum] collected %d posts", len(posts))
	return posts
}

func (s *Scraper) fetchPost(ctx context.Context, postURL, title string) (models.ForumPost, error) {
	doc, err := s.fetchDocument(ctx, postURL)
	if err != nil {
		return models.ForumPost{}, err
	}

	dateText := strings.TrimSpace(doc.Find(".gall_date").First().Text())
	createdAt, err := time.ParseInLocation(postDateLayout, dateText, utils.KST)
	if err != nil {
		return models.ForumPost{}, fmt.Errorf("parse post date %q: %w", dateText, err)
	}

	content := normalizeText(doc.Find(".write_div").First().Text())

	var comments []string
	doc.Find(".comment_list .usertxt").Each(func(_ int, sel *goquery.Selection) {
		if text := normalizeText(sel.Text()); text != "" {
			comments = append(comments, text)
		}
	})

	return models.ForumPost{
		Title:     title,
		URL:       postURL,
		Content:   content,
		Comments:  strings.Join(comments, "\n"),
		CreatedAt: createdAt,
	}, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := s.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", pageURL, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("get %s: status %d", pageURL, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

func (s *Scraper) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(s.cfg.BaseURL, "/") + href
}

// startOfWindow returns local midnight of (day - days), so the window spans
// the last `days` days including today.
func startOfWindow(now time.Time, days int) time.Time {
	t := now.AddDate(0, 0, -days)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// normalizeText collapses runs of blank lines and trims each line.
func normalizeText(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
