package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// ForumConfig configures the forum signal collector.
type ForumConfig struct {
	BaseURL        string
	GalleryID      string
	MaxPages       int
	TargetDays     int
	Brands         []string
	OutputHTML     string
	UserAgent      string
	RequestTimeout time.Duration
	RequestsPerSec float64
}

// BannerConfig configures the hero banner collector.
type BannerConfig struct {
	OutDir             string
	AssetDirName       string
	SnapshotDir        string
	Headless           bool
	NavTimeout         time.Duration
	WaitAfterGoto      time.Duration
	FetchCampaignDates bool
	DateFetchTimeout   time.Duration
	MaxImageWidth      int
	JPEGQuality        int
	UserAgent          string
	AbsoluteAssetURLs  bool
	ChromeBin          string
}

// PricingConfig configures the price reconciliation tool. Only credentials
// and the optional snapshot store come from the environment; everything
// else is a command-line flag.
type PricingConfig struct {
	ClientID     string
	ClientSecret string
	APIBaseURL   string
	PostgresDSN  string
}

func loadDotenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
}

// LoadForum reads the .env file and returns the forum collector config.
func LoadForum() *ForumConfig {
	loadDotenv()

	return &ForumConfig{
		BaseURL:        getEnv("FORUM_BASE_URL", "https://gall.dcinside.com"),
		GalleryID:      getEnv("FORUM_GALLERY_ID", "outdoor"),
		MaxPages:       getEnvInt("FORUM_MAX_PAGES", 50),
		TargetDays:     getEnvInt("TARGET_DAYS", 7),
		Brands:         getEnvList("BRANDS", defaultBrandKeywords),
		OutputHTML:     getEnv("FORUM_OUTPUT_HTML", "./output/external_signal.html"),
		UserAgent:      getEnv("USER_AGENT", defaultUserAgent),
		RequestTimeout: getEnvDurationMs("REQUEST_TIMEOUT_MS", 15000),
		RequestsPerSec: getEnvFloat("REQUESTS_PER_SEC", 2.0),
	}
}

// defaultBrandKeywords are the outdoor-apparel brand names tracked when
// BRANDS is not set.
var defaultBrandKeywords = []string{
	"노스페이스", "코오롱스포츠", "K2", "아이더", "블랙야크",
	"네파", "컬럼비아", "디스커버리", "파타고니아", "밀레",
	"마무트", "아크테릭스", "스노우피크",
}

// LoadBanner reads the .env file and returns the banner collector config.
// Asset path mode defaults from CI detection (relative on CI runners,
// absolute file URLs locally) but HTML_USE_ABSOLUTE_FILE_URL always wins.
func LoadBanner() *BannerConfig {
	loadDotenv()

	absolute := !runningInCI()
	if v := os.Getenv("HTML_USE_ABSOLUTE_FILE_URL"); v != "" {
		absolute = parseBool(v, absolute)
	}

	return &BannerConfig{
		OutDir:             getEnv("OUT_DIR", "./output"),
		AssetDirName:       getEnv("ASSET_DIR_NAME", "hero_assets"),
		SnapshotDir:        getEnv("SNAPSHOT_DIR", "./output/history"),
		Headless:           getEnvBool("HEADLESS", true),
		NavTimeout:         getEnvDurationMs("NAV_TIMEOUT_MS", 45000),
		WaitAfterGoto:      getEnvDurationMs("WAIT_AFTER_GOTO_MS", 3500),
		FetchCampaignDates: getEnvBool("FETCH_CAMPAIGN_DATES", true),
		DateFetchTimeout:   getEnvDurationMs("DATE_FETCH_TIMEOUT_MS", 10000),
		MaxImageWidth:      getEnvInt("MAX_IMG_WIDTH", 1100),
		JPEGQuality:        getEnvInt("JPG_QUALITY", 85),
		UserAgent:          getEnv("USER_AGENT", defaultUserAgent),
		AbsoluteAssetURLs:  absolute,
		ChromeBin:          getEnv("CHROME_BIN", ""),
	}
}

// LoadPricing reads the .env file and returns the pricing credentials.
func LoadPricing() *PricingConfig {
	loadDotenv()

	return &PricingConfig{
		ClientID:     getEnv("NAVER_CLIENT_ID", ""),
		ClientSecret: getEnv("NAVER_CLIENT_SECRET", ""),
		APIBaseURL:   getEnv("NAVER_API_BASE_URL", "https://openapi.naver.com"),
		PostgresDSN:  getEnv("POSTGRES_DSN", ""),
	}
}

func runningInCI() bool {
	return parseBool(os.Getenv("GITHUB_ACTIONS"), false) || parseBool(os.Getenv("CI"), false)
}

func parseBool(val string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		return parseBool(val, fallback)
	}
	return fallback
}

func getEnvDurationMs(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMs)) * time.Millisecond
}
