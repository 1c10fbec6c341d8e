package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"marketing-intel/config"
	"marketing-intel/models"
	"marketing-intel/pricing"
	"marketing-intel/report"
	"marketing-intel/services"
	"marketing-intel/storage"
	"marketing-intel/utils"
)

const defaultInputName = "공식몰가격.csv"

var inputPatterns = []string{
	"공식몰가격*.csv",
	"*공식몰가격*.csv",
	"공식몰가격*.CSV",
	"*공식몰가격*.CSV",
}

func main() {
	input := flag.String("input", "", "input CSV path (auto-discovered when empty)")
	outputCSV := flag.String("output_csv", "", "result CSV path (default: result_MMDD.csv)")
	outputHTML := flag.String("output_html", "marketing_portal_final.html", "result HTML path")
	delayMs := flag.Int("delay_ms", 150, "delay between API calls in milliseconds")
	minPrice := flag.Int("min_price", -1, "lowest acceptable price, -1 disables")
	maxPrice := flag.Int("max_price", -1, "highest acceptable price, -1 disables")
	excludeMalls := flag.String("exclude_malls", "", "comma-separated mall name keywords to drop")
	historyDir := flag.String("history_dir", ".", "directory holding past result_*.csv files")
	cacheDir := flag.String("cache_dir", ".naver_cache", "search API cache directory")
	cacheTTL := flag.Int("cache_ttl_hours", 12, "cache TTL in hours")
	limit := flag.Int("limit", 100, "max products to process, 0 for all")
	officialImages := flag.String("official_images", "official_hashes.csv", "official image hash CSV")
	display := flag.Int("display", 10, "listings requested per search")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.LoadPricing()

	logger.Info("=== Price Reconciliation starting ===")

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		logger.Error("NAVER_CLIENT_ID / NAVER_CLIENT_SECRET must be set")
		os.Exit(1)
	}

	inputPath, err := pricing.PickInputFile(*input, defaultInputName, inputPatterns)
	if err != nil {
		logger.Error("Input discovery failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Input file: %s", inputPath)

	products, err := pricing.LoadProducts(inputPath, *limit)
	if err != nil {
		logger.Error("Product list load failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d products (limit=%d)", len(products), *limit)

	officialMap := pricing.LoadOfficialImageMap(*officialImages, logger)
	logger.Info("Official image map: %d codes", len(officialMap))

	now := utils.NowKST()
	todayToken := now.Format("0102")

	prevPrices := map[string]int{}
	prevPath, hasPrev := pricing.FindPreviousSnapshot(*historyDir, todayToken)
	if hasPrev {
		prevPrices, err = pricing.LoadPreviousPrices(prevPath)
		if err != nil {
			logger.Warn("Previous snapshot unreadable (%s): %v", prevPath, err)
			prevPath = ""
		} else {
			logger.Info("Previous snapshot: %s (%d prices)", prevPath, len(prevPrices))
		}
	} else {
		logger.Info("No previous snapshot in %s — delta column will be empty", *historyDir)
	}

	client := pricing.NewClient(cfg.APIBaseURL, cfg.ClientID, cfg.ClientSecret, logger)
	reconciler := &pricing.Reconciler{
		Client:       client,
		Cache:        &pricing.DiskCache{Dir: *cacheDir, TTL: time.Duration(*cacheTTL) * time.Hour},
		Logger:       logger,
		Delay:        time.Duration(*delayMs) * time.Millisecond,
		Display:      *display,
		MinPrice:     optionalInt(*minPrice),
		MaxPrice:     optionalInt(*maxPrice),
		ExcludeMalls: splitList(*excludeMalls),
	}

	rows, stats := reconciler.Reconcile(context.Background(), products, officialMap, prevPrices)
	logger.Info("Reconciled %d rows — no data: %d | no image: %d | cache hits: %d | api calls: %d",
		stats.Kept, stats.SkippedNoData, stats.SkippedNoImg, stats.CacheHits, stats.APICalls)

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(rows))

	csvPath := *outputCSV
	if csvPath == "" {
		csvPath = "result_" + todayToken + ".csv"
	}
	if err := storage.WritePriceCSV(csvPath, rows); err != nil {
		logger.Error("CSV write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("CSV saved to %s", csvPath)

	data, err := report.BuildPriceData(rows, prevPath, now)
	if err != nil {
		logger.Error("Report build failed: %v", err)
		os.Exit(1)
	}
	if err := report.RenderPrice(*outputHTML, data); err != nil {
		logger.Error("HTML render failed: %v", err)
		os.Exit(1)
	}
	logger.Info("HTML saved to %s", *outputHTML)

	if cfg.PostgresDSN != "" {
		storeRows(cfg.PostgresDSN, rows, logger)
	}

	logger.Info("Done. CSV → %s | HTML → %s", csvPath, *outputHTML)
}

// storeRows mirrors the run into PostgreSQL when a DSN is configured. The
// CSV is the artifact of record, so a dead database only warns.
func storeRows(dsn string, rows []models.PriceRow, logger *utils.Logger) {
	pg, err := storage.NewPostgresWriter(dsn)
	if err != nil {
		logger.Warn("PostgreSQL unavailable, skipping snapshot store: %v", err)
		return
	}
	defer pg.Close()

	var sink storage.PriceRowWriter = pg
	if err := sink.Write(rows); err != nil {
		logger.Warn("PostgreSQL write failed: %v", err)
		return
	}
	logger.Info("Stored %d rows in PostgreSQL (table: price_rows)", len(rows))
}

func optionalInt(v int) *int {
	if v < 0 {
		return nil
	}
	return &v
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
