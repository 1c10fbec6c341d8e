package main

import (
	"context"
	"os"
	"path/filepath"

	"marketing-intel/banner"
	"marketing-intel/config"
	"marketing-intel/report"
	"marketing-intel/storage"
	"marketing-intel/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.LoadBanner()

	logger.Info("=== Hero Banner Collector starting ===")
	logger.Info("Config — brands: %d | headless: %v | max width: %dpx | date fetch: %v",
		len(banner.Brands), cfg.Headless, cfg.MaxImageWidth, cfg.FetchCampaignDates)

	now := utils.NowKST()
	dateStr := now.Format("2006-01-02")
	stamp := now.Format("20060102_150405")

	snapshotCSV := filepath.Join(cfg.SnapshotDir, "hero_main_banners_"+dateStr+".csv")
	reportCSV := filepath.Join(cfg.OutDir, "hero_main_banners_"+stamp+".csv")
	reportHTML := filepath.Join(cfg.OutDir, "hero_main.html")

	collector := banner.NewCollector(cfg, logger)
	rows := collector.Run(context.Background())

	if err := storage.WriteBannerCSV(snapshotCSV, rows); err != nil {
		logger.Error("Snapshot CSV write failed: %v", err)
	} else {
		logger.Info("Snapshot saved to %s", snapshotCSV)
	}
	if err := storage.WriteBannerCSV(reportCSV, rows); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Banner CSV saved to %s", reportCSV)
	}

	data := report.BuildHeroData(rows, banner.Refs(), collector.AssetDir(),
		cfg.AssetDirName, cfg.AbsoluteAssetURLs, cfg.FetchCampaignDates, now)
	if err := report.RenderHero(reportHTML, data); err != nil {
		logger.Error("HTML render failed: %v", err)
		os.Exit(1)
	}

	logger.Info("Report saved to %s", reportHTML)
	if abs, err := filepath.Abs(collector.AssetDir()); err == nil {
		logger.Info("Assets stored under %s", abs)
	}
}
