package main

import (
	"context"
	"os"

	"marketing-intel/config"
	"marketing-intel/forum"
	"marketing-intel/report"
	"marketing-intel/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.LoadForum()

	logger.Info("=== Forum Signal Collector starting ===")
	logger.Info("Config — gallery: %s | window: %d days | max pages: %d | brands: %d",
		cfg.GalleryID, cfg.TargetDays, cfg.MaxPages, len(cfg.Brands))

	scraper := forum.NewScraper(cfg, logger)
	posts := scraper.Scrape(context.Background())

	if len(posts) == 0 {
		// a published empty page beats a broken link on the portal
		logger.Warn("No posts collected — writing an empty report")
	}

	mentions := forum.BrandMentions(posts, cfg.Brands)
	keywords := forum.TopKeywords(posts, 15)

	mentionTotal := 0
	for _, list := range mentions {
		mentionTotal += len(list)
	}
	logger.Info("Analyzed %d posts: %d brand mentions, %d hot keywords",
		len(posts), mentionTotal, len(keywords))

	data := report.BuildForumData(mentions, keywords, cfg.Brands, utils.NowKST())
	if err := report.RenderForum(cfg.OutputHTML, data); err != nil {
		logger.Error("HTML render failed: %v", err)
		os.Exit(1)
	}

	logger.Info("Report saved to %s", cfg.OutputHTML)
}
