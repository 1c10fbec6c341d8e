package pricing

import (
	"context"
	"strings"
	"time"

	"marketing-intel/models"
	"marketing-intel/utils"
)

// SearchClient is the listing lookup the reconciler depends on.
type SearchClient interface {
	Search(ctx context.Context, query string, display int) ([]models.SearchItem, error)
}

// Reconciler walks the product list, resolves the lowest marketplace price
// per style code, and emits fully populated rows. Products without a price
// or a final image are excluded, counted, and logged; they are expected,
// not errors.
type Reconciler struct {
	Client       SearchClient
	Cache        *DiskCache
	Logger       *utils.Logger
	Delay        time.Duration
	Display      int
	MinPrice     *int
	MaxPrice     *int
	ExcludeMalls []string
}

// Stats summarizes one reconciliation run.
type Stats struct {
	Kept          int
	SkippedNoData int
	SkippedNoImg  int
	CacheHits     int
	APICalls      int
}

// Reconcile processes products strictly in order with a fixed delay
// between API calls. officialImages maps upper-cased codes to official
// image URLs; prevPrices maps codes to the prior snapshot's lowest price.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	products []models.Product,
	officialImages map[string]string,
	prevPrices map[string]int,
) ([]models.PriceRow, Stats) {
	display := r.Display
	if display <= 0 {
		display = 10
	}

	var rows []models.PriceRow
	var stats Stats

	for i, product := range products {
		items, fromCache := r.Cache.Get(product.Code)
		if fromCache {
			stats.CacheHits++
		} else {
			var err error
			items, err = r.Client.Search(ctx, product.Code, display)
			stats.APICalls++
			if err != nil {
				r.Logger.Warn("[pricewatch] %s search failed: %v", product.Code, err)
				items = nil
			}
			if err := r.Cache.Put(product.Code, items); err != nil {
				r.Logger.Warn("[pricewatch] %s cache write failed: %v", product.Code, err)
			}
			if r.Delay > 0 && i < len(products)-1 {
				time.Sleep(r.Delay)
			}
		}

		filtered := FilterItems(items, r.MinPrice, r.MaxPrice, r.ExcludeMalls)
		top := PickTopNByPrice(filtered, 3)

		var best *models.SearchItem
		if b, ok := PickLowestItem(filtered); ok {
			best = &b
		}

		officialImage := officialImages[strings.ToUpper(product.Code)]
		marketImage := ChooseMarketImage(best, top)
		finalImage := officialImage
		if finalImage == "" {
			finalImage = marketImage
		}

		if best == nil {
			stats.SkippedNoData++
			r.Logger.Info("[pricewatch] %3d/%d %s skipped (no priced listing, cache=%v)",
				i+1, len(products), product.Code, fromCache)
			continue
		}
		if finalImage == "" {
			stats.SkippedNoImg++
			r.Logger.Info("[pricewatch] %3d/%d %s skipped (no image, cache=%v)",
				i+1, len(products), product.Code, fromCache)
			continue
		}

		lowest, _ := best.PriceValue()

		var diff *int
		if product.OfficialPrice != nil {
			d := *product.OfficialPrice - lowest
			diff = &d
		}

		var prev, delta *int
		if p, ok := prevPrices[product.Code]; ok {
			pv := p
			dv := lowest - p
			prev, delta = &pv, &dv
		}

		row := models.PriceRow{
			Code:          product.Code,
			NameEN:        product.NameEN,
			NameKO:        product.NameKO,
			OfficialPrice: product.OfficialPrice,
			LowestPrice:   lowest,
			Diff:          diff,
			MallName:      best.MallName,
			Link:          best.Link,
			FinalImage:    finalImage,
			OfficialImage: officialImage,
			MarketImage:   marketImage,
			MatchTitle:    best.CleanTitle(),
			Confidence:    ComputeConfidence(product.Code, best),
			Top3:          topEntries(top),
			PrevPrice:     prev,
			Delta:         delta,
		}
		rows = append(rows, row)
		stats.Kept++

		r.Logger.Info("[pricewatch] %3d/%d %s lowest=%d mall=%s conf=%d cache=%v",
			i+1, len(products), product.Code, lowest, best.MallName, row.Confidence, fromCache)
	}

	return rows, stats
}

func topEntries(top []models.SearchItem) []models.Top3Entry {
	entries := make([]models.Top3Entry, 0, len(top))
	for _, it := range top {
		var price *int
		if v, ok := it.PriceValue(); ok {
			price = &v
		}
		entries = append(entries, models.Top3Entry{
			LowPrice: price,
			MallName: it.MallName,
			Link:     it.Link,
		})
	}
	return entries
}
