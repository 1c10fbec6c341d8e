package services

import (
	"fmt"
	"sort"
	"strings"

	"marketing-intel/models"
	"marketing-intel/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(rows []models.PriceRow) *models.PriceInsightReport {
	report := &models.PriceInsightReport{
		RowsByMall: make(map[string]int),
	}

	if len(rows) == 0 {
		return report
	}

	report.TotalRows = len(rows)

	var diffRows []models.PriceRow

	for _, r := range rows {
		if r.Diff != nil {
			diffRows = append(diffRows, r)
			if *r.Diff > 0 {
				report.DiffPositive++
			}
		}
		if r.PrevPrice != nil {
			report.WithHistory++
		}
		if r.MallName != "" {
			report.RowsByMall[r.MallName]++
		}
		if r.Confidence >= 0 && r.Confidence <= 5 {
			report.ByConfidence[r.Confidence]++
		}
	}

	// Gap stats cover only rows with a known official price
	if len(diffRows) > 0 {
		report.MinDiff = *diffRows[0].Diff
		report.MaxDiff = *diffRows[0].Diff
		first := diffRows[0]
		report.BiggestGap = &first
		var total int
		for _, r := range diffRows {
			d := *r.Diff
			total += d
			if d < report.MinDiff {
				report.MinDiff = d
			}
			if d > report.MaxDiff {
				report.MaxDiff = d
				row := r
				report.BiggestGap = &row
			}
		}
		report.AverageDiff = round2(float64(total) / float64(len(diffRows)))
	}

	// Top 5 by absolute gap
	sort.SliceStable(diffRows, func(i, j int) bool {
		return absInt(*diffRows[i].Diff) > absInt(*diffRows[j].Diff)
	})
	if len(diffRows) > 5 {
		report.TopGaps = diffRows[:5]
	} else {
		report.TopGaps = diffRows
	}

	return report
}

func (s *InsightService) Print(r *models.PriceInsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 PRICE RECONCILIATION INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Rows reconciled        : \033[1m%d\033[0m\n", r.TotalRows)
	fmt.Printf("  Official more expensive: \033[1m%d\033[0m\n", r.DiffPositive)
	fmt.Printf("  With snapshot history  : \033[1m%d\033[0m\n", r.WithHistory)
	fmt.Println()

	// Gap stats
	fmt.Printf("\033[1;33m  Price Gap Statistics (official - lowest)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AverageDiff != 0 || r.MinDiff != 0 || r.MaxDiff != 0 {
		fmt.Printf("  Average gap : \033[1;32m%.0f원\033[0m\n", r.AverageDiff)
		fmt.Printf("  Minimum gap : \033[1;32m%d원\033[0m\n", r.MinDiff)
		fmt.Printf("  Maximum gap : \033[1;32m%d원\033[0m\n", r.MaxDiff)
	} else {
		fmt.Printf("  No official prices in input\n")
	}
	fmt.Println()

	// Biggest gap
	if r.BiggestGap != nil {
		fmt.Printf("\033[1;33m  Widest Gap Product\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s %s\n", r.BiggestGap.Code, truncate(displayName(*r.BiggestGap), 42))
		fmt.Printf("  Lowest mall : %s\n", r.BiggestGap.MallName)
		fmt.Printf("  Gap         : \033[1;31m%d원\033[0m\n", *r.BiggestGap.Diff)
		fmt.Println()
	}

	// Top 5 by absolute gap
	fmt.Printf("\033[1;33m  Top 5 Largest Gaps\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopGaps) == 0 {
		fmt.Printf("  No comparable rows\n")
	} else {
		for i, row := range r.TopGaps {
			name := truncate(displayName(row), 32)
			fmt.Printf("  \033[1m%d.\033[0m %-10s %-34s \033[1;32m%+d원\033[0m\n",
				i+1, row.Code, name, *row.Diff)
		}
	}
	fmt.Println()

	// Mall distribution
	fmt.Printf("\033[1;33m  Lowest-price Malls\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.RowsByMall) == 0 {
		fmt.Printf("  No mall data\n")
	} else {
		type mallCount struct {
			mall  string
			count int
		}
		var malls []mallCount
		for mall, cnt := range r.RowsByMall {
			malls = append(malls, mallCount{mall, cnt})
		}
		sort.Slice(malls, func(i, j int) bool {
			if malls[i].count != malls[j].count {
				return malls[i].count > malls[j].count
			}
			return malls[i].mall < malls[j].mall
		})
		for _, mc := range malls {
			bar := strings.Repeat("█", mc.count)
			fmt.Printf("  %-24s %s (%d)\n", truncate(mc.mall, 22), bar, mc.count)
		}
	}
	fmt.Println()

	// Confidence histogram
	fmt.Printf("\033[1;33m  Match Confidence\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for conf := 5; conf >= 0; conf-- {
		cnt := r.ByConfidence[conf]
		bar := strings.Repeat("█", cnt)
		fmt.Printf("  %d/5 %s (%d)\n", conf, bar, cnt)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func displayName(r models.PriceRow) string {
	if r.NameKO != "" {
		return r.NameKO
	}
	return r.NameEN
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
