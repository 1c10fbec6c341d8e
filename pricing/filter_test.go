package pricing

import (
	"reflect"
	"testing"

	"marketing-intel/models"
)

func item(title, mall, price string) models.SearchItem {
	return models.SearchItem{Title: title, MallName: mall, LowPrice: price, Link: "l", Image: "i"}
}

func TestFilterItems(t *testing.T) {
	items := []models.SearchItem{
		item("<b>ABC123</b> 자켓", "어딘가몰", "50000"),
		item("ABC123 호환 케이스", "어딘가몰", "9000"),
		item("ABC123 자켓", "나쁜몰", "48000"),
		item("ABC123 자켓", "좋은몰", "52000"),
		item("ABC123 자켓", "좋은몰", "999999"),
	}
	maxPrice := 100000

	got := FilterItems(items, nil, &maxPrice, []string{"나쁜몰"})

	if len(got) != 2 {
		t.Fatalf("kept %d items, want 2", len(got))
	}
	if got[0].LowPrice != "50000" || got[1].LowPrice != "52000" {
		t.Errorf("wrong items kept: %+v", got)
	}
}

func TestFilterItemsIdempotent(t *testing.T) {
	items := []models.SearchItem{
		item("ABC 자켓", "몰", "10000"),
		item("ABC 필름", "몰", "2000"),
		item("ABC 자켓", "몰", "30000"),
	}
	min := 5000

	once := FilterItems(items, &min, nil, nil)
	twice := FilterItems(once, &min, nil, nil)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent: %+v vs %+v", once, twice)
	}
}

func TestPickLowestItemStable(t *testing.T) {
	items := []models.SearchItem{
		item("a", "first", "5000"),
		item("b", "second", "5000"),
		item("c", "third", "7000"),
		item("d", "broken", "n/a"),
	}

	best, ok := PickLowestItem(items)
	if !ok {
		t.Fatal("expected a best item")
	}
	if best.MallName != "first" {
		t.Errorf("tie should keep first occurrence, got %s", best.MallName)
	}

	if _, ok := PickLowestItem([]models.SearchItem{item("x", "m", "")}); ok {
		t.Error("unparseable-only input should yield no best item")
	}
}

func TestPickTopNByPricePrefix(t *testing.T) {
	items := []models.SearchItem{
		item("a", "m1", "9000"),
		item("b", "m2", "3000"),
		item("c", "m3", "5000"),
		item("d", "m4", "4000"),
	}

	top3 := PickTopNByPrice(items, 3)
	full := PickTopNByPrice(items, len(items))

	if len(top3) != 3 {
		t.Fatalf("len(top3) = %d", len(top3))
	}
	if !reflect.DeepEqual(top3, full[:3]) {
		t.Errorf("top-3 is not a prefix of the full ascending sort")
	}
	if top3[0].LowPrice != "3000" {
		t.Errorf("cheapest first, got %s", top3[0].LowPrice)
	}
}

func TestComputeConfidence(t *testing.T) {
	tests := []struct {
		name string
		code string
		best *models.SearchItem
		want int
	}{
		{"no best item", "ABC123", nil, 0},
		{"nothing matches", "ABC123", &models.SearchItem{Title: "자켓", MallName: "몰"}, 0},
		{"code in title", "ABC123", &models.SearchItem{Title: "abc123 자켓", MallName: "몰"}, 2},
		{"brand token", "ABC123", &models.SearchItem{Title: "컬럼비아 자켓", MallName: "몰"}, 1},
		{"trusted mall", "ABC123", &models.SearchItem{Title: "자켓", MallName: "현대백화점"}, 1},
		{
			"everything", "ABC123",
			&models.SearchItem{Title: "컬럼비아 ABC123 자켓", MallName: "네이버 공식"}, 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeConfidence(tt.code, tt.best)
			if got != tt.want {
				t.Errorf("ComputeConfidence() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 4 {
				t.Errorf("confidence %d out of [0,4]", got)
			}
		})
	}
}

func TestChooseMarketImage(t *testing.T) {
	best := models.SearchItem{Image: "best.jpg"}
	top := []models.SearchItem{{Image: ""}, {Image: "top.jpg"}}

	if got := ChooseMarketImage(&best, top); got != "best.jpg" {
		t.Errorf("best image should win, got %s", got)
	}
	noImg := models.SearchItem{}
	if got := ChooseMarketImage(&noImg, top); got != "top.jpg" {
		t.Errorf("fallback to top-3 image, got %s", got)
	}
	if got := ChooseMarketImage(nil, nil); got != "" {
		t.Errorf("want empty, got %s", got)
	}
}
