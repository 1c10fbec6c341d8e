package pricing

import (
	"context"
	"testing"
	"time"

	"marketing-intel/models"
	"marketing-intel/utils"
)

type stubClient struct {
	responses map[string][]models.SearchItem
	calls     []string
}

func (s *stubClient) Search(_ context.Context, query string, _ int) ([]models.SearchItem, error) {
	s.calls = append(s.calls, query)
	return s.responses[query], nil
}

func intp(v int) *int { return &v }

func newTestReconciler(t *testing.T, stub *stubClient) *Reconciler {
	t.Helper()
	return &Reconciler{
		Client: stub,
		Cache:  &DiskCache{Dir: t.TempDir(), TTL: time.Hour},
		Logger: utils.NewLogger(),
	}
}

func TestReconcileBuildsRow(t *testing.T) {
	stub := &stubClient{responses: map[string][]models.SearchItem{
		"ABC123": {
			{Title: "컬럼비아 ABC123 자켓", Link: "link1", Image: "market.jpg", LowPrice: "45000", MallName: "네이버"},
			{Title: "ABC123 자켓", Link: "link2", Image: "x.jpg", LowPrice: "47000", MallName: "몰2"},
		},
	}}
	r := newTestReconciler(t, stub)

	products := []models.Product{{Code: "ABC123", NameEN: "Jacket", OfficialPrice: intp(50000)}}
	official := map[string]string{"ABC123": "official.jpg"}
	prev := map[string]int{"ABC123": 46000}

	rows, stats := r.Reconcile(context.Background(), products, official, prev)

	if stats.Kept != 1 || len(rows) != 1 {
		t.Fatalf("stats = %+v rows = %d", stats, len(rows))
	}
	row := rows[0]
	if row.LowestPrice != 45000 {
		t.Errorf("lowest = %d", row.LowestPrice)
	}
	if row.Diff == nil || *row.Diff != 5000 {
		t.Errorf("diff = %v, want 5000", row.Diff)
	}
	if row.FinalImage != "official.jpg" {
		t.Errorf("official image must win, got %s", row.FinalImage)
	}
	if row.MarketImage != "market.jpg" {
		t.Errorf("market image = %s", row.MarketImage)
	}
	if row.Delta == nil || *row.Delta != -1000 {
		t.Errorf("delta = %v, want -1000", row.Delta)
	}
	if row.Confidence != 4 {
		t.Errorf("confidence = %d, want 4", row.Confidence)
	}
	if len(row.Top3) != 2 {
		t.Errorf("top3 = %d entries", len(row.Top3))
	}
}

func TestReconcileExcludesRows(t *testing.T) {
	stub := &stubClient{responses: map[string][]models.SearchItem{
		// priced but no image anywhere
		"NOIMG1": {{Title: "t", LowPrice: "1000", MallName: "m"}},
		// nothing priced
		"NOPRICE": {{Title: "t", Image: "i.jpg", LowPrice: "", MallName: "m"}},
	}}
	r := newTestReconciler(t, stub)

	products := []models.Product{{Code: "NOIMG1"}, {Code: "NOPRICE"}, {Code: "EMPTY1"}}
	rows, stats := r.Reconcile(context.Background(), products, map[string]string{}, nil)

	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
	if stats.SkippedNoImg != 1 {
		t.Errorf("SkippedNoImg = %d, want 1", stats.SkippedNoImg)
	}
	if stats.SkippedNoData != 2 {
		t.Errorf("SkippedNoData = %d, want 2", stats.SkippedNoData)
	}
}

func TestReconcileNilDeltaWithoutHistory(t *testing.T) {
	stub := &stubClient{responses: map[string][]models.SearchItem{
		"ABC123": {{Title: "t", Image: "i.jpg", LowPrice: "1000", MallName: "m"}},
	}}
	r := newTestReconciler(t, stub)

	rows, _ := r.Reconcile(context.Background(),
		[]models.Product{{Code: "ABC123"}}, map[string]string{}, nil)

	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].PrevPrice != nil || rows[0].Delta != nil {
		t.Error("prev/delta must be nil when no history exists")
	}
	if rows[0].Diff != nil {
		t.Error("diff must be nil without an official price")
	}
}

func TestReconcileUsesCache(t *testing.T) {
	stub := &stubClient{responses: map[string][]models.SearchItem{
		"ABC123": {{Title: "t", Image: "i.jpg", LowPrice: "1000", MallName: "m"}},
	}}
	r := newTestReconciler(t, stub)
	products := []models.Product{{Code: "ABC123"}}

	r.Reconcile(context.Background(), products, map[string]string{}, nil)
	_, stats := r.Reconcile(context.Background(), products, map[string]string{}, nil)

	if len(stub.calls) != 1 {
		t.Fatalf("API calls = %d, want 1 (second run cached)", len(stub.calls))
	}
	if stats.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", stats.CacheHits)
	}
}
