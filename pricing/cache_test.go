package pricing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"marketing-intel/models"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache := &DiskCache{Dir: t.TempDir(), TTL: 12 * time.Hour}

	items := []models.SearchItem{{Title: "t", LowPrice: "1000", MallName: "m"}}
	if err := cache.Put("ABC123", items); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := cache.Get("ABC123")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].LowPrice != "1000" {
		t.Errorf("got %+v", got)
	}
}

func TestDiskCacheMissOnUnknownCode(t *testing.T) {
	cache := &DiskCache{Dir: t.TempDir(), TTL: time.Hour}
	if _, ok := cache.Get("NOPE"); ok {
		t.Fatal("expected miss")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	cache := &DiskCache{Dir: t.TempDir(), TTL: 12 * time.Hour}
	if err := cache.Put("ABC123", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// age the entry to 13h, one hour past the TTL
	old := time.Now().Add(-13 * time.Hour)
	path := filepath.Join(cache.Dir, "ABC123.json")
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	if _, ok := cache.Get("ABC123"); ok {
		t.Fatal("stale entry must be a miss")
	}

	// a fresh Put replaces the stale entry and serves again
	if err := cache.Put("ABC123", []models.SearchItem{{LowPrice: "5"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := cache.Get("ABC123")
	if !ok || len(got) != 1 {
		t.Fatalf("refreshed entry should hit, ok=%v items=%d", ok, len(got))
	}
}

func TestCacheKeySanitized(t *testing.T) {
	cache := &DiskCache{Dir: t.TempDir(), TTL: time.Hour}
	if err := cache.Put("A/B..C 1", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	entries, err := os.ReadDir(cache.Dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("ReadDir: %v (%d entries)", err, len(entries))
	}
	if name := entries[0].Name(); name != "A_B_C_1.json" {
		t.Errorf("sanitized name = %s", name)
	}
}
