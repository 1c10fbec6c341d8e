package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"marketing-intel/models"
)

var cacheKeyRe = regexp.MustCompile(`[^A-Za-z0-9_\-]+`)

// DiskCache memoizes raw search results per product code so repeated runs
// inside the TTL skip the API entirely. Freshness is judged strictly by
// file age; a stale entry is a miss and gets overwritten after the next
// fetch.
type DiskCache struct {
	Dir string
	TTL time.Duration
}

type cacheEntry struct {
	Items   []models.SearchItem `json:"items"`
	SavedAt string              `json:"saved_at"`
}

func cacheKey(code string) string {
	return cacheKeyRe.ReplaceAllString(code, "_")
}

func (c *DiskCache) path(code string) string {
	return filepath.Join(c.Dir, cacheKey(code)+".json")
}

// Get returns the cached items for code, or ok=false on miss, expiry or a
// corrupt entry.
func (c *DiskCache) Get(code string) ([]models.SearchItem, bool) {
	path := c.path(code)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.TTL {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return entry.Items, true
}

// Put stores items for code, overwriting any previous entry.
func (c *DiskCache) Put(code string, items []models.SearchItem) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	entry := cacheEntry{
		Items:   items,
		SavedAt: time.Now().Format(time.RFC3339),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.WriteFile(c.path(code), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}
