package pricing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var snapshotNameRe = regexp.MustCompile(`^result_(\d{4})\.csv$`)

// FindPreviousSnapshot returns the most recently modified result_<MMDD>.csv
// in dir whose date token differs from todayToken. Modification time, not
// the token, decides recency, so a re-run of an old date never shadows the
// latest data.
func FindPreviousSnapshot(dir, todayToken string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	bestPath := ""
	var bestMod int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := snapshotNameRe.FindStringSubmatch(entry.Name())
		if m == nil || m[1] == todayToken {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); bestPath == "" || mod > bestMod {
			bestPath = filepath.Join(dir, entry.Name())
			bestMod = mod
		}
	}
	return bestPath, bestPath != ""
}

// LoadPreviousPrices reads a prior snapshot CSV and maps product code to
// its stored lowest price. Rows whose price does not parse as an integer
// are omitted, so downstream deltas stay nil rather than zero.
func LoadPreviousPrices(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(records) < 2 {
		return map[string]int{}, nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	codeIdx, priceIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "코드":
			codeIdx = i
		case "네이버최저가":
			priceIdx = i
		}
	}
	if codeIdx < 0 || priceIdx < 0 {
		return nil, fmt.Errorf("snapshot %s: missing code or price column", path)
	}

	prices := make(map[string]int)
	for _, rec := range records[1:] {
		if codeIdx >= len(rec) || priceIdx >= len(rec) {
			continue
		}
		code := strings.TrimSpace(rec[codeIdx])
		if code == "" {
			continue
		}
		raw := strings.TrimSpace(rec[priceIdx])
		v, err := strconv.Atoi(raw)
		if err != nil {
			if f64, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
				v = int(f64)
			} else {
				continue
			}
		}
		prices[code] = v
	}
	return prices, nil
}
