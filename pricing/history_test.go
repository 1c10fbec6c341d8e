package pricing

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFileAt(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestFindPreviousSnapshotPicksNewestMtime(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	// token 0301 is older by name but newer by mtime; mtime must win
	writeFileAt(t, filepath.Join(dir, "result_0301.csv"), "x", now.Add(-1*time.Hour))
	writeFileAt(t, filepath.Join(dir, "result_0830.csv"), "x", now.Add(-48*time.Hour))
	writeFileAt(t, filepath.Join(dir, "result_0901.csv"), "x", now)
	writeFileAt(t, filepath.Join(dir, "notes.csv"), "x", now)

	path, ok := FindPreviousSnapshot(dir, "0901")
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if filepath.Base(path) != "result_0301.csv" {
		t.Errorf("picked %s, want result_0301.csv", filepath.Base(path))
	}
}

func TestFindPreviousSnapshotNone(t *testing.T) {
	dir := t.TempDir()
	writeFileAt(t, filepath.Join(dir, "result_0901.csv"), "x", time.Now())

	if _, ok := FindPreviousSnapshot(dir, "0901"); ok {
		t.Fatal("today's snapshot must not be picked")
	}
	if _, ok := FindPreviousSnapshot(filepath.Join(dir, "missing"), "0901"); ok {
		t.Fatal("missing dir should yield nothing")
	}
}

func TestLoadPreviousPrices(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result_0830.csv")
	csv := "\ufeff코드,상품명(영문),네이버최저가\n" +
		"ABC123,Jacket,45000\n" +
		"DEF456,Pants,\n" +
		"GHI789,Coat,72000.0\n" +
		",Empty,100\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	prices, err := LoadPreviousPrices(path)
	if err != nil {
		t.Fatalf("LoadPreviousPrices: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(prices), prices)
	}
	if prices["ABC123"] != 45000 || prices["GHI789"] != 72000 {
		t.Errorf("prices = %v", prices)
	}
	if _, ok := prices["DEF456"]; ok {
		t.Error("unparseable price must be omitted, not zeroed")
	}
}
