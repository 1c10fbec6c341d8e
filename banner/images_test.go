package banner

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marketing-intel/models"
	"marketing-intel/utils"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 128, B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestSafeFilename(t *testing.T) {
	if got := safeFilename("tnf_1_abcdef0123", ".jpg"); got != "tnf_1_abcdef0123.jpg" {
		t.Errorf("got %q", got)
	}
	if got := safeFilename("a b/c?d", "jpg"); got != "a_b_c_d.jpg" {
		t.Errorf("special chars: %q", got)
	}
	if got := safeFilename("", ".jpg"); got != "file.jpg" {
		t.Errorf("empty name: %q", got)
	}
	long := strings.Repeat("x", 200)
	if got := safeFilename(long, ".jpg"); len(got) != 110+4 {
		t.Errorf("length = %d, want 114", len(got))
	}
}

func TestImageStoreSaveResizes(t *testing.T) {
	body := pngBytes(t, 400, 200)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	store := NewImageStore(dir, 100, 85, "test-agent", utils.NewLogger())

	fname, status := store.Save(srv.URL+"/banner.png", "tnf", 1, "")
	if status != models.ImgStatusOK || fname == "" {
		t.Fatalf("status = %s, fname = %q", status, fname)
	}
	if !strings.HasPrefix(fname, "tnf_1_") || !strings.HasSuffix(fname, ".jpg") {
		t.Errorf("fname = %q", fname)
	}

	meta, ok := store.Meta(fname)
	if !ok {
		t.Fatal("meta missing")
	}
	if meta.Width != 100 || meta.Height != 50 {
		t.Errorf("resized to %dx%d, want 100x50", meta.Width, meta.Height)
	}
	if meta.Bytes == 0 {
		t.Error("file size not recorded")
	}
	if _, err := os.Stat(filepath.Join(dir, fname)); err != nil {
		t.Errorf("asset not on disk: %v", err)
	}
}

func TestImageStoreSaveCachesByURL(t *testing.T) {
	hits := 0
	body := pngBytes(t, 50, 50)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(body)
	}))
	defer srv.Close()

	store := NewImageStore(t.TempDir(), 1100, 85, "test-agent", utils.NewLogger())

	first, status1 := store.Save(srv.URL+"/a.png", "tnf", 1, "")
	second, status2 := store.Save(srv.URL+"/a.png", "nepa", 2, "")

	if status1 != models.ImgStatusOK || status2 != models.ImgStatusCached {
		t.Fatalf("statuses = %s, %s", status1, status2)
	}
	if first != second {
		t.Errorf("cached filename differs: %q vs %q", first, second)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}

func TestImageStoreSaveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewImageStore(t.TempDir(), 1100, 85, "test-agent", utils.NewLogger())

	if _, status := store.Save("", "tnf", 1, ""); status != models.ImgStatusNoURL {
		t.Errorf("empty url status = %s", status)
	}
	if _, status := store.Save(srv.URL+"/gone.png", "tnf", 1, ""); status != models.ImgStatusDownFail {
		t.Errorf("404 status = %s", status)
	}
}
