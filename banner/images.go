package banner

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/go-resty/resty/v2"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"marketing-intel/models"
	"marketing-intel/utils"
)

var safeNameRe = regexp.MustCompile(`[^0-9a-zA-Z가-힣._\-]+`)

func safeFilename(name, ext string) string {
	name = strings.Trim(safeNameRe.ReplaceAllString(name, "_"), "_")
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if runes := []rune(name); len(runes) > 110 {
		name = string(runes[:110])
	}
	if name == "" {
		name = "file"
	}
	return name + ext
}

func shortHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:10]
}

// ImageMeta holds the stored dimensions and file size of a saved asset.
type ImageMeta struct {
	Width  int
	Height int
	Bytes  int64
}

// ImageStore downloads, downscales, and re-encodes banner images for one
// run. The URL cache guarantees each source image is fetched at most once
// per run, so repeated banners across brands share one asset.
type ImageStore struct {
	dir      string
	maxWidth int
	quality  int
	logger   *utils.Logger
	http     *resty.Client

	byURL map[string]string
	meta  map[string]ImageMeta
}

func NewImageStore(dir string, maxWidth, quality int, userAgent string, logger *utils.Logger) *ImageStore {
	return &ImageStore{
		dir:      dir,
		maxWidth: maxWidth,
		quality:  quality,
		logger:   logger,
		http: resty.New().
			SetHeader("User-Agent", userAgent).
			SetTimeout(25 * time.Second),
		byURL: make(map[string]string),
		meta:  make(map[string]ImageMeta),
	}
}

// Meta returns the recorded dimensions for a saved filename.
func (s *ImageStore) Meta(filename string) (ImageMeta, bool) {
	m, ok := s.meta[filename]
	return m, ok
}

// Save fetches imgURL and writes it as a JPEG capped at the configured
// width. It returns the local filename and one of the img statuses; on
// cached the filename comes from the earlier fetch of the same URL.
func (s *ImageStore) Save(imgURL, brandKey string, rank int, referer string) (string, string) {
	if imgURL == "" {
		return "", models.ImgStatusNoURL
	}
	if fname, ok := s.byURL[imgURL]; ok && fname != "" {
		return fname, models.ImgStatusCached
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Warn("[hero] asset dir: %v", err)
		return "", models.ImgStatusDownFail
	}

	content, err := s.download(imgURL, referer)
	if err != nil {
		s.logger.Debug("[hero] image fetch failed (%s): %v", imgURL, err)
		return "", models.ImgStatusDownFail
	}

	fname := safeFilename(fmt.Sprintf("%s_%d_%s", brandKey, rank, shortHash(imgURL)), ".jpg")
	outPath := filepath.Join(s.dir, fname)

	width, height, encodeErr := s.encodeJPEG(content, outPath)
	if encodeErr != nil {
		// undecodable formats get stored as-is; the report falls back to
		// the remote URL if the browser cannot render it either
		if err := os.WriteFile(outPath, content, 0o644); err != nil {
			return "", models.ImgStatusDownFail
		}
	}

	var size int64
	if info, err := os.Stat(outPath); err == nil {
		size = info.Size()
	}
	s.meta[fname] = ImageMeta{Width: width, Height: height, Bytes: size}
	s.byURL[imgURL] = fname
	return fname, models.ImgStatusOK
}

func (s *ImageStore) download(imgURL, referer string) ([]byte, error) {
	req := s.http.R()
	if referer != "" {
		req.SetHeader("Referer", referer)
	}
	resp, err := req.Get(imgURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("status %d", resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return body, nil
}

func (s *ImageStore) encodeJPEG(content []byte, outPath string) (int, int, error) {
	src, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return 0, 0, err
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > s.maxWidth {
		newW := s.maxWidth
		newH := h * newW / w
		dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
		w, h = newW, newH
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	if err := jpeg.Encode(f, src, &jpeg.Options{Quality: s.quality}); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}
