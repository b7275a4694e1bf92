// Package transcode downloads a winning photo and produces the resized JPEG
// and WebP variants the site serves.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chai2010/webp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/servizzmalta/directory-cli/internal/config"
	"github.com/servizzmalta/directory-cli/internal/model"
)

// maxImageSize caps source downloads; Pexels "large" renditions stay well
// under this.
const maxImageSize = 20 * 1024 * 1024

// Transcoder turns a source URL into on-disk variants under the public tree.
type Transcoder struct {
	httpClient  *http.Client
	publicDir   string
	widths      []int
	jpgQuality  int
	webpQuality int
}

// New creates a Transcoder writing under publicDir.
func New(publicDir string, cfg config.PexelsConfig) *Transcoder {
	widths := cfg.TargetWidths
	if len(widths) == 0 {
		widths = []int{640, 960, 1280}
	}
	jpgQ := cfg.JpgQuality
	if jpgQ <= 0 {
		jpgQ = 78
	}
	webpQ := cfg.WebpQuality
	if webpQ <= 0 {
		webpQ = 75
	}
	return &Transcoder{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		publicDir:   publicDir,
		widths:      widths,
		jpgQuality:  jpgQ,
		webpQuality: webpQ,
	}
}

// Fetch downloads the source image bytes.
func (t *Transcoder) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "transcode: create request")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "transcode: download %s", sourceURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("transcode: download %s: status %d", sourceURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, eris.Wrapf(err, "transcode: read %s", sourceURL)
	}
	return data, nil
}

// Transcode decodes the source bytes and writes one JPEG and one WebP file
// per target width (capped at the native width) under
// {publicDir}/images/pexels/{slotID}/. Returned variant paths are absolute
// site-root paths.
func (t *Transcoder) Transcode(slotID string, data []byte) ([]model.Variant, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "transcode: decode source")
	}
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, eris.Errorf("transcode: empty source image (%s)", format)
	}

	slotDir := filepath.Join(t.publicDir, "images", "pexels", slotID)
	if err := os.MkdirAll(slotDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "transcode: create %s", slotDir)
	}

	var variants []model.Variant
	seen := make(map[int]bool)
	for _, target := range t.widths {
		width := target
		if width > srcW {
			width = srcW
		}
		if seen[width] {
			continue
		}
		seen[width] = true

		height := (width*srcH + srcW/2) / srcW
		resized := resize(src, width, height)

		fileBase := fmt.Sprintf("%s-%d", slotID, width)
		jpgRel := "/images/pexels/" + slotID + "/" + fileBase + ".jpg"
		webpRel := "/images/pexels/" + slotID + "/" + fileBase + ".webp"

		if err := t.writeJPEG(filepath.Join(slotDir, fileBase+".jpg"), resized); err != nil {
			return nil, err
		}
		if err := t.writeWebP(filepath.Join(slotDir, fileBase+".webp"), resized); err != nil {
			return nil, err
		}

		variants = append(variants, model.Variant{
			Width:  width,
			Height: height,
			Jpg:    jpgRel,
			Webp:   webpRel,
		})
	}

	zap.L().Debug("transcode: wrote variants",
		zap.String("slot", slotID),
		zap.Int("count", len(variants)),
		zap.Int("source_width", srcW),
	)
	return variants, nil
}

func resize(src image.Image, width, height int) *image.RGBA {
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func (t *Transcoder) writeJPEG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: t.jpgQuality}); err != nil {
		return eris.Wrapf(err, "transcode: encode jpeg %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "transcode: write %s", path)
	}
	return nil
}

func (t *Transcoder) writeWebP(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(t.webpQuality)}); err != nil {
		return eris.Wrapf(err, "transcode: encode webp %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "transcode: write %s", path)
	}
	return nil
}
