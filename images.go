package foodies

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxImageWidth  = 1200
	maxImagePixels = 40_000_000
	jpegQuality    = 82
	uploadsSubdir  = "uploads"
)

// ImageStore writes processed uploads under a directory that is served as
// static files, and hands back the public path of each file.
type ImageStore struct {
	dir       string
	urlPrefix string
}

// NewImageStore returns an ImageStore writing to <staticDir>/uploads and
// producing paths under /public/uploads.
func NewImageStore(staticDir string) *ImageStore {
	return &ImageStore{
		dir:       filepath.Join(staticDir, uploadsSubdir),
		urlPrefix: "/public/" + uploadsSubdir,
	}
}

// Save encodes the upload as JPEG and writes it under a name derived from
// slug. It returns the public path to store on the meal.
func (s *ImageStore) Save(slug string, src io.Reader) (string, error) {
	data, err := processImage(src)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	filename := imageFilename(slug)
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join(s.urlPrefix, filename), nil
}

// Remove deletes a file previously returned by Save. Missing files are not an
// error.
func (s *ImageStore) Remove(publicPath string) error {
	name := strings.TrimPrefix(publicPath, s.urlPrefix+"/")
	if name == publicPath || name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("remove image: %q is not an upload", publicPath)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// imageFilename returns a collision-resistant file name for a meal image.
func imageFilename(slug string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if slug == "" {
		return id[:12] + ".jpg"
	}
	return slug + "-" + id[:8] + ".jpg"
}

// processImage decodes an image from src, shrinks it to maxImageWidth when it
// is wider, and encodes it as JPEG. The header is checked against
// maxImagePixels before any pixel data is decoded.
func processImage(src io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrInvalidImage, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("%w: %w: %dx%d", ErrInvalidImage, ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
