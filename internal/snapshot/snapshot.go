// Package snapshot writes frames to PNG files.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"
)

// Encode writes img as PNG, scaled to width pixels wide with the aspect
// ratio kept. A width of 0 or one that matches the image writes it as is.
func Encode(w io.Writer, img image.Image, width uint) error {
	if width != 0 && int(width) != img.Bounds().Dx() {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}
	return png.Encode(w, img)
}

// Save writes img into dir under a timestamped name and returns the path.
func Save(dir string, img image.Image, width uint, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("shot-%s.png", now.Format("20060102-150405.000")))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Encode(f, img, width); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
