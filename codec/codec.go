// Package codec reads and writes raster images. The format is taken from
// the file extension (png, jpg/jpeg, gif, bmp, tif/tiff).
package codec

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const DefaultJPEGQuality = 95

var (
	// ErrDecode wraps any failure to read an image.
	ErrDecode = errors.New("decode image")
	// ErrEncode wraps any failure to write an image.
	ErrEncode = errors.New("encode image")
)

// Codec holds the encoder settings used when saving.
type Codec struct {
	JPEGQuality int
}

// New returns a Codec writing JPEG at quality (1-100). Zero selects
// DefaultJPEGQuality.
func New(quality int) *Codec {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Codec{JPEGQuality: quality}
}

// Decode reads the image at path.
func (c *Codec) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	return img, nil
}

// DecodeReader reads an image from r.
func (c *Codec) DecodeReader(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

// Encode writes img to path, creating parent directories as needed.
func (c *Codec) Encode(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w %s: %w", ErrEncode, path, err)
		}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(c.JPEGQuality)); err != nil {
		return fmt.Errorf("%w %s: %w", ErrEncode, path, err)
	}
	return nil
}

// EncodeWriter writes img to w in format.
func (c *Codec) EncodeWriter(w io.Writer, img image.Image, format imaging.Format) error {
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(c.JPEGQuality)); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (imaging.Format, error) {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ErrEncode, path, err)
	}
	return f, nil
}
