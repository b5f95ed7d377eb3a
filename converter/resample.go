package converter

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolator is the one resampling filter used at every resize site:
// watermark to cover size, watermark to approximation size, recovered
// plane to full size and extracted to original watermark size. Mixing
// filters between these sites breaks round-trip fidelity.
//
// ApproxBiLinear samples the 2x2 neighbourhood of each destination pixel
// centre at every scale. draw.BiLinear widens its kernel when shrinking,
// which blurs the two downscaling sites.
var Interpolator draw.Interpolator = draw.ApproxBiLinear

// Resize scales img to exactly w x h. When the size already matches the
// pixels are copied unchanged.
func Resize(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := img.Bounds()
	if sb.Dx() == w && sb.Dy() == h {
		draw.Draw(dst, dst.Bounds(), img, sb.Min, draw.Src)
		return dst
	}
	Interpolator.Scale(dst, dst.Bounds(), img, sb, draw.Src, nil)
	return dst
}

// ResizeGray scales a single channel to exactly w x h.
func ResizeGray(img *image.Gray, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	sb := img.Bounds()
	if sb.Dx() == w && sb.Dy() == h {
		draw.Draw(dst, dst.Bounds(), img, sb.Min, draw.Src)
		return dst
	}
	Interpolator.Scale(dst, dst.Bounds(), img, sb, draw.Src, nil)
	return dst
}
