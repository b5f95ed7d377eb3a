// Package converter moves pixels between raster images and the floating
// point channel planes the transform works on, and owns the single
// resampling filter used by every resize in the pipeline.
package converter

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// Channels is the number of colour channels carried through the pipeline,
// always in R, G, B order.
const Channels = 3

// Planes holds one plane per colour channel. All planes share the same
// dimensions.
type Planes [Channels]*mat.Dense

// Split returns the R, G and B planes of img. Alpha is ignored and
// colour values are taken non-premultiplied.
func Split(img image.Image) Planes {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	var planes Planes
	for c := range planes {
		planes[c] = mat.NewDense(h, w, nil)
	}
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			for c := 0; c < Channels; c++ {
				planes[c].Set(y, x, float64(row[x*4+c]))
			}
		}
	}
	return planes
}

// Merge clips every plane to [0, 255], rounds to integers and assembles an
// opaque image.
func Merge(planes Planes) *image.RGBA {
	h, w := planes[0].Dims()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetRGBA(x, y, color.RGBA{
				R: Clamp(planes[0].At(y, x)),
				G: Clamp(planes[1].At(y, x)),
				B: Clamp(planes[2].At(y, x)),
				A: 255,
			})
		}
	}
	return out
}

// MergeGray assembles an opaque image from three 8-bit channel images of
// equal size.
func MergeGray(channels [Channels]*image.Gray) *image.RGBA {
	b := channels[0].Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetRGBA(x, y, color.RGBA{
				R: channels[0].GrayAt(b.Min.X+x, b.Min.Y+y).Y,
				G: channels[1].GrayAt(b.Min.X+x, b.Min.Y+y).Y,
				B: channels[2].GrayAt(b.Min.X+x, b.Min.Y+y).Y,
				A: 255,
			})
		}
	}
	return out
}

// PlaneToGray clips and rounds plane into an 8-bit image.
func PlaneToGray(plane *mat.Dense) *image.Gray {
	h, w := plane.Dims()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = Clamp(plane.At(y, x))
		}
	}
	return out
}

// GrayToPlane widens an 8-bit image into a plane.
func GrayToPlane(g *image.Gray) *mat.Dense {
	b := g.Bounds()
	out := mat.NewDense(b.Dy(), b.Dx(), nil)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(y, x, float64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y))
		}
	}
	return out
}

// Clamp clips v to [0, 255] and rounds it to the nearest integer.
func Clamp(v float64) uint8 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Opaque returns a copy of img with its straight (non-premultiplied) colour
// values and alpha forced to 255, the way a colour-only decode drops the
// alpha channel.
func Opaque(img image.Image) *image.RGBA {
	src := imaging.Clone(img)
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
	}
	return out
}
