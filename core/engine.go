package core

import (
	"image"

	"gonum.org/v1/gonum/mat"

	"dwtwatermark/converter"
)

// Direction selects which side of the additive blend processChannel runs.
type Direction int

const (
	// DirectionEmbed computes approx + alpha*watermark.
	DirectionEmbed Direction = iota
	// DirectionExtract computes (approx - coverApprox) / alpha.
	DirectionExtract
)

func (d Direction) String() string {
	if d == DirectionExtract {
		return "extract"
	}
	return "embed"
}

// Engine embeds and extracts a watermark in the approximation sub-band of
// each colour channel. Inputs are expected to be validated and opaque.
type Engine struct {
	Alpha float64 // embedding strength, must match between Embed and Extract
}

// Embed resizes watermark to the cover's size, blends each of its channels
// into the matching cover channel and reassembles the result. The output
// has the cover's dimensions.
func (e *Engine) Embed(cover, watermark image.Image) *image.RGBA {
	b := cover.Bounds()
	w, h := b.Dx(), b.Dy()
	resized := converter.Resize(watermark, w, h)

	coverPlanes := converter.Split(cover)
	wmPlanes := converter.Split(resized)

	var out converter.Planes
	for c := range out {
		out[c] = e.processChannel(coverPlanes[c], wmPlanes[c], DirectionEmbed)
	}
	return converter.Merge(out)
}

// Extract recovers the embedded watermark from marked using the original
// cover. Each recovered half-resolution channel is clipped, rounded and
// scaled back up to the cover's size.
func (e *Engine) Extract(marked, cover image.Image) *image.RGBA {
	b := cover.Bounds()
	w, h := b.Dx(), b.Dy()

	markedPlanes := converter.Split(marked)
	coverPlanes := converter.Split(cover)

	var channels [converter.Channels]*image.Gray
	for c := range channels {
		recovered := e.processChannel(markedPlanes[c], coverPlanes[c], DirectionExtract)
		channels[c] = converter.ResizeGray(converter.PlaneToGray(recovered), w, h)
	}
	return converter.MergeGray(channels)
}

// processChannel is the code path shared by embedding and extraction.
//
// DirectionEmbed: plane is a cover channel and aux the watermark channel at
// cover size. The watermark is resized again to the approximation size,
// blended in, and the full-size reconstruction is returned unclipped.
//
// DirectionExtract: plane is a watermarked channel and aux the cover channel.
// The half-resolution recovered watermark is returned unclipped. The
// detail sub-bands of the cover are never used.
func (e *Engine) processChannel(plane, aux *mat.Dense, dir Direction) *mat.Dense {
	d := Forward(plane)
	rows, cols := d.Approx.Dims()

	switch dir {
	case DirectionExtract:
		ref := Forward(aux)
		return blend(d.Approx, ref.Approx, e.Alpha, dir)
	default:
		wm := converter.ResizeGray(converter.PlaneToGray(aux), cols, rows)
		d.Approx = blend(d.Approx, converter.GrayToPlane(wm), e.Alpha, dir)
		return Inverse(d)
	}
}

// blend applies the additive watermark model in the approximation sub-band.
func blend(approx, other *mat.Dense, alpha float64, dir Direction) *mat.Dense {
	var out mat.Dense
	switch dir {
	case DirectionExtract:
		out.Sub(approx, other)
		out.Scale(1/alpha, &out)
	default:
		out.Scale(alpha, other)
		out.Add(approx, &out)
	}
	return &out
}
