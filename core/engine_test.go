package core

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBlendInverts(t *testing.T) {
	approx := filled(3, 3, 256)
	wm := filled(3, 3, 200)

	marked := blend(approx, wm, 0.1, DirectionEmbed)
	assert.InDelta(t, 276.0, marked.At(1, 1), epsilon)

	back := blend(marked, approx, 0.1, DirectionExtract)
	assert.True(t, mat.EqualApprox(wm, back, 1e-9))
}

func TestProcessChannelRoundTrip(t *testing.T) {
	e := &Engine{Alpha: 0.1}
	cover := filled(16, 16, 100)
	wm := filled(16, 16, 200)

	marked := e.processChannel(cover, wm, DirectionEmbed)
	r, c := marked.Dims()
	require.Equal(t, 16, r)
	require.Equal(t, 16, c)
	// 0.1 * 200 added to LL spreads as 10 per pixel.
	assert.InDelta(t, 110.0, marked.At(5, 7), 1e-9)

	recovered := e.processChannel(marked, cover, DirectionExtract)
	r, c = recovered.Dims()
	require.Equal(t, 8, r)
	require.Equal(t, 8, c)
	assert.True(t, mat.EqualApprox(filled(8, 8, 200), recovered, 1e-9))
}

func TestEngineEmbedExtract(t *testing.T) {
	e := &Engine{Alpha: 0.1}
	cover := solid(40, 30, color.RGBA{100, 60, 20, 255})
	wm := solid(10, 10, color.RGBA{255, 0, 100, 255})

	marked := e.Embed(cover, wm)
	assert.Equal(t, cover.Bounds(), marked.Bounds())
	// LL += 0.1*wm moves every pixel by 0.05*wm.
	assert.Equal(t, color.RGBA{113, 60, 25, 255}, marked.RGBAAt(3, 4))

	extracted := e.Extract(marked, cover)
	assert.Equal(t, cover.Bounds(), extracted.Bounds())
	// 12.75 rounds to 13, so R comes back as 260 and is clipped.
	assert.Equal(t, color.RGBA{255, 0, 100, 255}, extracted.RGBAAt(17, 9))
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "embed", DirectionEmbed.String())
	assert.Equal(t, "extract", DirectionExtract.String())
}
