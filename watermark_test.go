package dwtwatermark_test

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dwtwatermark"
	"dwtwatermark/core"
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

func checkerboard(size, square int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if (x/square+y/square)%2 == 0 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// gradient stays within [20, 230] so embedding never clips.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(20 + 210*x/w),
				G: uint8(20 + 210*y/h),
				B: uint8(20 + 105*(x+y)/(w+h)),
				A: 255,
			})
		}
	}
	return img
}

// blocks is a watermark of four flat coloured quadrants. Channel values are
// multiples of 20 so alpha*v/2 never lands on a rounding tie.
func blocks(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	palette := []color.RGBA{
		{220, 40, 40, 255},
		{40, 200, 60, 255},
		{20, 60, 200, 255},
		{240, 240, 240, 255},
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, palette[(2*y/h)*2+2*x/w])
		}
	}
	return img
}

func addNoise(img *image.RGBA, amplitude int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	for i := range out.Pix {
		if i%4 == 3 {
			continue
		}
		v := int(out.Pix[i]) + rng.Intn(2*amplitude+1) - amplitude
		out.Pix[i] = uint8(max(0, min(255, v)))
	}
	return out
}

func newWatermarker(t *testing.T, opts ...dwtwatermark.Option) *dwtwatermark.Watermarker {
	t.Helper()
	w, err := dwtwatermark.New(opts...)
	require.NoError(t, err)
	return w
}

func TestNewDefaults(t *testing.T) {
	w := newWatermarker(t)
	assert.Equal(t, 0.1, w.Alpha())
	assert.Equal(t, 0.75, w.Threshold())

	w = newWatermarker(t, dwtwatermark.WithAlpha(0.2), dwtwatermark.WithThreshold(0.9))
	assert.Equal(t, 0.2, w.Alpha())
	assert.Equal(t, 0.9, w.Threshold())
}

func TestLoggingIsOptIn(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, newWatermarker(t).Logger().GetLevel())

	var buf bytes.Buffer
	w := newWatermarker(t, dwtwatermark.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	wm := blocks(16, 16)
	_, err := w.Embed(gradient(32, 32), wm)
	require.NoError(t, err)
	_, err = w.Verify(wm, wm)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"message":"embedding watermark"`)
	assert.Contains(t, buf.String(), `"message":"verification finished"`)
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	for name, opt := range map[string]dwtwatermark.Option{
		"zero alpha":        dwtwatermark.WithAlpha(0),
		"threshold above 1": dwtwatermark.WithThreshold(1.5),
		"threshold below":   dwtwatermark.WithThreshold(-2),
	} {
		_, err := dwtwatermark.New(opt)
		assert.ErrorIs(t, err, dwtwatermark.ErrConfiguration, name)
	}
}

func TestEmbedPreservesDimensions(t *testing.T) {
	w := newWatermarker(t)
	for _, tc := range []struct {
		cover, wm image.Rectangle
	}{
		{image.Rect(0, 0, 256, 256), image.Rect(0, 0, 64, 64)},
		{image.Rect(0, 0, 101, 77), image.Rect(0, 0, 30, 40)},
		{image.Rect(0, 0, 3, 5), image.Rect(0, 0, 64, 64)},
		{image.Rect(0, 0, 1, 1), image.Rect(0, 0, 2, 2)},
		{image.Rect(5, 5, 45, 25), image.Rect(0, 0, 9, 9)},
	} {
		cover := image.NewRGBA(tc.cover)
		wm := image.NewRGBA(tc.wm)
		marked, err := w.Embed(cover, wm)
		require.NoError(t, err)
		assert.Equal(t, tc.cover.Dx(), marked.Bounds().Dx())
		assert.Equal(t, tc.cover.Dy(), marked.Bounds().Dy())
	}
}

func TestEmbedGrayCoverStaysInBand(t *testing.T) {
	w := newWatermarker(t)
	cover := solid(256, 256, color.RGBA{128, 128, 128, 255})

	marked, err := w.Embed(cover, checkerboard(64, 16))
	require.NoError(t, err)

	// alpha*255 added to LL moves a pixel by at most 12.75.
	var changed int
	for i := 0; i < len(marked.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := marked.Pix[i+c]
			require.GreaterOrEqual(t, v, uint8(128))
			require.LessOrEqual(t, v, uint8(141))
		}
		if marked.Pix[i] != 128 {
			changed++
		}
	}
	assert.Greater(t, changed, 0)
	assert.Equal(t, color.RGBA{141, 141, 141, 255}, marked.RGBAAt(16, 16))
	assert.Equal(t, color.RGBA{128, 128, 128, 255}, marked.RGBAAt(80, 16))
}

func TestEmbedIsDeterministic(t *testing.T) {
	w := newWatermarker(t)
	cover := gradient(64, 48)
	wm := blocks(20, 20)

	a, err := w.Embed(cover, wm)
	require.NoError(t, err)
	b, err := w.Embed(cover, wm)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestRoundTripCheckerboard(t *testing.T) {
	w := newWatermarker(t)
	cover := solid(256, 256, color.RGBA{128, 128, 128, 255})
	wm := checkerboard(64, 4)

	marked, err := w.Embed(cover, wm)
	require.NoError(t, err)
	extracted, err := w.Extract(marked, cover)
	require.NoError(t, err)
	assert.Equal(t, cover.Bounds(), extracted.Bounds())

	res, err := w.Verify(wm, extracted)
	require.NoError(t, err)
	assert.Greater(t, res.SSIM, 0.9)
	assert.True(t, res.Verified)
	assert.Greater(t, res.PSNR, 0.0)
	assert.Contains(t, res.Message(), "Watermark Verified")
}

func TestRoundTripColourCover(t *testing.T) {
	w := newWatermarker(t)
	cover := gradient(200, 150)
	wm := blocks(50, 40)

	marked, err := w.Embed(cover, wm)
	require.NoError(t, err)
	extracted, err := w.Extract(marked, cover)
	require.NoError(t, err)

	res, err := w.Verify(wm, extracted)
	require.NoError(t, err)
	assert.True(t, res.Verified, res.String())
	for c, s := range res.Channels {
		assert.Greater(t, s, 0.75, "channel %d", c)
	}
}

func TestTamperedImageFailsVerification(t *testing.T) {
	w := newWatermarker(t)
	cover := solid(256, 256, color.RGBA{128, 128, 128, 255})
	wm := checkerboard(64, 16)

	marked, err := w.Embed(cover, wm)
	require.NoError(t, err)

	clean, err := w.Extract(marked, cover)
	require.NoError(t, err)
	cleanRes, err := w.Verify(wm, clean)
	require.NoError(t, err)

	tampered, err := w.Extract(addNoise(marked, 40, 7), cover)
	require.NoError(t, err)
	res, err := w.Verify(wm, tampered)
	require.NoError(t, err)

	assert.Less(t, res.SSIM, cleanRes.SSIM)
	assert.Less(t, res.SSIM, 0.75)
	assert.False(t, res.Verified)
	assert.Less(t, res.PSNR, cleanRes.PSNR)
	assert.Contains(t, res.Message(), "Watermark Tampered")
}

func TestExtractWithWrongAlphaDegrades(t *testing.T) {
	cover := solid(128, 128, color.RGBA{100, 100, 100, 255})
	wm := checkerboard(64, 16)

	marked, err := newWatermarker(t).Embed(cover, wm)
	require.NoError(t, err)

	right, err := newWatermarker(t).Extract(marked, cover)
	require.NoError(t, err)
	wrong, err := newWatermarker(t, dwtwatermark.WithAlpha(0.3)).Extract(marked, cover)
	require.NoError(t, err)

	w := newWatermarker(t)
	rightRes, err := w.Verify(wm, right)
	require.NoError(t, err)
	wrongRes, err := w.Verify(wm, wrong)
	require.NoError(t, err)
	assert.Less(t, wrongRes.SSIM, rightRes.SSIM)
}

func TestVerifyIdenticalImages(t *testing.T) {
	w := newWatermarker(t)
	wm := blocks(64, 48)

	res, err := w.Verify(wm, wm)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.MSE)
	assert.Equal(t, core.PSNRIdentical, res.PSNR)
	assert.Equal(t, 1.0, res.SSIM)
	assert.Equal(t, [3]float64{1, 1, 1}, res.Channels)
	assert.True(t, res.Verified)
}

func TestVerifyResizesExtracted(t *testing.T) {
	w := newWatermarker(t)
	wm := solid(32, 32, color.RGBA{10, 20, 30, 255})
	extracted := solid(128, 96, color.RGBA{10, 20, 30, 255})

	res, err := w.Verify(wm, extracted)
	require.NoError(t, err)
	assert.Equal(t, core.PSNRIdentical, res.PSNR)
	assert.True(t, res.Verified)
}

func TestClassifyThresholdBoundary(t *testing.T) {
	assert.False(t, dwtwatermark.Classify(0.75, 0.75))
	assert.True(t, dwtwatermark.Classify(0.7501, 0.75))
	assert.False(t, dwtwatermark.Classify(0.7499, 0.75))
}

func TestInputErrors(t *testing.T) {
	w := newWatermarker(t)
	img := solid(16, 16, color.RGBA{1, 2, 3, 255})
	empty := image.NewRGBA(image.Rect(0, 0, 0, 10))
	var typedNil *image.RGBA

	_, err := w.Embed(nil, img)
	assert.ErrorIs(t, err, dwtwatermark.ErrInvalidInput)
	_, err = w.Embed(img, typedNil)
	assert.ErrorIs(t, err, dwtwatermark.ErrInvalidInput)
	_, err = w.Embed(empty, img)
	assert.ErrorIs(t, err, dwtwatermark.ErrInvalidInput)
	_, err = w.Embed(img, empty)
	assert.ErrorIs(t, err, dwtwatermark.ErrInvalidInput)

	_, err = w.Extract(nil, img)
	assert.ErrorIs(t, err, dwtwatermark.ErrMissingInput)
	_, err = w.Extract(img, nil)
	assert.ErrorIs(t, err, dwtwatermark.ErrMissingInput)
	_, err = w.Extract(img, solid(16, 18, color.RGBA{}))
	assert.ErrorIs(t, err, dwtwatermark.ErrInvalidInput)

	_, err = w.Verify(nil, img)
	assert.ErrorIs(t, err, dwtwatermark.ErrMissingInput)
	_, err = w.Verify(img, typedNil)
	assert.ErrorIs(t, err, dwtwatermark.ErrMissingInput)
	_, err = w.Verify(solid(4, 4, color.RGBA{}), img)
	assert.ErrorIs(t, err, dwtwatermark.ErrInvalidInput)
}

func TestZeroValueWatermarkerIsConfigurationError(t *testing.T) {
	var w dwtwatermark.Watermarker
	img := solid(16, 16, color.RGBA{1, 2, 3, 255})

	_, err := w.Extract(img, img)
	assert.ErrorIs(t, err, dwtwatermark.ErrConfiguration)
	_, err = w.Embed(img, img)
	assert.ErrorIs(t, err, dwtwatermark.ErrConfiguration)
}

func TestQRCode(t *testing.T) {
	img, err := dwtwatermark.QRCode("https://example.com/asset/42", 128)
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())

	_, err = dwtwatermark.QRCode("", 128)
	assert.ErrorIs(t, err, dwtwatermark.ErrInvalidInput)
	_, err = dwtwatermark.QRCode("x", 0)
	assert.ErrorIs(t, err, dwtwatermark.ErrInvalidInput)
}

func TestEmbedQRCodeRoundTrip(t *testing.T) {
	w := newWatermarker(t)
	cover := solid(512, 512, color.RGBA{120, 120, 120, 255})

	marked, err := w.EmbedQRCode(cover, "owner:42")
	require.NoError(t, err)
	extracted, err := w.Extract(marked, cover)
	require.NoError(t, err)

	qr, err := dwtwatermark.QRCode("owner:42", 512)
	require.NoError(t, err)
	res, err := w.Verify(qr, extracted)
	require.NoError(t, err)
	assert.True(t, res.Verified, res.String())
}
