// Package dwtwatermark embeds a visible watermark image into the Haar
// approximation sub-band of a cover image, extracts it again with the help
// of the original cover and verifies the extracted watermark against the
// original by structural similarity.
package dwtwatermark

import (
	"fmt"
	"image"
	"reflect"

	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"

	"dwtwatermark/converter"
	"dwtwatermark/core"
)

// Watermarker runs the embed, extract and verify stages. It holds only
// read-only configuration and is safe to reuse.
type Watermarker struct {
	engine    *core.Engine
	threshold float64
	logger    zerolog.Logger
}

// New returns a Watermarker using DefaultAlpha and DefaultThreshold unless
// overridden by opts.
func New(opts ...Option) (*Watermarker, error) {
	w := &Watermarker{
		engine:    &core.Engine{Alpha: DefaultAlpha},
		threshold: DefaultThreshold,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Alpha returns the embedding strength.
func (w *Watermarker) Alpha() float64 { return w.engine.Alpha }

// Threshold returns the verification threshold.
func (w *Watermarker) Threshold() float64 { return w.threshold }

// Logger returns the logger set by WithLogger.
func (w *Watermarker) Logger() *zerolog.Logger { return &w.logger }

// Embed blends watermark into cover and returns an image with the cover's
// dimensions.
func (w *Watermarker) Embed(cover, watermark image.Image) (*image.RGBA, error) {
	if err := checkImage(cover, "cover", ErrInvalidInput); err != nil {
		return nil, err
	}
	if err := checkImage(watermark, "watermark", ErrInvalidInput); err != nil {
		return nil, err
	}
	if err := w.checkAlpha(); err != nil {
		return nil, err
	}

	w.logger.Debug().
		Int("from_w", watermark.Bounds().Dx()).Int("from_h", watermark.Bounds().Dy()).
		Int("to_w", cover.Bounds().Dx()).Int("to_h", cover.Bounds().Dy()).
		Msg("embedding watermark")
	return w.engine.Embed(converter.Opaque(cover), converter.Opaque(watermark)), nil
}

// EmbedQRCode encodes content as a QR code the size of the cover's shorter
// side and embeds it as the watermark.
func (w *Watermarker) EmbedQRCode(cover image.Image, content string) (*image.RGBA, error) {
	if err := checkImage(cover, "cover", ErrInvalidInput); err != nil {
		return nil, err
	}
	b := cover.Bounds()
	qr, err := QRCode(content, min(b.Dx(), b.Dy()))
	if err != nil {
		return nil, err
	}
	return w.Embed(cover, qr)
}

// Extract recovers an approximation of the watermark from marked. cover
// must be the image marked was produced from, and the Watermarker must use
// the same alpha as at embed time. The result has the cover's dimensions.
func (w *Watermarker) Extract(marked, cover image.Image) (*image.RGBA, error) {
	if err := checkImage(marked, "watermarked image", ErrMissingInput); err != nil {
		return nil, err
	}
	if err := checkImage(cover, "cover", ErrMissingInput); err != nil {
		return nil, err
	}
	if err := w.checkAlpha(); err != nil {
		return nil, err
	}
	mb, cb := marked.Bounds(), cover.Bounds()
	if mb.Dx() != cb.Dx() || mb.Dy() != cb.Dy() {
		return nil, fmt.Errorf("%w: watermarked image is %dx%d but cover is %dx%d",
			ErrInvalidInput, mb.Dx(), mb.Dy(), cb.Dx(), cb.Dy())
	}

	return w.engine.Extract(converter.Opaque(marked), converter.Opaque(cover)), nil
}

// Verify compares extracted against original. extracted is first resized to
// original's dimensions.
func (w *Watermarker) Verify(original, extracted image.Image) (*Result, error) {
	if err := checkImage(original, "original watermark", ErrMissingInput); err != nil {
		return nil, err
	}
	if err := checkImage(extracted, "extracted watermark", ErrMissingInput); err != nil {
		return nil, err
	}

	ob := original.Bounds()
	orig := converter.Split(converter.Opaque(original))
	ext := converter.Split(converter.Resize(converter.Opaque(extracted), ob.Dx(), ob.Dy()))

	res := &Result{Threshold: w.threshold}
	var sum float64
	for c := range res.Channels {
		s, err := core.SSIM(orig[c], ext[c])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		res.Channels[c] = s
		sum += s
	}
	res.SSIM = sum / float64(len(res.Channels))

	mse, err := core.MSE(orig[:], ext[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	res.MSE = mse
	res.PSNR = core.PSNR(mse)
	res.Verified = Classify(res.SSIM, w.threshold)

	w.logger.Debug().
		Floats64("ssim_rgb", res.Channels[:]).
		Float64("ssim", res.SSIM).
		Float64("psnr", res.PSNR).
		Bool("verified", res.Verified).
		Msg("verification finished")
	return res, nil
}

// Classify reports whether ssim strictly exceeds threshold. A score equal to
// the threshold is tampered.
func Classify(ssim, threshold float64) bool {
	return ssim > threshold
}

// QRCode renders content as a size x size QR code image.
func QRCode(content string, size int) (image.Image, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: empty QR content", ErrInvalidInput)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: QR size must be positive, got %d", ErrInvalidInput, size)
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return q.Image(size), nil
}

func (w *Watermarker) checkAlpha() error {
	if w.engine == nil || w.engine.Alpha == 0 {
		return fmt.Errorf("%w: alpha must be non-zero", ErrConfiguration)
	}
	return nil
}

// checkImage rejects nil (including typed nil) and zero-sized images,
// wrapping kind.
func checkImage(img image.Image, name string, kind error) error {
	if img == nil {
		return fmt.Errorf("%w: %s is nil", kind, name)
	}
	if v := reflect.ValueOf(img); v.Kind() == reflect.Pointer && v.IsNil() {
		return fmt.Errorf("%w: %s is nil", kind, name)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: %s has zero size (%dx%d)", ErrInvalidInput, name, b.Dx(), b.Dy())
	}
	return nil
}
