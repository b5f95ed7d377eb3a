package dwtwatermark

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

const (
	// DefaultAlpha is the embedding strength. Extraction only works with the
	// alpha the image was embedded with.
	DefaultAlpha = 0.1

	// DefaultThreshold is the aggregate SSIM a watermark must strictly
	// exceed to be reported as verified.
	DefaultThreshold = 0.75
)

type Option func(*Watermarker) error

// WithAlpha sets the embedding strength used by both Embed and Extract.
// Zero is rejected because Extract divides by it.
func WithAlpha(alpha float64) Option {
	return func(w *Watermarker) error {
		if alpha == 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
			return fmt.Errorf("%w: alpha must be finite and non-zero, got %v", ErrConfiguration, alpha)
		}
		w.engine.Alpha = alpha
		return nil
	}
}

// WithThreshold sets the aggregate SSIM threshold Verify classifies against.
// SSIM lives in [-1, 1], so anything outside that range is rejected.
func WithThreshold(threshold float64) Option {
	return func(w *Watermarker) error {
		if math.IsNaN(threshold) || threshold < -1 || threshold > 1 {
			return fmt.Errorf("%w: threshold must be within [-1, 1], got %v", ErrConfiguration, threshold)
		}
		w.threshold = threshold
		return nil
	}
}

// WithLogger sets where the Watermarker and sessions built on it log. The
// default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watermarker) error {
		w.logger = logger
		return nil
	}
}
