package dwtwatermark

import "errors"

var (
	// ErrInvalidInput is returned for images that are unusable: nil, zero
	// sized, or not matching the image they must be paired with.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingInput is returned when an image required by Extract or
	// Verify is absent.
	ErrMissingInput = errors.New("missing input")

	// ErrConfiguration is returned for an unusable alpha or threshold.
	ErrConfiguration = errors.New("configuration error")
)
