package cubelut

import "errors"

var (
	// ErrDimensionMismatch is returned when the reference and corrected images differ in size.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrMissingMapping is returned when a sampled color has no recorded output.
	ErrMissingMapping = errors.New("missing mapping")
	// ErrInvalidConfiguration is returned for out-of-range LUT options.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnsupportedFormat is returned for image extensions that are not lossless.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
