package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrNilShaper is returned when a cached shaper wraps nothing.
	ErrNilShaper = errors.New("text: nil shaper")
)
