package maplabel

import "errors"

// Bucket and layout errors.
var (
	// ErrNilLayer is returned by NewBucket without a style layer.
	ErrNilLayer = errors.New("maplabel: nil style layer")

	// ErrInvalidZoom is returned for a negative or non-finite tile zoom.
	ErrInvalidZoom = errors.New("maplabel: invalid zoom")

	// ErrInvalidOverscaling is returned when overscaling is below 1.
	ErrInvalidOverscaling = errors.New("maplabel: overscaling must be at least 1")

	// ErrInvalidPixelRatio is returned for a non-positive pixel ratio.
	ErrInvalidPixelRatio = errors.New("maplabel: pixel ratio must be positive")

	// ErrNilBucket is returned by PerformLayout without a bucket.
	ErrNilBucket = errors.New("maplabel: nil bucket")

	// ErrNilShaper is returned when a layout option clears the text shaper.
	ErrNilShaper = errors.New("maplabel: nil text shaper")

	// ErrNilQuadBuilder is returned when a layout option clears the quad builder.
	ErrNilQuadBuilder = errors.New("maplabel: nil quad builder")
)
