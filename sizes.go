package maplabel

import (
	"math"

	"github.com/gogpu/maplabel/style"
)

// Size packing constants. Sizes are stored in vertices as uint16 values
// scaled by SizePackFactor.
const (
	SizePackFactor = 256
	MaxPackedSize  = 65535
)

// SizeFunction is how a size expression varies, which decides what is
// stored per vertex and what the renderer interpolates.
type SizeFunction uint8

// Size functions.
const (
	// SizeConstant sizes do not depend on zoom or feature.
	SizeConstant SizeFunction = iota
	// SizeSource sizes vary per feature; one packed size per vertex.
	SizeSource
	// SizeCamera sizes vary with zoom only; interpolated on the CPU.
	SizeCamera
	// SizeComposite sizes vary with both; two packed sizes per vertex
	// bracketing the tile zoom, interpolated on the GPU.
	SizeComposite
)

func (f SizeFunction) String() string {
	switch f {
	case SizeSource:
		return "source"
	case SizeCamera:
		return "camera"
	case SizeComposite:
		return "composite"
	default:
		return "constant"
	}
}

// Range is a closed interval.
type Range struct {
	Min, Max float64
}

// SizeData describes a text or icon size for the renderer.
type SizeData struct {
	Function SizeFunction

	// LayoutSize is the size at tile zoom + 1, for constant and camera sizes.
	LayoutSize float64

	// ZoomRange holds the zoom stops covering [zoom, zoom+1], for camera
	// and composite sizes.
	ZoomRange Range

	// SizeRange holds the sizes at ZoomRange, for camera sizes.
	SizeRange Range
}

// NewSizeData classifies a size expression at tile zoom.
func NewSizeData(zoom float64, e style.Expression[float64]) SizeData {
	switch e.Kind() {
	case style.KindConstant:
		return SizeData{Function: SizeConstant, LayoutSize: e.Value(zoom+1, nil)}
	case style.KindSource:
		return SizeData{Function: SizeSource}
	}

	levels := e.ZoomStops()
	lower := 0
	for lower < len(levels) && levels[lower] <= zoom {
		lower++
	}
	lower = max(0, lower-1)
	upper := lower
	for upper < len(levels) && levels[upper] < zoom+1 {
		upper++
	}
	upper = min(len(levels)-1, upper)

	var zr Range
	if len(levels) > 0 {
		zr = Range{Min: levels[lower], Max: levels[upper]}
	}
	if e.Kind() == style.KindComposite {
		return SizeData{Function: SizeComposite, ZoomRange: zr}
	}
	return SizeData{
		Function:   SizeCamera,
		LayoutSize: e.Value(zoom+1, nil),
		ZoomRange:  zr,
		SizeRange:  Range{Min: e.Value(zr.Min, nil), Max: e.Value(zr.Max, nil)},
	}
}

// Sizes holds the size expressions fixed at the zooms layout needs. It is
// built once per layout pass and shared by every feature of the bucket.
type Sizes struct {
	// LayoutTextSize and LayoutIconSize are fixed at tile zoom + 1 and
	// size collision boxes.
	LayoutTextSize style.PossiblyEvaluated[float64]
	LayoutIconSize style.PossiblyEvaluated[float64]

	// TextMaxSize is fixed at zoom 18 and spaces line anchors, so anchors
	// do not move between zoom levels.
	TextMaxSize style.PossiblyEvaluated[float64]

	// CompositeTextSizes and CompositeIconSizes bracket the tile zoom for
	// composite sizes. Nil otherwise.
	CompositeTextSizes *[2]style.PossiblyEvaluated[float64]
	CompositeIconSizes *[2]style.PossiblyEvaluated[float64]
}

const maxSizeZoom = 18

// NewSizes fixes the layer size expressions for a bucket at zoom.
func NewSizes(zoom float64, layout *style.Layout, textData, iconData SizeData) *Sizes {
	s := &Sizes{
		LayoutTextSize: layout.TextSize.PossiblyEvaluate(zoom + 1),
		LayoutIconSize: layout.IconSize.PossiblyEvaluate(zoom + 1),
		TextMaxSize:    layout.TextSize.PossiblyEvaluate(maxSizeZoom),
	}
	if textData.Function == SizeComposite {
		s.CompositeTextSizes = &[2]style.PossiblyEvaluated[float64]{
			layout.TextSize.PossiblyEvaluate(textData.ZoomRange.Min),
			layout.TextSize.PossiblyEvaluate(textData.ZoomRange.Max),
		}
	}
	if iconData.Function == SizeComposite {
		s.CompositeIconSizes = &[2]style.PossiblyEvaluated[float64]{
			layout.IconSize.PossiblyEvaluate(iconData.ZoomRange.Min),
			layout.IconSize.PossiblyEvaluate(iconData.ZoomRange.Max),
		}
	}
	return s
}

// textMaxSize returns the zoom 18 text size of f, falling back to the
// layout size when it is undefined for f.
func (s *Sizes) textMaxSize(f style.Feature, layoutTextSize float64) float64 {
	if v, ok := s.TextMaxSize.Evaluate(f); ok {
		return v
	}
	return layoutTextSize
}

// packedSize is the per-vertex size record. Both values are zero for
// constant and camera sizes; source sizes use only the first.
type packedSize struct {
	values [2]uint16
	set    bool
}

// packSizes returns the packed sizes of f for data. overflow is true when a
// scaled size exceeds MaxPackedSize; the value is still written, saturated.
func packSizes(data SizeData, source style.PossiblyEvaluated[float64], composite *[2]style.PossiblyEvaluated[float64], f style.Feature) (p packedSize, overflow bool) {
	switch data.Function {
	case SizeSource:
		v := SizePackFactor * source.Value(f)
		p.values[0], overflow = packValue(v)
		p.set = true
	case SizeComposite:
		if composite == nil {
			return p, false
		}
		var o0, o1 bool
		p.values[0], o0 = packValue(SizePackFactor * composite[0].Value(f))
		p.values[1], o1 = packValue(SizePackFactor * composite[1].Value(f))
		p.set = true
		overflow = o0 || o1
	}
	return p, overflow
}

// packValue rounds v into uint16, saturating out-of-range values.
func packValue(v float64) (uint16, bool) {
	overflow := v > MaxPackedSize
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0, overflow
	case overflow:
		return MaxPackedSize, true
	}
	return uint16(math.Round(v)), false
}
