package style

import (
	"math"
	"sort"
)

// Kind classifies how an expression depends on zoom and feature data.
type Kind uint8

const (
	// KindConstant expressions have a single value everywhere.
	KindConstant Kind = iota
	// KindSource expressions depend on feature properties only.
	KindSource
	// KindCamera expressions depend on zoom only.
	KindCamera
	// KindComposite expressions depend on both zoom and feature properties.
	KindComposite
)

var kindNames = [...]string{
	KindConstant:  "constant",
	KindSource:    "source",
	KindCamera:    "camera",
	KindComposite: "composite",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Feature is the read-only view of a feature that expressions evaluate against.
type Feature interface {
	// Property returns the named feature property.
	Property(name string) (any, bool)
}

// FeatureFunc computes a value from feature data. The boolean result is
// false when the value is undefined for the feature.
type FeatureFunc[T any] func(Feature) (T, bool)

// Stop is one zoom stop of a camera or composite expression.
type Stop[T any] struct {
	Zoom  float64
	Value T

	// Eval yields the stop output for a feature. Only composite stops set it.
	Eval FeatureFunc[T]
}

// Lerp interpolates between two values of T.
type Lerp[T any] func(a, b T, t float64) T

// Expression is a layout property value that may depend on zoom and on
// feature data. The zero value is a constant expression of T's zero value.
type Expression[T any] struct {
	kind     Kind
	constant T
	def      T
	eval     FeatureFunc[T]
	stops    []Stop[T]
	lerp     Lerp[T]
}

// Constant returns an expression that always yields v.
func Constant[T any](v T) Expression[T] {
	return Expression[T]{kind: KindConstant, constant: v, def: v}
}

// Source returns a feature-dependent expression. def is used by Value when
// eval reports the result as undefined.
func Source[T any](def T, eval FeatureFunc[T]) Expression[T] {
	return Expression[T]{kind: KindSource, def: def, eval: eval}
}

// Camera returns a zoom-dependent expression. A nil lerp gives step
// semantics: the value of the last stop at or below the zoom.
func Camera[T any](lerp Lerp[T], stops ...Stop[T]) Expression[T] {
	e := Expression[T]{kind: KindCamera, stops: sortStops(stops), lerp: lerp}
	if len(e.stops) > 0 {
		e.def = e.stops[0].Value
	}
	return e
}

// Composite returns an expression whose stops are evaluated per feature and
// then interpolated by zoom.
func Composite[T any](def T, lerp Lerp[T], stops ...Stop[T]) Expression[T] {
	return Expression[T]{kind: KindComposite, def: def, stops: sortStops(stops), lerp: lerp}
}

func sortStops[T any](stops []Stop[T]) []Stop[T] {
	out := append([]Stop[T](nil), stops...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Zoom < out[j].Zoom })
	return out
}

// Kind reports how the expression depends on zoom and feature data.
func (e Expression[T]) Kind() Kind { return e.kind }

// IsInterpolated reports whether zoom stops are interpolated rather than stepped.
func (e Expression[T]) IsInterpolated() bool { return e.lerp != nil }

// ZoomStops returns the zoom levels of camera and composite stops.
func (e Expression[T]) ZoomStops() []float64 {
	zooms := make([]float64, len(e.stops))
	for i, s := range e.stops {
		zooms[i] = s.Zoom
	}
	return zooms
}

// ConstantOr returns the constant value, or def for non-constant expressions.
func (e Expression[T]) ConstantOr(def T) T {
	if e.kind == KindConstant {
		return e.constant
	}
	return def
}

// Default returns the fallback value used when evaluation is undefined.
func (e Expression[T]) Default() T { return e.def }

// Evaluate computes the expression for the given zoom and feature. The
// boolean is false when a feature-dependent value is undefined.
func (e Expression[T]) Evaluate(zoom float64, f Feature) (T, bool) {
	switch e.kind {
	case KindSource:
		if e.eval == nil || f == nil {
			return e.def, false
		}
		return e.eval(f)
	case KindCamera:
		return e.interpolate(zoom, nil)
	case KindComposite:
		return e.interpolate(zoom, f)
	default:
		return e.constant, true
	}
}

// Value evaluates the expression and substitutes the default when the
// result is undefined.
func (e Expression[T]) Value(zoom float64, f Feature) T {
	v, ok := e.Evaluate(zoom, f)
	if !ok {
		return e.def
	}
	return v
}

// PossiblyEvaluate fixes the zoom of the expression. Constant and camera
// expressions become constants; the rest keep their feature dependency.
func (e Expression[T]) PossiblyEvaluate(zoom float64) PossiblyEvaluated[T] {
	p := PossiblyEvaluated[T]{expr: e, zoom: zoom}
	if e.kind == KindConstant || e.kind == KindCamera {
		v, ok := e.Evaluate(zoom, nil)
		p.constant = true
		p.value = v
		p.defined = ok
	}
	return p
}

func (e Expression[T]) interpolate(zoom float64, f Feature) (T, bool) {
	if len(e.stops) == 0 {
		return e.def, false
	}
	stopValue := func(s Stop[T]) (T, bool) {
		if s.Eval != nil {
			if f == nil {
				return e.def, false
			}
			return s.Eval(f)
		}
		return s.Value, true
	}

	idx := sort.Search(len(e.stops), func(i int) bool { return e.stops[i].Zoom > zoom })
	switch {
	case idx == 0:
		return stopValue(e.stops[0])
	case idx == len(e.stops) || e.lerp == nil:
		return stopValue(e.stops[idx-1])
	}

	lower, upper := e.stops[idx-1], e.stops[idx]
	a, ok := stopValue(lower)
	if !ok {
		return e.def, false
	}
	b, ok := stopValue(upper)
	if !ok {
		return e.def, false
	}
	t := (zoom - lower.Zoom) / (upper.Zoom - lower.Zoom)
	return e.lerp(a, b, math.Max(0, math.Min(1, t))), true
}

// PossiblyEvaluated is an expression with its zoom fixed. It is what
// per-feature code evaluates against.
type PossiblyEvaluated[T any] struct {
	expr     Expression[T]
	zoom     float64
	constant bool
	defined  bool
	value    T
}

// Zoom returns the zoom the value was fixed at.
func (p PossiblyEvaluated[T]) Zoom() float64 { return p.zoom }

// IsConstant reports whether the value no longer depends on the feature.
func (p PossiblyEvaluated[T]) IsConstant() bool { return p.constant }

// ConstantOr returns the constant value, or def when feature dependent.
func (p PossiblyEvaluated[T]) ConstantOr(def T) T {
	if p.constant {
		return p.value
	}
	return def
}

// Evaluate computes the value for a feature. The boolean is false when the
// result is undefined.
func (p PossiblyEvaluated[T]) Evaluate(f Feature) (T, bool) {
	if p.constant {
		return p.value, p.defined
	}
	return p.expr.Evaluate(p.zoom, f)
}

// Value is Evaluate with the expression default substituted for undefined results.
func (p PossiblyEvaluated[T]) Value(f Feature) T {
	v, ok := p.Evaluate(f)
	if !ok {
		return p.expr.def
	}
	return v
}

// LerpNumber linearly interpolates numbers.
func LerpNumber(a, b, t float64) float64 { return a + (b-a)*t }

// LerpPair linearly interpolates two-component values such as offsets.
func LerpPair(a, b [2]float64, t float64) [2]float64 {
	return [2]float64{LerpNumber(a[0], b[0], t), LerpNumber(a[1], b[1], t)}
}
