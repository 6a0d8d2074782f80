package style

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Style loading errors.
var (
	// ErrMissingID is returned when a layer has no id.
	ErrMissingID = errors.New("style: layer id is required")

	// ErrUnknownProperty is returned for layout or paint keys that are not symbol properties.
	ErrUnknownProperty = errors.New("style: unknown property")

	// ErrInvalidValue is returned when a property value has the wrong shape.
	ErrInvalidValue = errors.New("style: invalid property value")
)

// layerFile is the YAML representation of a symbol layer.
type layerFile struct {
	ID          string    `yaml:"id"`
	SourceLayer string    `yaml:"source-layer"`
	MinZoom     *float64  `yaml:"minzoom"`
	MaxZoom     *float64  `yaml:"maxzoom"`
	Layout      yaml.Node `yaml:"layout"`
	Paint       yaml.Node `yaml:"paint"`
}

// numberCurve is the mapping form of a numeric property.
//
//	text-size: 16                                  # constant
//	text-size: {stops: [[10, 12], [16, 20]]}       # camera
//	text-size: {property: size, default: 14}       # source
//	text-size: {property: rank, stops: [[10, 1], [16, 2]]}  # composite, rank * stop
type numberCurve struct {
	Property string       `yaml:"property"`
	Default  *float64     `yaml:"default"`
	Stops    [][2]float64 `yaml:"stops"`
	Type     string       `yaml:"type"`
}

// stringSpec is the mapping form of a string property.
type stringSpec struct {
	Property string  `yaml:"property"`
	Default  *string `yaml:"default"`
}

// LoadLayer reads a symbol layer from YAML.
func LoadLayer(r io.Reader) (*Layer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("style: read layer: %w", err)
	}
	return ParseLayer(data)
}

// ParseLayer parses a symbol layer from YAML bytes.
func ParseLayer(data []byte) (*Layer, error) {
	var lf layerFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("style: parse layer: %w", err)
	}
	if lf.ID == "" {
		return nil, ErrMissingID
	}

	layer := NewLayer(lf.ID)
	layer.SourceLayer = lf.SourceLayer
	if lf.MinZoom != nil {
		layer.MinZoom = *lf.MinZoom
	}
	if lf.MaxZoom != nil {
		layer.MaxZoom = *lf.MaxZoom
	}

	if err := eachProperty(&lf.Layout, func(key string, value *yaml.Node) error {
		decode, ok := layoutDecoders[key]
		if !ok {
			return ErrUnknownProperty
		}
		return decode(&layer.Layout, value)
	}); err != nil {
		return nil, fmt.Errorf("style: layer %q layout: %w", lf.ID, err)
	}

	if err := eachProperty(&lf.Paint, func(key string, value *yaml.Node) error {
		decode, ok := paintDecoders[key]
		if !ok {
			return ErrUnknownProperty
		}
		return decode(&layer.Paint, value)
	}); err != nil {
		return nil, fmt.Errorf("style: layer %q paint: %w", lf.ID, err)
	}

	return layer, nil
}

// eachProperty walks a YAML mapping in document order.
func eachProperty(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if n.Kind == 0 {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return ErrInvalidValue
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if err := fn(key, n.Content[i+1]); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

type layoutDecoder func(l *Layout, n *yaml.Node) error

var layoutDecoders = map[string]layoutDecoder{
	"symbol-placement": enumInto(func(l *Layout) *Expression[SymbolPlacement] { return &l.SymbolPlacement },
		PlacementPoint, PlacementLine, PlacementLineCenter),
	"symbol-spacing": numberInto(func(l *Layout) *Expression[float64] { return &l.SymbolSpacing }),

	"icon-image": stringInto(func(l *Layout) *Expression[string] { return &l.IconImage }),
	"icon-rotation-alignment": enumInto(func(l *Layout) *Expression[Alignment] { return &l.IconRotationAlignment },
		AlignmentMap, AlignmentViewport, AlignmentAuto),
	"icon-size": numberInto(func(l *Layout) *Expression[float64] { return &l.IconSize }),
	"icon-text-fit": enumInto(func(l *Layout) *Expression[IconTextFit] { return &l.IconTextFit },
		FitNone, FitWidth, FitHeight, FitBoth),
	"icon-text-fit-padding": constantInto(func(l *Layout) *Expression[[4]float64] { return &l.IconTextFitPadding }),
	"icon-rotate":           numberInto(func(l *Layout) *Expression[float64] { return &l.IconRotate }),
	"icon-padding":          numberInto(func(l *Layout) *Expression[float64] { return &l.IconPadding }),
	"icon-offset":           constantInto(func(l *Layout) *Expression[[2]float64] { return &l.IconOffset }),
	"icon-anchor": enumInto(func(l *Layout) *Expression[Anchor] { return &l.IconAnchor },
		AnchorCenter, AnchorLeft, AnchorRight, AnchorTop, AnchorBottom,
		AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight),

	"text-rotation-alignment": enumInto(func(l *Layout) *Expression[Alignment] { return &l.TextRotationAlignment },
		AlignmentMap, AlignmentViewport, AlignmentAuto),
	"text-field":          stringInto(func(l *Layout) *Expression[string] { return &l.TextField }),
	"text-font":           constantInto(func(l *Layout) *Expression[[]string] { return &l.TextFont }),
	"text-size":           numberInto(func(l *Layout) *Expression[float64] { return &l.TextSize }),
	"text-max-width":      numberInto(func(l *Layout) *Expression[float64] { return &l.TextMaxWidth }),
	"text-line-height":    numberInto(func(l *Layout) *Expression[float64] { return &l.TextLineHeight }),
	"text-letter-spacing": numberInto(func(l *Layout) *Expression[float64] { return &l.TextLetterSpacing }),
	"text-justify": enumInto(func(l *Layout) *Expression[Justify] { return &l.TextJustify },
		JustifyLeft, JustifyCenter, JustifyRight),
	"text-anchor": enumInto(func(l *Layout) *Expression[Anchor] { return &l.TextAnchor },
		AnchorCenter, AnchorLeft, AnchorRight, AnchorTop, AnchorBottom,
		AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight),
	"text-max-angle":    numberInto(func(l *Layout) *Expression[float64] { return &l.TextMaxAngle }),
	"text-rotate":       numberInto(func(l *Layout) *Expression[float64] { return &l.TextRotate }),
	"text-padding":      numberInto(func(l *Layout) *Expression[float64] { return &l.TextPadding }),
	"text-keep-upright": constantInto(func(l *Layout) *Expression[bool] { return &l.TextKeepUpright }),
	"text-transform": enumInto(func(l *Layout) *Expression[TextTransform] { return &l.TextTransform },
		TransformNone, TransformUppercase, TransformLowercase),
	"text-offset": constantInto(func(l *Layout) *Expression[[2]float64] { return &l.TextOffset }),
}

type paintDecoder func(p *Paint, n *yaml.Node) error

var paintDecoders = map[string]paintDecoder{
	"text-translate": func(p *Paint, n *yaml.Node) error { return decodeInto(n, &p.TextTranslate) },
	"icon-translate": func(p *Paint, n *yaml.Node) error { return decodeInto(n, &p.IconTranslate) },
	"text-translate-anchor": func(p *Paint, n *yaml.Node) error {
		return decodeEnum(n, &p.TextTranslateAnchor, TranslateMap, TranslateViewport)
	},
	"icon-translate-anchor": func(p *Paint, n *yaml.Node) error {
		return decodeEnum(n, &p.IconTranslateAnchor, TranslateMap, TranslateViewport)
	},
}

func decodeInto(n *yaml.Node, dst any) error {
	if err := n.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return nil
}

func decodeEnum[T ~string](n *yaml.Node, dst *T, allowed ...T) error {
	var s string
	if n.Kind != yaml.ScalarNode {
		return ErrInvalidValue
	}
	if err := decodeInto(n, &s); err != nil {
		return err
	}
	for _, a := range allowed {
		if T(s) == a {
			*dst = a
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidValue, s)
}

func enumInto[T ~string](field func(*Layout) *Expression[T], allowed ...T) layoutDecoder {
	return func(l *Layout, n *yaml.Node) error {
		var v T
		if err := decodeEnum(n, &v, allowed...); err != nil {
			return err
		}
		*field(l) = Constant(v)
		return nil
	}
}

func constantInto[T any](field func(*Layout) *Expression[T]) layoutDecoder {
	return func(l *Layout, n *yaml.Node) error {
		var v T
		if err := decodeInto(n, &v); err != nil {
			return err
		}
		*field(l) = Constant(v)
		return nil
	}
}

func numberInto(field func(*Layout) *Expression[float64]) layoutDecoder {
	return func(l *Layout, n *yaml.Node) error {
		e, err := decodeNumber(n)
		if err != nil {
			return err
		}
		*field(l) = e
		return nil
	}
}

func stringInto(field func(*Layout) *Expression[string]) layoutDecoder {
	return func(l *Layout, n *yaml.Node) error {
		e, err := decodeString(n)
		if err != nil {
			return err
		}
		*field(l) = e
		return nil
	}
}

func decodeNumber(n *yaml.Node) (Expression[float64], error) {
	if n.Kind == yaml.ScalarNode {
		var v float64
		if err := decodeInto(n, &v); err != nil {
			return Expression[float64]{}, err
		}
		return Constant(v), nil
	}

	var curve numberCurve
	if err := decodeInto(n, &curve); err != nil {
		return Expression[float64]{}, err
	}
	var lerp Lerp[float64] = LerpNumber
	if curve.Type == "interval" {
		lerp = nil
	}

	switch {
	case curve.Property == "" && len(curve.Stops) > 0:
		stops := make([]Stop[float64], len(curve.Stops))
		for i, s := range curve.Stops {
			stops[i] = Stop[float64]{Zoom: s[0], Value: s[1]}
		}
		return Camera(lerp, stops...), nil

	case curve.Property != "" && len(curve.Stops) == 0:
		def := 0.0
		if curve.Default != nil {
			def = *curve.Default
		}
		return Source(def, withDefault(NumberProperty(curve.Property, 1), curve.Default)), nil

	case curve.Property != "":
		def := 0.0
		if curve.Default != nil {
			def = *curve.Default
		}
		stops := make([]Stop[float64], len(curve.Stops))
		for i, s := range curve.Stops {
			var stopDefault *float64
			if curve.Default != nil {
				d := *curve.Default * s[1]
				stopDefault = &d
			}
			stops[i] = Stop[float64]{
				Zoom:  s[0],
				Value: s[1],
				Eval:  withDefault(NumberProperty(curve.Property, s[1]), stopDefault),
			}
		}
		return Composite(def, lerp, stops...), nil

	default:
		return Expression[float64]{}, ErrInvalidValue
	}
}

func decodeString(n *yaml.Node) (Expression[string], error) {
	if n.Kind == yaml.ScalarNode {
		var s string
		if err := decodeInto(n, &s); err != nil {
			return Expression[string]{}, err
		}
		if !strings.Contains(s, "{") {
			return Constant(s), nil
		}
		return Source(s, Template(s)), nil
	}

	var curve stringSpec
	if err := decodeInto(n, &curve); err != nil {
		return Expression[string]{}, err
	}
	if curve.Property == "" {
		return Expression[string]{}, ErrInvalidValue
	}
	def := ""
	if curve.Default != nil {
		def = *curve.Default
	}
	return Source(def, withDefault(StringProperty(curve.Property), curve.Default)), nil
}

// withDefault makes fn defined everywhere when def is set.
func withDefault[T any](fn FeatureFunc[T], def *T) FeatureFunc[T] {
	if def == nil {
		return fn
	}
	return func(f Feature) (T, bool) {
		if v, ok := fn(f); ok {
			return v, true
		}
		return *def, true
	}
}
