package style

// SymbolPlacement selects how anchors are generated for a feature.
type SymbolPlacement string

// Symbol placement modes.
const (
	PlacementPoint      SymbolPlacement = "point"
	PlacementLine       SymbolPlacement = "line"
	PlacementLineCenter SymbolPlacement = "line-center"
)

// Alignment is a rotation alignment for text or icons.
type Alignment string

// Rotation alignments.
const (
	AlignmentMap      Alignment = "map"
	AlignmentViewport Alignment = "viewport"
	AlignmentAuto     Alignment = "auto"
)

// Anchor is the part of a label placed closest to the anchor point.
type Anchor string

// Label anchors.
const (
	AnchorCenter      Anchor = "center"
	AnchorLeft        Anchor = "left"
	AnchorRight       Anchor = "right"
	AnchorTop         Anchor = "top"
	AnchorBottom      Anchor = "bottom"
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

// Alignment returns the horizontal and vertical alignment factors of the
// anchor: 0 aligns the left/top edge, 1 the right/bottom edge.
func (a Anchor) Alignment() (horizontal, vertical float64) {
	horizontal, vertical = 0.5, 0.5
	switch a {
	case AnchorRight, AnchorTopRight, AnchorBottomRight:
		horizontal = 1
	case AnchorLeft, AnchorTopLeft, AnchorBottomLeft:
		horizontal = 0
	}
	switch a {
	case AnchorBottom, AnchorBottomRight, AnchorBottomLeft:
		vertical = 1
	case AnchorTop, AnchorTopRight, AnchorTopLeft:
		vertical = 0
	}
	return horizontal, vertical
}

// Justify is the alignment of lines within multi-line text.
type Justify string

// Text justifications.
const (
	JustifyLeft   Justify = "left"
	JustifyCenter Justify = "center"
	JustifyRight  Justify = "right"
)

// Factor returns 0 for left, 0.5 for center and 1 for right justification.
func (j Justify) Factor() float64 {
	switch j {
	case JustifyRight:
		return 1
	case JustifyLeft:
		return 0
	default:
		return 0.5
	}
}

// TextTransform changes the case of label text.
type TextTransform string

// Text transforms.
const (
	TransformNone      TextTransform = "none"
	TransformUppercase TextTransform = "uppercase"
	TransformLowercase TextTransform = "lowercase"
)

// IconTextFit scales an icon to fit its text.
type IconTextFit string

// Icon text fit modes.
const (
	FitNone   IconTextFit = "none"
	FitWidth  IconTextFit = "width"
	FitHeight IconTextFit = "height"
	FitBoth   IconTextFit = "both"
)

// TranslateAnchor is the frame of reference for a paint translation.
type TranslateAnchor string

// Translate anchors.
const (
	TranslateMap      TranslateAnchor = "map"
	TranslateViewport TranslateAnchor = "viewport"
)

// Layout holds the symbol layout properties of a layer.
type Layout struct {
	SymbolPlacement Expression[SymbolPlacement]
	SymbolSpacing   Expression[float64]

	IconImage             Expression[string]
	IconRotationAlignment Expression[Alignment]
	IconSize              Expression[float64]
	IconTextFit           Expression[IconTextFit]
	IconTextFitPadding    Expression[[4]float64]
	IconRotate            Expression[float64]
	IconPadding           Expression[float64]
	IconOffset            Expression[[2]float64]
	IconAnchor            Expression[Anchor]

	TextRotationAlignment Expression[Alignment]
	TextField             Expression[string]
	TextFont              Expression[[]string]
	TextSize              Expression[float64]
	TextMaxWidth          Expression[float64]
	TextLineHeight        Expression[float64]
	TextLetterSpacing     Expression[float64]
	TextJustify           Expression[Justify]
	TextAnchor            Expression[Anchor]
	TextMaxAngle          Expression[float64]
	TextRotate            Expression[float64]
	TextPadding           Expression[float64]
	TextKeepUpright       Expression[bool]
	TextTransform         Expression[TextTransform]
	TextOffset            Expression[[2]float64]
}

// DefaultLayout returns the layout property defaults.
func DefaultLayout() Layout {
	return Layout{
		SymbolPlacement: Constant(PlacementPoint),
		SymbolSpacing:   Constant(250.0),

		IconImage:             Constant(""),
		IconRotationAlignment: Constant(AlignmentAuto),
		IconSize:              Constant(1.0),
		IconTextFit:           Constant(FitNone),
		IconTextFitPadding:    Constant([4]float64{}),
		IconRotate:            Constant(0.0),
		IconPadding:           Constant(2.0),
		IconOffset:            Constant([2]float64{}),
		IconAnchor:            Constant(AnchorCenter),

		TextRotationAlignment: Constant(AlignmentAuto),
		TextField:             Constant(""),
		TextFont:              Constant([]string{"Open Sans Regular", "Arial Unicode MS Regular"}),
		TextSize:              Constant(16.0),
		TextMaxWidth:          Constant(10.0),
		TextLineHeight:        Constant(1.2),
		TextLetterSpacing:     Constant(0.0),
		TextJustify:           Constant(JustifyCenter),
		TextAnchor:            Constant(AnchorCenter),
		TextMaxAngle:          Constant(45.0),
		TextRotate:            Constant(0.0),
		TextPadding:           Constant(2.0),
		TextKeepUpright:       Constant(true),
		TextTransform:         Constant(TransformNone),
		TextOffset:            Constant([2]float64{}),
	}
}

// Placement returns the constant symbol placement of the layer.
func (l *Layout) Placement() SymbolPlacement {
	return l.SymbolPlacement.ConstantOr(PlacementPoint)
}

// TextAlongLine reports whether text follows the line geometry.
func (l *Layout) TextAlongLine() bool {
	return l.resolveAlignment(l.TextRotationAlignment) == AlignmentMap && l.Placement() != PlacementPoint
}

// IconAlongLine reports whether icons follow the line geometry.
func (l *Layout) IconAlongLine() bool {
	return l.resolveAlignment(l.IconRotationAlignment) == AlignmentMap && l.Placement() != PlacementPoint
}

// resolveAlignment maps "auto" to map alignment for line placements and to
// viewport alignment otherwise.
func (l *Layout) resolveAlignment(e Expression[Alignment]) Alignment {
	a := e.ConstantOr(AlignmentAuto)
	if a != AlignmentAuto {
		return a
	}
	if l.Placement() != PlacementPoint {
		return AlignmentMap
	}
	return AlignmentViewport
}

// Paint holds the symbol paint properties used by layout consumers.
type Paint struct {
	TextTranslate       [2]float64
	TextTranslateAnchor TranslateAnchor
	IconTranslate       [2]float64
	IconTranslateAnchor TranslateAnchor
}

// Layer is a symbol style layer.
type Layer struct {
	ID          string
	SourceLayer string
	MinZoom     float64
	MaxZoom     float64
	Layout      Layout
	Paint       Paint
}

// NewLayer returns a layer with default layout and paint properties.
func NewLayer(id string) *Layer {
	return &Layer{
		ID:      id,
		MaxZoom: 24,
		Layout:  DefaultLayout(),
		Paint: Paint{
			TextTranslateAnchor: TranslateMap,
			IconTranslateAnchor: TranslateMap,
		},
	}
}
