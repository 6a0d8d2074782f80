package maplabel

import (
	"math"
	"time"

	"github.com/gogpu/maplabel/anchor"
	"github.com/gogpu/maplabel/style"
	"github.com/gogpu/maplabel/text"
)

// Atlas holds the glyph and icon atlases a layout pass reads from.
type Atlas struct {
	Glyphs text.GlyphAtlas
	Images text.ImageAtlas
}

// PerformLayout computes every placement candidate of the bucket features
// and writes their vertex, size and collision data into the bucket. Any
// previous layout output of the bucket is discarded first, so running it
// twice on the same input gives identical results.
//
// Non-fatal problems such as oversized text are logged and recorded in the
// Diagnostics passed with WithDiagnostics; layout continues past them.
func PerformLayout(b *Bucket, atlas Atlas, opts ...LayoutOption) error {
	if b == nil {
		return ErrNilBucket
	}
	o := defaultLayoutOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.shaper == nil {
		return ErrNilShaper
	}
	if o.quads == nil {
		return ErrNilQuadBuilder
	}

	start := time.Now()
	b.reset()
	l := newLayoutPass(b, atlas, o)
	for i := range b.features {
		l.layoutFeature(&b.features[i])
	}
	b.sdfIcons = l.icons.sdf
	b.iconsNeedLinear = l.icons.needsLinear

	if o.collisionDebug {
		b.GenerateCollisionDebugBuffers()
	}

	o.metrics.observeLayout(len(b.features), len(b.instances), l.glyphQuads, time.Since(start))
	Logger().Debug("maplabel: layout done",
		"layer", b.layer.ID,
		"zoom", b.params.Zoom,
		"features", len(b.features),
		"instances", len(b.instances),
		"boxes", b.boxes.Len(),
		"textSize", b.textSizeData.Function.String(),
		"iconSize", b.iconSizeData.Function.String())
	return nil
}

// layoutPass is the state of one PerformLayout call. Everything it
// accumulates is scoped to the bucket being laid out.
type layoutPass struct {
	bucket *Bucket
	atlas  Atlas
	opts   layoutOptions
	layout *style.Layout
	zoom   float64
	sizes  *Sizes

	// textSize and iconSize are fixed at the tile zoom; source sizes are
	// packed from them.
	textSize style.PossiblyEvaluated[float64]
	iconSize style.PossiblyEvaluated[float64]

	placement     style.SymbolPlacement
	lineHeight    float64
	textAlongLine bool
	iconAlongLine bool
	keepUpright   bool

	// compareText holds the anchors accepted so far per label text.
	compareText map[string][]anchor.Anchor

	icons      iconState
	warned     map[WarningKind]bool
	glyphQuads int
}

func newLayoutPass(b *Bucket, atlas Atlas, o layoutOptions) *layoutPass {
	layout := &b.layer.Layout
	z := b.params.Zoom
	return &layoutPass{
		bucket:        b,
		atlas:         atlas,
		opts:          o,
		layout:        layout,
		zoom:          z,
		sizes:         NewSizes(z, layout, b.textSizeData, b.iconSizeData),
		textSize:      layout.TextSize.PossiblyEvaluate(z),
		iconSize:      layout.IconSize.PossiblyEvaluate(z),
		placement:     layout.Placement(),
		lineHeight:    layout.TextLineHeight.Value(z, nil) * text.OneEm,
		textAlongLine: layout.TextAlongLine(),
		iconAlongLine: layout.IconAlongLine(),
		keepUpright:   layout.TextKeepUpright.Value(z, nil),
		compareText:   make(map[string][]anchor.Anchor),
		warned:        make(map[WarningKind]bool),
	}
}

// layoutFeature shapes the text and icon of f and adds its symbols.
// Features with neither a text shaping nor an icon in the atlas are skipped.
func (l *layoutPass) layoutFeature(f *Feature) {
	orientations := l.shapeText(f)

	var icon *text.PositionedIcon
	if f.Icon != "" {
		if img, ok := l.atlas.Images[f.Icon]; ok {
			shaped := text.ShapeIcon(img,
				l.layout.IconOffset.Value(l.zoom, f),
				l.layout.IconAnchor.Value(l.zoom, f))
			icon = &shaped

			var mixed bool
			l.icons, mixed = l.icons.observe(img, l.bucket.params.PixelRatio, l.layout.IconRotate)
			if mixed {
				l.warnOnce(WarnMixedSDFIcons, "cannot mix SDF and non-SDF icons in one bucket")
			}
		}
	}

	if orientations.Horizontal != nil || icon != nil {
		l.addFeature(f, orientations, icon)
	}
}

// shapeText shapes f horizontally and, for upright line labels in scripts
// that support it, vertically. A vertical shaping is only attempted when the
// horizontal one succeeded, since collision features and repeat suppression
// are keyed on the horizontal shaping.
func (l *layoutPass) shapeText(f *Feature) text.Orientations {
	var out text.Orientations
	if f.Text.IsEmpty() {
		return out
	}
	plain := f.Text.String()

	spacing := l.layout.TextLetterSpacing.Value(l.zoom, f) * text.OneEm
	if !text.AllowsLetterSpacing(plain) {
		spacing = 0
	}
	maxWidth := 0.0
	if l.placement == style.PlacementPoint {
		maxWidth = l.layout.TextMaxWidth.Value(l.zoom, f) * text.OneEm
	}

	opts := text.ShapeOptions{
		FontStack:   l.bucket.fontStack(f),
		MaxWidth:    maxWidth,
		LineHeight:  l.lineHeight,
		Anchor:      l.layout.TextAnchor.Value(l.zoom, f),
		Justify:     l.layout.TextJustify.Value(l.zoom, f),
		Spacing:     spacing,
		Translate:   l.textOffset(f),
		WritingMode: text.Horizontal,
	}
	if s, ok := l.opts.shaper.Shape(f.Text, opts, l.atlas.Glyphs); ok {
		out.Horizontal = s
	}
	if out.Horizontal != nil && text.AllowsVerticalWritingMode(plain) && l.textAlongLine && l.keepUpright {
		opts.WritingMode = text.Vertical
		if s, ok := l.opts.shaper.Shape(f.Text, opts, l.atlas.Glyphs); ok {
			out.Vertical = s
		}
	}
	return out
}

// textOffset returns text-offset of f in shaping units.
func (l *layoutPass) textOffset(f *Feature) [2]float64 {
	off := l.layout.TextOffset.Value(l.zoom, f)
	return [2]float64{off[0] * text.OneEm, off[1] * text.OneEm}
}

// anchorIsTooClose reports whether an anchor with the same text was
// accepted within repeatDistance of a. Accepted anchors are remembered;
// the first anchor of a text always wins.
func (l *layoutPass) anchorIsTooClose(label string, repeatDistance float64, a anchor.Anchor) bool {
	others := l.compareText[label]
	for k := len(others) - 1; k >= 0; k-- {
		if math.Hypot(a.X-others[k].X, a.Y-others[k].Y) < repeatDistance {
			return true
		}
	}
	l.compareText[label] = append(others, a)
	return false
}

func (l *layoutPass) warn(kind WarningKind, msg string) {
	w := Warning{Kind: kind, Layer: l.bucket.layer.ID, Message: msg}
	Logger().Warn("maplabel: "+msg, "layer", w.Layer, "kind", kind.String())
	if l.opts.diag != nil {
		l.opts.diag.record(w)
	}
	l.opts.metrics.warning(kind)
}

func (l *layoutPass) warnOnce(kind WarningKind, msg string) {
	if l.warned[kind] {
		return
	}
	l.warned[kind] = true
	l.warn(kind, msg)
}

// iconState accumulates the icon properties of a bucket over a layout pass.
type iconState struct {
	sdfKnown    bool
	sdf         bool
	needsLinear bool
}

// observe folds one icon image into s. mixed reports an SDF icon after a
// non-SDF one or the reverse; the first kind seen is kept.
func (s iconState) observe(img text.ImagePosition, pixelRatio float64, rotate style.Expression[float64]) (next iconState, mixed bool) {
	if !s.sdfKnown {
		s.sdfKnown, s.sdf = true, img.SDF
	} else if s.sdf != img.SDF {
		mixed = true
	}
	ratio := img.PixelRatio
	if ratio == 0 {
		ratio = 1
	}
	if ratio != pixelRatio || rotate.ConstantOr(1) != 0 {
		s.needsLinear = true
	}
	return s, mixed
}
