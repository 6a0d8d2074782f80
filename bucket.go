package maplabel

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/maplabel/anchor"
	"github.com/gogpu/maplabel/collision"
	"github.com/gogpu/maplabel/style"
	"github.com/gogpu/maplabel/text"
)

// Extent is the size of a tile in tile units.
const Extent = 8192

// tileSize is the size of a tile in CSS pixels at overscaling 1.
const tileSize = 512

// MaxGlyphs is the number of glyphs a bucket holds before layout warns.
const MaxGlyphs = 65535

// BucketParams identifies a tile layer bucket.
type BucketParams struct {
	// Zoom is the tile zoom level.
	Zoom float64

	// Overscaling is the ratio of the displayed to the source tile size.
	// Zero means 1.
	Overscaling float64

	// PixelRatio is the device pixel ratio icons are expected at. Zero
	// means 1.
	PixelRatio float64

	// Index is the bucket index stored in collision boxes.
	Index int
}

func (p *BucketParams) validate() error {
	if p.Overscaling == 0 {
		p.Overscaling = 1
	}
	if p.PixelRatio == 0 {
		p.PixelRatio = 1
	}
	switch {
	case p.Zoom < 0 || math.IsNaN(p.Zoom) || math.IsInf(p.Zoom, 0):
		return fmt.Errorf("%w: %v", ErrInvalidZoom, p.Zoom)
	case p.Overscaling < 1 || math.IsInf(p.Overscaling, 0):
		return fmt.Errorf("%w: %v", ErrInvalidOverscaling, p.Overscaling)
	case !(p.PixelRatio > 0) || math.IsInf(p.PixelRatio, 0):
		return fmt.Errorf("%w: %v", ErrInvalidPixelRatio, p.PixelRatio)
	}
	return nil
}

// SymbolInstance is one placement candidate of a feature label.
type SymbolInstance struct {
	// Key is a hash of the horizontal label text, for repeat suppression
	// across placement passes.
	Key uint32

	// TextBoxes and IconBoxes index the bucket collision boxes. An empty
	// range means the part has no collision geometry.
	TextBoxes collision.Range
	IconBoxes collision.Range

	Anchor           anchor.Anchor
	FeatureIndex     int
	SourceLayerIndex int

	NumGlyphVertices         int
	NumVerticalGlyphVertices int
	NumIconVertices          int

	// PlacedTextSymbolIndices index the text placed symbol array, one per
	// text orientation.
	PlacedTextSymbolIndices []int

	// CrossTileID is assigned by cross-tile matching; zero until then.
	CrossTileID uint32
}

// Bucket holds the symbol layout output of one style layer in one tile.
// A bucket is owned by a single layout pass at a time.
type Bucket struct {
	params BucketParams
	layer  *style.Layer

	tilePixelRatio float64
	textSizeData   SizeData
	iconSizeData   SizeData

	features []Feature

	text         SymbolArrays
	icon         SymbolArrays
	glyphOffsets []float32
	lineVertices []LineVertex
	boxes        *collision.BoxArray
	instances    []SymbolInstance

	sdfIcons        bool
	iconsNeedLinear bool

	textCollisionBox *CollisionDebugBuffers
	iconCollisionBox *CollisionDebugBuffers

	collisionCircles  []CollisionCircle
	placementInvProj  Mat4
	placementViewport Mat4
}

// NewBucket returns an empty bucket for layer at params.
func NewBucket(params BucketParams, layer *style.Layer) (*Bucket, error) {
	if layer == nil {
		return nil, ErrNilLayer
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Bucket{
		params:            params,
		layer:             layer,
		tilePixelRatio:    Extent / (tileSize * params.Overscaling),
		textSizeData:      NewSizeData(params.Zoom, layer.Layout.TextSize),
		iconSizeData:      NewSizeData(params.Zoom, layer.Layout.IconSize),
		boxes:             collision.NewBoxArray(),
		placementInvProj:  Identity4(),
		placementViewport: Identity4(),
	}, nil
}

// Populate replaces the bucket features with those of features that carry
// text or an icon under the layer style. Text fields are resolved against
// feature properties and text-transform is applied.
func (b *Bucket) Populate(features []SourceFeature) {
	b.features = b.features[:0]
	layout := &b.layer.Layout
	z := b.params.Zoom

	for i := range features {
		sf := &features[i]
		var label *text.Formatted
		if s := style.ResolveTokens(layout.TextField.Value(z, sf), sf); s != "" {
			label = text.NewFormatted(s).Transform(layout.TextTransform.Value(z, sf))
		}
		icon := style.ResolveTokens(layout.IconImage.Value(z, sf), sf)
		if label == nil && icon == "" {
			continue
		}
		geometry, typ := flattenGeometry(sf.Geometry)
		if typ == GeometryUnknown {
			continue
		}
		b.features = append(b.features, Feature{
			Text:             label,
			Icon:             icon,
			Geometry:         geometry,
			Type:             typ,
			Index:            sf.Index,
			SourceLayerIndex: sf.SourceLayerIndex,
			Properties:       sf.Properties,
		})
	}
}

// AddFeature appends a prepared feature, such as one with multi-section
// formatted text.
func (b *Bucket) AddFeature(f Feature) {
	b.features = append(b.features, f)
}

// Features returns the features the next layout pass will lay out.
func (b *Bucket) Features() []Feature { return b.features }

// Params returns the bucket parameters with defaults applied.
func (b *Bucket) Params() BucketParams { return b.params }

// Layer returns the style layer of the bucket.
func (b *Bucket) Layer() *style.Layer { return b.layer }

// LayerID returns the style layer id.
func (b *Bucket) LayerID() string { return b.layer.ID }

// TilePixelRatio returns the number of tile units per CSS pixel.
func (b *Bucket) TilePixelRatio() float64 { return b.tilePixelRatio }

// TextSizeData describes how text size is stored in the text vertices.
func (b *Bucket) TextSizeData() SizeData { return b.textSizeData }

// IconSizeData describes how icon size is stored in the icon vertices.
func (b *Bucket) IconSizeData() SizeData { return b.iconSizeData }

// Text returns the glyph vertex arrays.
func (b *Bucket) Text() *SymbolArrays { return &b.text }

// Icon returns the icon vertex arrays.
func (b *Bucket) Icon() *SymbolArrays { return &b.icon }

// GlyphOffsets returns the along-line x offset of every glyph quad.
func (b *Bucket) GlyphOffsets() []float32 { return b.glyphOffsets }

// LineVertices returns the lines labels were anchored on.
func (b *Bucket) LineVertices() []LineVertex { return b.lineVertices }

// SymbolInstances returns a copy of the placement candidates in layout order.
func (b *Bucket) SymbolInstances() []SymbolInstance {
	return append([]SymbolInstance(nil), b.instances...)
}

// CollisionBoxes returns a copy of all collision boxes and circles.
func (b *Bucket) CollisionBoxes() []collision.Box {
	return b.boxes.Boxes(collision.Range{End: b.boxes.Len()})
}

// CollisionBoxRange returns a copy of the collision boxes in r.
func (b *Bucket) CollisionBoxRange(r collision.Range) []collision.Box {
	return b.boxes.Boxes(r)
}

// SDFIcons reports whether the bucket icons are signed distance fields.
func (b *Bucket) SDFIcons() bool { return b.sdfIcons }

// IconsNeedLinear reports whether icons must be sampled with linear
// filtering because they are rotated or not at the bucket pixel ratio.
func (b *Bucket) IconsNeedLinear() bool { return b.iconsNeedLinear }

// reset clears the layout output so a layout pass starts from scratch.
func (b *Bucket) reset() {
	b.text = SymbolArrays{}
	b.icon = SymbolArrays{}
	b.glyphOffsets = nil
	b.lineVertices = nil
	b.boxes.Reset()
	b.instances = nil
	b.sdfIcons = false
	b.iconsNeedLinear = false
	b.textCollisionBox = nil
	b.iconCollisionBox = nil
}

// fontStack joins the text-font of f into an atlas font stack key.
func (b *Bucket) fontStack(f style.Feature) string {
	return strings.Join(b.layer.Layout.TextFont.Value(b.params.Zoom, f), ",")
}
