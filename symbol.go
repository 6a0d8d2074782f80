package maplabel

import (
	"hash/fnv"
	"math"

	"github.com/gogpu/maplabel/anchor"
	"github.com/gogpu/maplabel/collision"
	"github.com/gogpu/maplabel/quad"
	"github.com/gogpu/maplabel/style"
	"github.com/gogpu/maplabel/text"
	"github.com/paulmach/orb"
)

// placementStrategy is how anchors are generated for a feature.
type placementStrategy uint8

const (
	// placeAlongLine repeats anchors along clipped lines.
	placeAlongLine placementStrategy = iota
	// placeLineCenter places one anchor at the middle of each line.
	placeLineCenter
	// placePolygon places one anchor at the pole of inaccessibility of
	// each polygon.
	placePolygon
	// placeLineStart places one anchor at the first vertex of each line.
	placeLineStart
	// placePoints places one anchor on every point.
	placePoints
	placeNone
)

func strategyFor(p style.SymbolPlacement, t GeometryType) placementStrategy {
	switch {
	case p == style.PlacementLine:
		return placeAlongLine
	case p == style.PlacementLineCenter:
		return placeLineCenter
	case t == GeometryPolygon:
		return placePolygon
	case t == GeometryLineString:
		return placeLineStart
	case t == GeometryPoint:
		return placePoints
	default:
		return placeNone
	}
}

// glyphSize is the size glyph metrics are expressed in.
const glyphSize = text.OneEm

// symbolParams are the per-feature values shared by all anchors of a feature.
type symbolParams struct {
	feature      *Feature
	orientations text.Orientations
	icon         *text.PositionedIcon

	textBoxScale float64
	textPadding  float64
	textOffset   [2]float64
	iconBoxScale float64
	iconPadding  float64
	iconOffset   [2]float64
}

// addFeature generates the anchors of f and adds a symbol instance at each
// anchor inside the tile.
func (l *layoutPass) addFeature(f *Feature, orientations text.Orientations, icon *text.PositionedIcon) {
	b := l.bucket
	ratio := b.tilePixelRatio

	layoutTextSize := l.sizes.LayoutTextSize.Value(f)
	layoutIconSize := l.sizes.LayoutIconSize.Value(f)
	textMaxSize := l.sizes.textMaxSize(f, layoutTextSize)

	p := symbolParams{
		feature:      f,
		orientations: orientations,
		icon:         icon,
		textBoxScale: ratio * layoutTextSize / glyphSize,
		textPadding:  l.layout.TextPadding.Value(l.zoom, f) * ratio,
		textOffset:   l.textOffset(f),
		iconBoxScale: ratio * layoutIconSize,
		iconPadding:  l.layout.IconPadding.Value(l.zoom, f) * ratio,
		iconOffset:   l.layout.IconOffset.Value(l.zoom, f),
	}

	symbolMinDistance := ratio * l.layout.SymbolSpacing.Value(l.zoom, f)
	textRepeatDistance := symbolMinDistance / 2

	fit := orientations.Vertical
	if fit == nil {
		fit = orientations.Horizontal
	}
	lineParams := anchor.LineParams{
		Spacing:     symbolMinDistance,
		MaxAngle:    l.layout.TextMaxAngle.Value(l.zoom, f) * math.Pi / 180,
		Text:        fit,
		Icon:        icon,
		GlyphSize:   glyphSize,
		BoxScale:    ratio * textMaxSize / glyphSize,
		Overscaling: b.params.Overscaling,
		Extent:      Extent,
	}

	addAt := func(line orb.LineString, a anchor.Anchor) {
		// Symbols are drawn across tile edges; those outside this tile
		// belong to a neighbour.
		if !a.InTile(Extent) {
			return
		}
		l.addSymbol(a, line, &p)
	}

	switch strategyFor(l.placement, f.Type) {
	case placeAlongLine:
		for _, line := range anchor.ClipLines(f.Geometry, Extent) {
			for _, a := range anchor.Anchors(line, lineParams) {
				h := orientations.Horizontal
				if h == nil || !l.anchorIsTooClose(h.Text, textRepeatDistance, a) {
					addAt(line, a)
				}
			}
		}
	case placeLineCenter:
		for _, line := range f.Geometry {
			if len(line) < 2 {
				continue
			}
			if a, ok := anchor.CenterAnchor(line, lineParams); ok {
				addAt(line, a)
			}
		}
	case placePolygon:
		for _, polygon := range anchor.ClassifyRings(rings(f.Geometry), 0) {
			addAt(orb.LineString(polygon[0]), anchor.PoleOfInaccessibility(polygon))
		}
	case placeLineStart:
		for _, line := range f.Geometry {
			if len(line) > 0 {
				addAt(line, anchor.At(line[0]))
			}
		}
	case placePoints:
		for _, points := range f.Geometry {
			for _, pt := range points {
				addAt(orb.LineString{pt}, anchor.At(pt))
			}
		}
	}
}

func rings(lines []orb.LineString) []orb.Ring {
	out := make([]orb.Ring, len(lines))
	for i, line := range lines {
		out[i] = orb.Ring(line)
	}
	return out
}

// addSymbol builds the collision features and vertices of one anchor and
// records the symbol instance.
func (l *layoutPass) addSymbol(a anchor.Anchor, line orb.LineString, p *symbolParams) {
	b := l.bucket
	f := p.feature
	lineStart, lineLength := b.addToLineVertexArray(a, line)

	inst := SymbolInstance{
		Key:              textKey(p.orientations.Horizontal),
		Anchor:           a,
		FeatureIndex:     f.Index,
		SourceLayerIndex: f.SourceLayerIndex,
	}

	inst.TextBoxes = collision.Range{Start: b.boxes.Len(), End: b.boxes.Len()}
	if h := p.orientations.Horizontal; h != nil {
		// One collision feature covers both orientations, which have
		// similar dimensions.
		cf := collision.NewFeature(b.boxes, collision.TextShape(h), collision.FeatureParams{
			Line:             line,
			Anchor:           a,
			FeatureIndex:     f.Index,
			SourceLayerIndex: f.SourceLayerIndex,
			BucketIndex:      b.params.Index,
			BoxScale:         p.textBoxScale,
			Padding:          p.textPadding,
			AlignLine:        l.textAlongLine,
			Overscaling:      b.params.Overscaling,
			Rotate:           l.layout.TextRotate.Value(l.zoom, f),
		})
		inst.TextBoxes = cf.Boxes

		mode := text.HorizontalOnly
		if p.orientations.Vertical != nil {
			mode = text.Horizontal
		}
		inst.NumGlyphVertices = l.addTextVertices(a, h, p, mode, lineStart, lineLength, &inst)
		if v := p.orientations.Vertical; v != nil {
			inst.NumVerticalGlyphVertices = l.addTextVertices(a, v, p, text.Vertical, lineStart, lineLength, &inst)
		}
	}

	inst.IconBoxes = collision.Range{Start: b.boxes.Len(), End: b.boxes.Len()}
	if icon := p.icon; icon != nil {
		quads := l.opts.quads.IconQuads(a, icon, p.orientations.Horizontal, quad.IconOptions{
			Rotate:         l.layout.IconRotate.Value(l.zoom, f),
			TextFit:        l.layout.IconTextFit.Value(l.zoom, f),
			TextFitPadding: l.layout.IconTextFitPadding.Value(l.zoom, f),
			TextSize:       l.layout.TextSize.Value(l.zoom, f),
			AlongLine:      l.iconAlongLine,
		})
		// Icon boxes never follow the line, even for icons drawn along it.
		cf := collision.NewFeature(b.boxes, collision.IconShape(icon), collision.FeatureParams{
			Line:             line,
			Anchor:           a,
			FeatureIndex:     f.Index,
			SourceLayerIndex: f.SourceLayerIndex,
			BucketIndex:      b.params.Index,
			BoxScale:         p.iconBoxScale,
			Padding:          p.iconPadding,
			Overscaling:      b.params.Overscaling,
			Rotate:           l.layout.IconRotate.Value(l.zoom, f),
		})
		inst.IconBoxes = cf.Boxes
		inst.NumIconVertices = len(quads) * 4

		size, overflow := packSizes(b.iconSizeData, l.iconSize, l.sizes.CompositeIconSizes, f)
		if overflow {
			l.warn(WarnIconSizeRange, `value for "icon-size" is >= 256; reduce "icon-size"`)
		}
		b.addSymbols(&b.icon, quads, size, p.iconOffset, 0, a, lineStart, lineLength)
	}

	if len(b.glyphOffsets) >= MaxGlyphs {
		l.warnOnce(WarnTooManyGlyphs, "too many glyphs being rendered in a tile")
	}

	b.instances = append(b.instances, inst)
}

// addTextVertices writes the glyph quads of one text orientation and
// returns the number of vertices written.
func (l *layoutPass) addTextVertices(a anchor.Anchor, s *text.Shaping, p *symbolParams, mode text.WritingMode,
	lineStart, lineLength int, inst *SymbolInstance) int {
	b := l.bucket
	f := p.feature
	quads := l.opts.quads.GlyphQuads(a, s, quad.GlyphOptions{
		Rotate:    l.layout.TextRotate.Value(l.zoom, f),
		Offset:    l.layout.TextOffset.Value(l.zoom, f),
		AlongLine: l.textAlongLine,
	}, l.atlas.Glyphs)

	size, overflow := packSizes(b.textSizeData, l.textSize, l.sizes.CompositeTextSizes, f)
	if overflow {
		l.warn(WarnTextSizeRange, `value for "text-size" is >= 256; reduce "text-size"`)
	}
	b.addSymbols(&b.text, quads, size, p.textOffset, mode, a, lineStart, lineLength)
	inst.PlacedTextSymbolIndices = append(inst.PlacedTextSymbolIndices, len(b.text.PlacedSymbols)-1)
	l.glyphQuads += len(quads)
	return len(quads) * 4
}

// addSymbols appends four vertices and two triangles per quad to arrays,
// plus one placed symbol for the whole run.
func (b *Bucket) addSymbols(arrays *SymbolArrays, quads []quad.Quad, size packedSize, lineOffset [2]float64,
	mode text.WritingMode, a anchor.Anchor, lineStart, lineLength int) {
	segment := arrays.Segments.prepare(4*len(quads), len(arrays.Vertices), len(arrays.Triangles))
	glyphStart := len(b.glyphOffsets)
	vertexStart := segment.VertexLength

	ax, ay := toInt16(a.X), toInt16(a.Y)
	vertex := func(corner quad.Point, dy, tx, ty float64) SymbolVertex {
		return SymbolVertex{
			AnchorX: ax,
			AnchorY: ay,
			OffsetX: toInt16(corner.X * 32),
			OffsetY: toInt16((dy + corner.Y) * 32),
			TexX:    toUint16(tx),
			TexY:    toUint16(ty),
			Size:    size.values,
		}
	}
	dynamic := DynamicVertex{X: float32(a.X), Y: float32(a.Y)}

	for _, q := range quads {
		index := uint16(segment.VertexLength)
		y := q.GlyphOffset[1]
		tex := q.Tex
		arrays.Vertices = append(arrays.Vertices,
			vertex(q.TL, y, tex.X, tex.Y),
			vertex(q.TR, y, tex.X+tex.W, tex.Y),
			vertex(q.BL, y, tex.X, tex.Y+tex.H),
			vertex(q.BR, y, tex.X+tex.W, tex.Y+tex.H),
		)
		arrays.DynamicVertices = append(arrays.DynamicVertices, dynamic, dynamic, dynamic, dynamic)
		arrays.Triangles = append(arrays.Triangles,
			Triangle{index, index + 1, index + 2},
			Triangle{index + 1, index + 2, index + 3},
		)
		segment.VertexLength += 4
		segment.PrimitiveLength += 2
		b.glyphOffsets = append(b.glyphOffsets, float32(q.GlyphOffset[0]))
	}

	arrays.PlacedSymbols = append(arrays.PlacedSymbols, PlacedSymbol{
		AnchorX:          a.X,
		AnchorY:          a.Y,
		GlyphStart:       glyphStart,
		NumGlyphs:        len(b.glyphOffsets) - glyphStart,
		VertexStartIndex: vertexStart,
		LineStartIndex:   lineStart,
		LineLength:       lineLength,
		Segment:          a.Segment,
		LowerSize:        size.values[0],
		UpperSize:        size.values[1],
		LineOffset:       lineOffset,
		WritingMode:      mode,
	})
}

// addToLineVertexArray appends line with each vertex's distance from the
// anchor along the line, and returns the start index and vertex count.
// Anchors without a segment add nothing.
func (b *Bucket) addToLineVertexArray(a anchor.Anchor, line orb.LineString) (start, length int) {
	start = len(b.lineVertices)
	if !a.HasSegment() || a.Segment+1 >= len(line) {
		return start, 0
	}

	distances := make([]float64, len(line))
	p := a.Point()
	sum := planarDistance(p, line[a.Segment+1])
	for i := a.Segment + 1; i < len(line); i++ {
		distances[i] = sum
		if i < len(line)-1 {
			sum += planarDistance(line[i+1], line[i])
		}
	}
	sum = planarDistance(p, line[a.Segment])
	for i := a.Segment; i >= 0; i-- {
		distances[i] = sum
		if i > 0 {
			sum += planarDistance(line[i-1], line[i])
		}
	}

	for i, pt := range line {
		b.lineVertices = append(b.lineVertices, LineVertex{
			X:                          toInt16(pt[0]),
			Y:                          toInt16(pt[1]),
			TileUnitDistanceFromAnchor: distances[i],
		})
	}
	return start, len(line)
}

func planarDistance(p, q orb.Point) float64 {
	return math.Hypot(p[0]-q[0], p[1]-q[1])
}

// textKey hashes the horizontal label text; an absent text hashes as "".
func textKey(s *text.Shaping) uint32 {
	h := fnv.New32a()
	if s != nil {
		h.Write([]byte(s.Text))
	}
	return h.Sum32()
}
