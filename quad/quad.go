// Package quad turns shaped glyphs and icons into textured quads positioned
// around a label anchor.
package quad

import (
	"math"

	"github.com/gogpu/maplabel/anchor"
	"github.com/gogpu/maplabel/style"
	"github.com/gogpu/maplabel/text"
)

// rectBuffer is the border baked around every glyph bitmap plus one pixel
// of padding.
const rectBuffer = 3 + 1

// Point is a quad corner offset from the anchor, in shaping units.
type Point struct {
	X, Y float64
}

func (p Point) rotate(sin, cos float64) Point {
	return Point{X: cos*p.X - sin*p.Y, Y: sin*p.X + cos*p.Y}
}

func (p Point) rotateAround(angle float64, c Point) Point {
	sin, cos := math.Sincos(angle)
	dx, dy := p.X-c.X, p.Y-c.Y
	return Point{X: c.X + cos*dx - sin*dy, Y: c.Y + sin*dx + cos*dy}
}

// Quad is one textured rectangle. It always maps to four vertices.
type Quad struct {
	TL, TR, BL, BR Point

	// Tex is the source rectangle in the glyph or icon atlas.
	Tex text.Rect

	WritingMode text.WritingMode

	// GlyphOffset is the glyph position along the line for line-following
	// text; zero otherwise.
	GlyphOffset [2]float64
}

// GlyphOptions are the per-feature values glyph quads depend on.
type GlyphOptions struct {
	// Rotate is text-rotate in degrees.
	Rotate float64
	// Offset is text-offset in ems.
	Offset    [2]float64
	AlongLine bool
}

// IconOptions are the per-feature values icon quads depend on.
type IconOptions struct {
	// Rotate is icon-rotate in degrees.
	Rotate         float64
	TextFit        style.IconTextFit
	TextFitPadding [4]float64
	// TextSize is the text size used to scale the text box for TextFit.
	TextSize  float64
	AlongLine bool
}

// Builder creates quads for shaped labels.
type Builder interface {
	GlyphQuads(a anchor.Anchor, s *text.Shaping, opts GlyphOptions, atlas text.GlyphAtlas) []Quad
	IconQuads(a anchor.Anchor, icon *text.PositionedIcon, shapedText *text.Shaping, opts IconOptions) []Quad
}

// Default is the standard quad builder.
var Default Builder = defaultBuilder{}

type defaultBuilder struct{}

func (defaultBuilder) GlyphQuads(a anchor.Anchor, s *text.Shaping, opts GlyphOptions, atlas text.GlyphAtlas) []Quad {
	return GlyphQuads(a, s, opts, atlas)
}

func (defaultBuilder) IconQuads(a anchor.Anchor, icon *text.PositionedIcon, shapedText *text.Shaping, opts IconOptions) []Quad {
	return IconQuads(a, icon, shapedText, opts)
}

// GlyphQuads returns one quad per shaped glyph that has an atlas bitmap.
//
// Line-following glyphs keep their shaping position in GlyphOffset and their
// corners are relative to the glyph center, so they can be moved along the
// line at draw time. Other glyphs bake the shaping position and text offset
// into the corners. Vertical glyphs on a line are turned upright.
func GlyphQuads(_ anchor.Anchor, s *text.Shaping, opts GlyphOptions, atlas text.GlyphAtlas) []Quad {
	sin, cos := math.Sincos(opts.Rotate * math.Pi / 180)
	offsetX, offsetY := opts.Offset[0]*text.OneEm, opts.Offset[1]*text.OneEm

	quads := make([]Quad, 0, len(s.Glyphs))
	for _, g := range s.Glyphs {
		glyph, ok := atlas.Lookup(g.FontStack, g.Glyph)
		if !ok || glyph.Rect.W == 0 || glyph.Rect.H == 0 {
			continue
		}
		halfAdvance := glyph.Metrics.Advance * g.Scale / 2

		var glyphOffset, builtIn [2]float64
		if opts.AlongLine {
			glyphOffset = [2]float64{g.X + halfAdvance, g.Y}
		} else {
			builtIn = [2]float64{g.X + halfAdvance + offsetX, g.Y + offsetY}
		}

		x1 := (glyph.Metrics.Left-rectBuffer)*g.Scale - halfAdvance + builtIn[0]
		y1 := (-glyph.Metrics.Top-rectBuffer)*g.Scale + builtIn[1]
		x2 := x1 + glyph.Rect.W*g.Scale
		y2 := y1 + glyph.Rect.H*g.Scale

		tl, tr := Point{x1, y1}, Point{x2, y1}
		bl, br := Point{x1, y2}, Point{x2, y2}

		if opts.AlongLine && g.Vertical {
			center := Point{-halfAdvance, halfAdvance}
			const verticalRotation = -math.Pi / 2
			shift := Point{5, 0}
			tl = add(tl.rotateAround(verticalRotation, center), shift)
			tr = add(tr.rotateAround(verticalRotation, center), shift)
			bl = add(bl.rotateAround(verticalRotation, center), shift)
			br = add(br.rotateAround(verticalRotation, center), shift)
		}

		if opts.Rotate != 0 {
			tl, tr = tl.rotate(sin, cos), tr.rotate(sin, cos)
			bl, br = bl.rotate(sin, cos), br.rotate(sin, cos)
		}

		quads = append(quads, Quad{
			TL: tl, TR: tr, BL: bl, BR: br,
			Tex:         glyph.Rect,
			WritingMode: s.WritingMode,
			GlyphOffset: glyphOffset,
		})
	}
	return quads
}

// IconQuads returns the single quad of an icon. With a TextFit mode and a
// text shaping, the quad is stretched around the scaled text box.
func IconQuads(_ anchor.Anchor, icon *text.PositionedIcon, shapedText *text.Shaping, opts IconOptions) []Quad {
	img := icon.Image
	ratio := img.PixelRatio
	if ratio == 0 {
		ratio = 1
	}
	border := text.IconBorder / ratio
	top, bottom := icon.Top-border, icon.Bottom+border
	left, right := icon.Left-border, icon.Right+border

	var tl, tr, br, bl Point
	if opts.TextFit != "" && opts.TextFit != style.FitNone && shapedText != nil {
		iconWidth, iconHeight := right-left, bottom-top
		size := opts.TextSize / text.OneEm
		textLeft, textRight := shapedText.Left*size, shapedText.Right*size
		textTop, textBottom := shapedText.Top*size, shapedText.Bottom*size
		textWidth, textHeight := textRight-textLeft, textBottom-textTop
		padT, padR := opts.TextFitPadding[0], opts.TextFitPadding[1]
		padB, padL := opts.TextFitPadding[2], opts.TextFitPadding[3]

		var offsetX, offsetY float64
		width, height := iconWidth, iconHeight
		switch opts.TextFit {
		case style.FitWidth:
			offsetY = (textHeight - iconHeight) * 0.5
			width = textWidth
		case style.FitHeight:
			offsetX = (textWidth - iconWidth) * 0.5
			height = textHeight
		case style.FitBoth:
			width, height = textWidth, textHeight
		}

		tl = Point{textLeft + offsetX - padL, textTop + offsetY - padT}
		tr = Point{textLeft + offsetX + padR + width, textTop + offsetY - padT}
		br = Point{textLeft + offsetX + padR + width, textTop + offsetY + padB + height}
		bl = Point{textLeft + offsetX - padL, textTop + offsetY + padB + height}
	} else {
		tl, tr = Point{left, top}, Point{right, top}
		br, bl = Point{right, bottom}, Point{left, bottom}
	}

	if opts.Rotate != 0 {
		sin, cos := math.Sincos(opts.Rotate * math.Pi / 180)
		tl, tr = tl.rotate(sin, cos), tr.rotate(sin, cos)
		bl, br = bl.rotate(sin, cos), br.rotate(sin, cos)
	}

	return []Quad{{TL: tl, TR: tr, BL: bl, BR: br, Tex: img.Rect}}
}

func add(p, q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
