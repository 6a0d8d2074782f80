package text

import (
	"fmt"
	"image"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// GlyphBuffer is the empty border rasterized around every glyph bitmap.
const GlyphBuffer = 3

// atlasWidth is the width in pixels of a rasterized glyph atlas image.
const atlasWidth = 1024

// RasterizedAtlas is a glyph atlas together with the alpha bitmap its
// rectangles point into.
type RasterizedAtlas struct {
	Glyphs GlyphAtlas
	Image  *image.Alpha
}

// RasterizeGlyphs renders runes of an OpenType font at OneEm pixels and
// packs them into one alpha image under fontStack. Runes the font has no
// glyph for are left out, so shaping skips them.
func RasterizeGlyphs(fontData []byte, fontStack string, runes []rune) (*RasterizedAtlas, error) {
	f, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    OneEm,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to create face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	runes = slices.Clone(runes)
	slices.Sort(runes)
	runes = slices.Compact(runes)

	type slot struct {
		r      rune
		bounds image.Rectangle
		pos    GlyphPosition
	}
	var (
		buf   sfnt.Buffer
		slots []slot
		x, y  int
		rowH  int
	)
	for _, r := range runes {
		if idx, err := f.GlyphIndex(&buf, r); err != nil || idx == 0 {
			continue
		}
		b, advance, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}

		// Pixel bounds, y down from the baseline.
		minX := b.Min.X.Floor()
		minY := b.Min.Y.Floor()
		maxX := b.Max.X.Ceil()
		maxY := b.Max.Y.Ceil()
		if maxX < minX || maxY < minY {
			minX, minY, maxX, maxY = 0, 0, 0, 0
		}
		w, h := maxX-minX, maxY-minY

		slotW, slotH := w+2*GlyphBuffer, h+2*GlyphBuffer
		if x+slotW > atlasWidth {
			x = 0
			y += rowH
			rowH = 0
		}
		slots = append(slots, slot{
			r:      r,
			bounds: image.Rect(minX, minY, maxX, maxY),
			pos: GlyphPosition{
				Rect: Rect{X: float64(x), Y: float64(y), W: float64(slotW), H: float64(slotH)},
				Metrics: GlyphMetrics{
					Width:   float64(w),
					Height:  float64(h),
					Left:    float64(minX),
					Top:     float64(-minY - OneEm),
					Advance: fixedToFloat(advance),
				},
			},
		})
		x += slotW
		rowH = max(rowH, slotH)
	}

	img := image.NewAlpha(image.Rect(0, 0, atlasWidth, max(y+rowH, 1)))
	glyphs := make(map[rune]GlyphPosition, len(slots))
	drawer := &font.Drawer{Dst: img, Src: image.White, Face: face}
	for _, s := range slots {
		if !s.bounds.Empty() {
			drawer.Dot = fixed.P(
				int(s.pos.Rect.X)+GlyphBuffer-s.bounds.Min.X,
				int(s.pos.Rect.Y)+GlyphBuffer-s.bounds.Min.Y,
			)
			drawer.DrawString(string(s.r))
		}
		glyphs[s.r] = s.pos
	}

	return &RasterizedAtlas{
		Glyphs: GlyphAtlas{fontStack: glyphs},
		Image:  img,
	}, nil
}

// Runes returns the distinct runes of texts, for RasterizeGlyphs.
func Runes(texts ...string) []rune {
	seen := make(map[rune]struct{})
	var out []rune
	for _, s := range texts {
		for _, r := range s {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
