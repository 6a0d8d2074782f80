package text

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestRasterizeGlyphs(t *testing.T) {
	const stack = "Go Regular"
	atlas, err := RasterizeGlyphs(goregular.TTF, stack, Runes("Abba ", "中"))
	if err != nil {
		t.Fatalf("RasterizeGlyphs() error = %v", err)
	}

	glyphs := atlas.Glyphs[stack]
	if len(glyphs) != 4 {
		t.Fatalf("len(glyphs) = %d, want 4 (A, b, a, space)", len(glyphs))
	}
	if _, ok := atlas.Glyphs.Lookup(stack, '中'); ok {
		t.Error("glyph missing from the font was rasterized")
	}

	a, ok := atlas.Glyphs.Lookup(stack, 'A')
	if !ok {
		t.Fatal("A not rasterized")
	}
	if a.Metrics.Width <= 0 || a.Metrics.Height <= 0 {
		t.Errorf("A metrics = %+v", a.Metrics)
	}
	if a.Metrics.Advance <= 0 || a.Metrics.Advance >= OneEm {
		t.Errorf("A advance = %v, want within (0, %d)", a.Metrics.Advance, OneEm)
	}
	if a.Rect.W != a.Metrics.Width+2*GlyphBuffer || a.Rect.H != a.Metrics.Height+2*GlyphBuffer {
		t.Errorf("A rect = %+v, want bitmap plus buffer", a.Rect)
	}
	if a.Metrics.Top >= 0 {
		t.Errorf("A top = %v, want below the em box top", a.Metrics.Top)
	}

	space := glyphs[' ']
	if space.Metrics.Width != 0 || space.Metrics.Advance <= 0 {
		t.Errorf("space metrics = %+v, want empty bitmap with advance", space.Metrics)
	}

	// Slots must not overlap.
	var placed []GlyphPosition
	for _, g := range glyphs {
		for _, p := range placed {
			if g.Rect.X < p.Rect.X+p.Rect.W && p.Rect.X < g.Rect.X+g.Rect.W &&
				g.Rect.Y < p.Rect.Y+p.Rect.H && p.Rect.Y < g.Rect.Y+g.Rect.H {
				t.Errorf("rects overlap: %+v and %+v", g.Rect, p.Rect)
			}
		}
		placed = append(placed, g)
	}

	// The A bitmap has ink.
	ink := false
	for y := int(a.Rect.Y); y < int(a.Rect.Y+a.Rect.H); y++ {
		for x := int(a.Rect.X); x < int(a.Rect.X+a.Rect.W); x++ {
			if atlas.Image.AlphaAt(x, y).A > 0 {
				ink = true
			}
		}
	}
	if !ink {
		t.Error("A bitmap is empty")
	}
}

func TestRasterizeGlyphsErrors(t *testing.T) {
	if _, err := RasterizeGlyphs([]byte("not a font"), "x", []rune("a")); err == nil {
		t.Error("RasterizeGlyphs(garbage) succeeded")
	}
}

func TestRunes(t *testing.T) {
	got := string(Runes("abca", "db"))
	if got != "abcd" {
		t.Errorf("Runes() = %q, want %q", got, "abcd")
	}
}
