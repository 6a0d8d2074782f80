package maplabel

import (
	"testing"

	"github.com/gogpu/maplabel/style"
	"github.com/gogpu/maplabel/text"
	"github.com/paulmach/orb"
)

const testFont = "Test Sans"

// testGlyphs returns an atlas where every glyph advances 10 units and has a
// 16x20 bitmap.
func testGlyphs(runes ...rune) text.GlyphAtlas {
	glyphs := make(map[rune]text.GlyphPosition, len(runes))
	for i, r := range runes {
		glyphs[r] = text.GlyphPosition{
			Rect:    text.Rect{X: float64(i * 20), W: 16, H: 20},
			Metrics: text.GlyphMetrics{Width: 14, Height: 18, Left: 1, Top: -5, Advance: 10},
		}
	}
	return text.GlyphAtlas{testFont: glyphs}
}

func testAtlas() Atlas {
	return Atlas{
		Glyphs: testGlyphs('A', 'B', 'P', 'a', 'r', 'k', '中', ' '),
		Images: text.ImageAtlas{
			"marker": {Rect: text.Rect{X: 0, Y: 0, W: 22, H: 22}, PixelRatio: 1},
			"hires":  {Rect: text.Rect{X: 22, Y: 0, W: 42, H: 42}, PixelRatio: 2},
			"sdf":    {Rect: text.Rect{X: 64, Y: 0, W: 22, H: 22}, PixelRatio: 1, SDF: true},
		},
	}
}

// testLayer returns a layer using testFont with the given layout changes.
func testLayer(configure func(l *style.Layout)) *style.Layer {
	layer := style.NewLayer("labels")
	layer.Layout.TextFont = style.Constant([]string{testFont})
	if configure != nil {
		configure(&layer.Layout)
	}
	return layer
}

func point(x, y float64, props map[string]any) SourceFeature {
	return SourceFeature{Geometry: orb.Point{x, y}, Properties: props}
}

func horizontalLine(y float64, props map[string]any) SourceFeature {
	return SourceFeature{Geometry: orb.LineString{{0, y}, {Extent, y}}, Properties: props}
}

// layoutFeatures builds a zoom 10 bucket for layer, lays out features and
// returns the bucket.
func layoutFeatures(t *testing.T, layer *style.Layer, features []SourceFeature, opts ...LayoutOption) *Bucket {
	t.Helper()
	for i := range features {
		features[i].Index = i
	}
	b, err := NewBucket(BucketParams{Zoom: 10}, layer)
	if err != nil {
		t.Fatalf("NewBucket() error = %v", err)
	}
	b.Populate(features)
	if err := PerformLayout(b, testAtlas(), opts...); err != nil {
		t.Fatalf("PerformLayout() error = %v", err)
	}
	return b
}
