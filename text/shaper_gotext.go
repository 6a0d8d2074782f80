package text

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// GoTextShaper lays out labels with HarfBuzz advances from go-text/typesetting,
// so kerning and contextual forms of the font are honored. Glyph bitmaps and
// metrics still come from the atlas; only the pen advances differ from
// MetricShaper.
//
// GoTextShaper is safe for concurrent use. The parsed font.Font is shared;
// font.Face and HarfbuzzShaper are not concurrent-safe, so each line gets its
// own face and a pooled shaper.
type GoTextShaper struct {
	font       *font.Font
	shaperPool sync.Pool
}

// NewGoTextShaper parses fontData (TrueType or OpenType) and returns a shaper for it.
func NewGoTextShaper(fontData []byte) (*GoTextShaper, error) {
	if len(fontData) == 0 {
		return nil, ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	return &GoTextShaper{
		font: face.Font,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}, nil
}

// Shape implements Shaper.
func (s *GoTextShaper) Shape(t *Formatted, opts ShapeOptions, atlas GlyphAtlas) (*Shaping, bool) {
	return shape(t, opts, atlas, s.advances)
}

// advances shapes line at OneEm and folds glyph advances onto the runes
// that produced them. Runes merged into a ligature get a zero advance.
func (s *GoTextShaper) advances(line []char, _ GlyphAtlas) []float64 {
	out := make([]float64, len(line))
	if len(line) == 0 {
		return out
	}
	runes := runesOf(line)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(s.font),
		Size:      floatToFixed(OneEm),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.shaperPool.Put(hb)

	for _, g := range output.Glyphs {
		if i := g.TextIndex(); i >= 0 && i < len(out) {
			out[i] += fixedToFloat(g.Advance)
		}
	}
	return out
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
