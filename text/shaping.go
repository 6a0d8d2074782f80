package text

import (
	"math"

	"github.com/gogpu/maplabel/style"
	"golang.org/x/text/unicode/bidi"
)

// OneEm is the font size, in pixels, that glyph metrics and shapings are
// expressed in. Label sizes scale shapings by size/OneEm.
const OneEm = 24

// baselineOffset is the y position of the first line's glyph origins.
const baselineOffset = -17

// WritingMode is the orientation a shaping was laid out in.
type WritingMode uint8

const (
	// Horizontal is a horizontal shaping of text that also has a vertical one.
	Horizontal WritingMode = 1
	// Vertical is a top-to-bottom shaping.
	Vertical WritingMode = 2
	// HorizontalOnly is a horizontal shaping with no vertical counterpart.
	HorizontalOnly WritingMode = 3
)

// String returns the writing mode name.
func (m WritingMode) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case HorizontalOnly:
		return "horizontal-only"
	default:
		return "unknown"
	}
}

// Rect is a rectangle in atlas pixels.
type Rect struct {
	X, Y, W, H float64
}

// GlyphMetrics are the metrics of a glyph rasterized at OneEm.
type GlyphMetrics struct {
	Width, Height float64
	Left, Top     float64
	Advance       float64
}

// GlyphPosition locates a glyph bitmap in the glyph atlas.
type GlyphPosition struct {
	Rect    Rect
	Metrics GlyphMetrics
}

// GlyphAtlas maps font stack and code point to atlas glyphs.
type GlyphAtlas map[string]map[rune]GlyphPosition

// Lookup returns the atlas glyph for r in fontStack.
func (a GlyphAtlas) Lookup(fontStack string, r rune) (GlyphPosition, bool) {
	glyphs, ok := a[fontStack]
	if !ok {
		return GlyphPosition{}, false
	}
	g, ok := glyphs[r]
	return g, ok
}

// PositionedGlyph is a glyph placed relative to the label anchor, in OneEm units.
type PositionedGlyph struct {
	Glyph     rune
	X, Y      float64
	Vertical  bool
	Scale     float64
	FontStack string
}

// Shaping is the result of laying out label text.
type Shaping struct {
	Glyphs      []PositionedGlyph
	Text        string
	WritingMode WritingMode
	LineCount   int

	// Bounds of the text relative to the anchor, in OneEm units.
	Top, Bottom, Left, Right float64
}

// Width returns the horizontal extent of the shaping.
func (s *Shaping) Width() float64 { return s.Right - s.Left }

// Orientations holds the horizontal and optional vertical shaping of one label.
type Orientations struct {
	Horizontal *Shaping
	Vertical   *Shaping
}

// ShapeOptions configures a Shape call. All lengths are in OneEm units.
type ShapeOptions struct {
	FontStack   string
	MaxWidth    float64
	LineHeight  float64
	Anchor      style.Anchor
	Justify     style.Justify
	Spacing     float64
	Translate   [2]float64
	WritingMode WritingMode
}

// Shaper lays out formatted text. It returns false when no glyph of the text
// is available in the atlas.
type Shaper interface {
	Shape(t *Formatted, opts ShapeOptions, atlas GlyphAtlas) (*Shaping, bool)
}

// advanceFunc returns the advance of each char of line at scale 1.
type advanceFunc func(line []char, atlas GlyphAtlas) []float64

// MetricShaper lays out text using the advances recorded in the glyph atlas.
type MetricShaper struct{}

// NewMetricShaper returns a shaper that uses atlas glyph metrics only.
func NewMetricShaper() *MetricShaper {
	return &MetricShaper{}
}

// Shape implements Shaper.
func (MetricShaper) Shape(t *Formatted, opts ShapeOptions, atlas GlyphAtlas) (*Shaping, bool) {
	return shape(t, opts, atlas, metricAdvances)
}

func metricAdvances(line []char, atlas GlyphAtlas) []float64 {
	out := make([]float64, len(line))
	for i, c := range line {
		if g, ok := atlas.Lookup(c.fontStack, c.r); ok {
			out[i] = g.Metrics.Advance
		}
	}
	return out
}

func shape(t *Formatted, opts ShapeOptions, atlas GlyphAtlas, advances advanceFunc) (*Shaping, bool) {
	chars := t.chars(opts.FontStack)
	if len(chars) == 0 {
		return nil, false
	}

	s := &Shaping{
		Text:        t.String(),
		WritingMode: opts.WritingMode,
		Top:         opts.Translate[1],
		Bottom:      opts.Translate[1],
		Left:        opts.Translate[0],
		Right:       opts.Translate[0],
	}

	lines := [][]char{chars}
	if opts.MaxWidth > 0 {
		breaks := lineBreaks(chars, advances(chars, atlas), atlas, opts.Spacing, opts.MaxWidth)
		lines = breakLines(chars, breaks)
	}
	layoutLines(s, lines, opts, atlas, advances)

	if len(s.Glyphs) == 0 {
		return nil, false
	}
	return s, true
}

func layoutLines(s *Shaping, lines [][]char, opts ShapeOptions, atlas GlyphAtlas, advances advanceFunc) {
	x, y := 0.0, float64(baselineOffset)
	maxLineLength := 0.0
	justify := opts.Justify.Factor()

	for _, line := range lines {
		line = trimLine(line)
		if len(line) == 0 {
			y += opts.LineHeight
			continue
		}
		line = visualOrder(line)
		maxScale := lineMaxScale(line)
		adv := advances(line, atlas)

		start := len(s.Glyphs)
		lastAdvance := 0.0
		for i, c := range line {
			if _, ok := atlas.Lookup(c.fontStack, c.r); !ok {
				continue
			}
			g := PositionedGlyph{
				Glyph:     c.r,
				X:         x,
				Y:         y + (maxScale-c.scale)*OneEm,
				Scale:     c.scale,
				FontStack: c.fontStack,
			}
			if opts.WritingMode != Vertical || !hasUprightVerticalOrientation(c.r) {
				x += adv[i]*c.scale + opts.Spacing
			} else {
				g.Vertical = true
				x += OneEm*c.scale + opts.Spacing
			}
			lastAdvance = adv[i] * c.scale
			s.Glyphs = append(s.Glyphs, g)
		}

		if len(s.Glyphs) != start {
			maxLineLength = math.Max(x-opts.Spacing, maxLineLength)
			justifyLine(s.Glyphs[start:], lastAdvance, justify)
		}
		x = 0
		y += opts.LineHeight * maxScale
	}

	h, v := opts.Anchor.Alignment()
	shiftX := (justify - h) * maxLineLength
	shiftY := (-v*float64(len(lines)) + 0.5) * opts.LineHeight
	for i := range s.Glyphs {
		s.Glyphs[i].X += shiftX
		s.Glyphs[i].Y += shiftY
	}

	height := y - baselineOffset
	s.Top += -v * height
	s.Bottom = s.Top + height
	s.Left += -h * maxLineLength
	s.Right = s.Left + maxLineLength
	s.LineCount = len(lines)
}

// justifyLine shifts a line left by the justified share of its length.
func justifyLine(glyphs []PositionedGlyph, lastAdvance, justify float64) {
	if justify == 0 || len(glyphs) == 0 {
		return
	}
	indent := (glyphs[len(glyphs)-1].X + lastAdvance) * justify
	for i := range glyphs {
		glyphs[i].X -= indent
	}
}

func lineMaxScale(line []char) float64 {
	m := 0.0
	for _, c := range line {
		m = math.Max(m, c.scale)
	}
	return m
}

func isWhitespace(r rune) bool {
	switch r {
	case 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x20:
		return true
	}
	return false
}

func isBreakable(r rune) bool {
	switch r {
	case 0x0a, 0x20, 0x26, 0x28, 0x29, 0x2b, 0x2d, 0x2f, 0xad, 0xb7,
		0x200b, 0x2010, 0x2013, 0x2027:
		return true
	}
	return false
}

func trimLine(line []char) []char {
	for len(line) > 0 && isWhitespace(line[0].r) {
		line = line[1:]
	}
	for len(line) > 0 && isWhitespace(line[len(line)-1].r) {
		line = line[:len(line)-1]
	}
	return line
}

// visualOrder reverses right-to-left runs of a line into display order.
func visualOrder(line []char) []char {
	rtl := false
	for _, c := range line {
		if isRightToLeft(c.r) {
			rtl = true
			break
		}
	}
	if !rtl {
		return line
	}

	runes := make([]rune, len(line))
	for i, c := range line {
		runes[i] = c.r
	}
	var p bidi.Paragraph
	if _, err := p.SetString(string(runes), bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return line
	}
	ordering, err := p.Order()
	if err != nil {
		return line
	}

	out := make([]char, 0, len(line))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		start, end := run.Pos()
		if start < 0 || end >= len(line) || start > end {
			return line
		}
		if run.Direction() == bidi.RightToLeft {
			for j := end; j >= start; j-- {
				out = append(out, line[j])
			}
		} else {
			out = append(out, line[start:end+1]...)
		}
	}
	if len(out) != len(line) {
		return line
	}
	return out
}
