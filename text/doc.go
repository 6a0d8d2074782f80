// Package text shapes label text and icons for symbol layout.
//
// Shaping turns formatted label text into glyphs positioned around the label
// anchor, measured in OneEm (24 px) units. Glyph bitmaps and metrics come from
// a GlyphAtlas supplied by the caller, or built from an OpenType font with
// RasterizeGlyphs.
//
//   - Formatted: label text split into sections with their own scale and font stack
//   - Shaper: the layout contract; MetricShaper uses atlas advances,
//     GoTextShaper uses HarfBuzz advances from go-text/typesetting
//   - CachedShaper: LRU memoisation of any Shaper
//   - ShapeIcon: places an atlas icon around the anchor
//
// # Example usage
//
//	shaper, err := text.NewGoTextShaper(fontData)
//	if err != nil {
//	    return err
//	}
//	shaping, ok := shaper.Shape(text.NewFormatted("Main St"), text.ShapeOptions{
//	    FontStack:   "Noto Sans Regular",
//	    LineHeight:  1.2 * text.OneEm,
//	    Anchor:      style.AnchorCenter,
//	    Justify:     style.JustifyCenter,
//	    WritingMode: text.HorizontalOnly,
//	}, glyphs)
//
// # Writing modes
//
// Every label is shaped horizontally. Labels whose script has upright
// vertical forms (see AllowsVerticalWritingMode) may also be shaped with
// WritingMode Vertical, in which upright glyphs advance by one em.
//
// Multi-line layout breaks lines at whitespace, hyphens and ideographic
// boundaries, choosing the breaks that make lines closest to equal width.
// Right-to-left runs are reordered for display with golang.org/x/text/unicode/bidi.
package text
