package text

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestNewGoTextShaperErrors(t *testing.T) {
	if _, err := NewGoTextShaper(nil); err != ErrEmptyFontData {
		t.Errorf("NewGoTextShaper(nil) error = %v, want ErrEmptyFontData", err)
	}
	if _, err := NewGoTextShaper([]byte("not a font")); err == nil {
		t.Error("NewGoTextShaper(garbage) succeeded")
	}
}

func TestGoTextShaper(t *testing.T) {
	s, err := NewGoTextShaper(goregular.TTF)
	if err != nil {
		t.Fatalf("NewGoTextShaper() error = %v", err)
	}

	atlas := testAtlas('H', 'e', 'l', 'o')
	shaping, ok := s.Shape(NewFormatted("Hello"), testOptions(), atlas)
	if !ok {
		t.Fatal("Shape() = false")
	}
	if len(shaping.Glyphs) != 5 {
		t.Fatalf("len(Glyphs) = %d, want 5", len(shaping.Glyphs))
	}
	for i := 1; i < len(shaping.Glyphs); i++ {
		if shaping.Glyphs[i].X <= shaping.Glyphs[i-1].X {
			t.Errorf("glyph %d x %v not after glyph %d x %v",
				i, shaping.Glyphs[i].X, i-1, shaping.Glyphs[i-1].X)
		}
	}
	if shaping.Width() <= 0 || shaping.Width() > 5*OneEm {
		t.Errorf("Width() = %v, want within (0, %v]", shaping.Width(), 5*OneEm)
	}
}

func TestGoTextShaperSkipsMissingGlyphs(t *testing.T) {
	s, err := NewGoTextShaper(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Shape(NewFormatted("Hi"), testOptions(), testAtlas('x')); ok {
		t.Error("Shape() without atlas glyphs = true")
	}
}
