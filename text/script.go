package text

import (
	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/width"
)

// AllowsVerticalWritingMode reports whether s contains any character that is
// drawn upright in vertical text, which makes a vertical shaping worthwhile.
func AllowsVerticalWritingMode(s string) bool {
	for _, r := range s {
		if hasUprightVerticalOrientation(r) {
			return true
		}
	}
	return false
}

// AllowsLetterSpacing reports whether letter spacing may be applied to s.
// Cursive scripts lose their joins when spaced.
func AllowsLetterSpacing(s string) bool {
	for _, r := range s {
		if !allowsLetterSpacing(r) {
			return false
		}
	}
	return true
}

func allowsLetterSpacing(r rune) bool {
	return language.LookupScript(r) != language.Arabic
}

// hasUprightVerticalOrientation reports whether r keeps its orientation
// when text runs top to bottom.
func hasUprightVerticalOrientation(r rune) bool {
	if r < 0x1100 {
		return false
	}
	switch r {
	// Bracket and dash forms that rotate with the line.
	case 0x3008, 0x3009, 0x300A, 0x300B, 0x300C, 0x300D, 0x300E, 0x300F,
		0x3010, 0x3011, 0x3014, 0x3015, 0x3016, 0x3017, 0x3018, 0x3019,
		0x301A, 0x301B, 0x301C, 0x30FC, 0xFF08, 0xFF09, 0xFF0D, 0xFF3B,
		0xFF3D, 0xFF5B, 0xFF5D, 0xFF5E:
		return false
	}
	switch language.LookupScript(r) {
	case language.Han, language.Hiragana, language.Katakana, language.Hangul,
		language.Bopomofo, language.Yi:
		return true
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// allowsIdeographicBreaking reports whether a line may break after r even
// though no whitespace follows it.
func allowsIdeographicBreaking(r rune) bool {
	if r == 0x2027 || (r >= 0x3000 && r <= 0x303F) {
		return true
	}
	switch language.LookupScript(r) {
	case language.Han, language.Hiragana, language.Katakana, language.Bopomofo, language.Yi:
		return true
	}
	return false
}

// isRightToLeft reports whether r has a strong right-to-left bidi class.
func isRightToLeft(r rune) bool {
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.R, bidi.AL:
		return true
	}
	return false
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
