package text

import (
	"strconv"
	"strings"

	"github.com/gogpu/maplabel/style"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section is a run of label text sharing one font stack and scale.
type Section struct {
	Text string

	// Scale multiplies the text size for this section. Zero means 1.
	Scale float64

	// FontStack overrides the layer font stack when non-empty.
	FontStack string
}

// Formatted is label text made of one or more sections.
type Formatted struct {
	Sections []Section
}

// NewFormatted returns single-section text.
func NewFormatted(s string) *Formatted {
	return &Formatted{Sections: []Section{{Text: s}}}
}

// String returns the plain text of all sections.
func (f *Formatted) String() string {
	if f == nil {
		return ""
	}
	if len(f.Sections) == 1 {
		return f.Sections[0].Text
	}
	var b strings.Builder
	for _, s := range f.Sections {
		b.WriteString(s.Text)
	}
	return b.String()
}

// IsEmpty reports whether f has no characters.
func (f *Formatted) IsEmpty() bool {
	if f == nil {
		return true
	}
	for _, s := range f.Sections {
		if s.Text != "" {
			return false
		}
	}
	return true
}

// Transform returns a copy of f with the text case changed.
func (f *Formatted) Transform(t style.TextTransform) *Formatted {
	if f == nil {
		return nil
	}
	var c cases.Caser
	switch t {
	case style.TransformUppercase:
		c = cases.Upper(language.Und)
	case style.TransformLowercase:
		c = cases.Lower(language.Und)
	default:
		return f
	}
	out := &Formatted{Sections: make([]Section, len(f.Sections))}
	for i, s := range f.Sections {
		s.Text = c.String(s.Text)
		out.Sections[i] = s
	}
	return out
}

// key returns a string identifying text and section styling, for caches.
func (f *Formatted) key() string {
	if f == nil {
		return ""
	}
	if len(f.Sections) == 1 && f.Sections[0].Scale == 0 && f.Sections[0].FontStack == "" {
		return f.Sections[0].Text
	}
	var b strings.Builder
	for _, s := range f.Sections {
		b.WriteString(s.Text)
		b.WriteByte(0)
		b.WriteString(s.FontStack)
		b.WriteByte(0)
		b.WriteString(strconv.FormatFloat(s.Scale, 'g', -1, 64))
		b.WriteByte(0)
	}
	return b.String()
}

// char is one code point of formatted text with its section styling resolved.
type char struct {
	r         rune
	scale     float64
	fontStack string
}

func (f *Formatted) chars(defaultStack string) []char {
	if f == nil {
		return nil
	}
	var out []char
	for _, s := range f.Sections {
		scale := s.Scale
		if scale == 0 {
			scale = 1
		}
		stack := s.FontStack
		if stack == "" {
			stack = defaultStack
		}
		for _, r := range s.Text {
			out = append(out, char{r: r, scale: scale, fontStack: stack})
		}
	}
	return out
}
