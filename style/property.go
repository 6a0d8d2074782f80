package style

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberProperty returns a FeatureFunc reading a numeric feature property
// and multiplying it by scale.
func NumberProperty(name string, scale float64) FeatureFunc[float64] {
	return func(f Feature) (float64, bool) {
		v, ok := f.Property(name)
		if !ok {
			return 0, false
		}
		n, ok := toNumber(v)
		if !ok {
			return 0, false
		}
		return n * scale, true
	}
}

// StringProperty returns a FeatureFunc reading a feature property as text.
func StringProperty(name string) FeatureFunc[string] {
	return func(f Feature) (string, bool) {
		v, ok := f.Property(name)
		if !ok || v == nil {
			return "", false
		}
		return toString(v), true
	}
}

// Template returns a FeatureFunc that substitutes {name} tokens with the
// corresponding feature properties. Missing properties become empty strings.
func Template(tmpl string) FeatureFunc[string] {
	return func(f Feature) (string, bool) {
		return ResolveTokens(tmpl, f), true
	}
}

// ResolveTokens replaces {name} tokens in s with feature property values.
func ResolveTokens(s string, f Feature) string {
	if !strings.Contains(s, "{") {
		return s
	}
	var b strings.Builder
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			break
		}
		b.WriteString(s[:open])
		name := s[open+1 : open+end]
		if v, ok := f.Property(name); ok && v != nil {
			b.WriteString(toString(v))
		}
		s = s[open+end+1:]
	}
	b.WriteString(s)
	return b.String()
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
