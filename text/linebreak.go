package text

import (
	"math"
	"strings"
)

// lineBreak is a candidate break evaluated against the breaks before it.
type lineBreak struct {
	index   int
	x       float64
	prior   *lineBreak
	badness float64
}

// lineBreaks picks break indices into chars that make the lines as even as
// possible around the average width that respects maxWidth.
func lineBreaks(chars []char, advances []float64, atlas GlyphAtlas, spacing, maxWidth float64) []int {
	if maxWidth <= 0 || len(chars) == 0 {
		return nil
	}

	target := averageLineWidth(chars, advances, atlas, spacing, maxWidth)
	suggested := strings.ContainsRune(string(runesOf(chars)), 0x200b)

	var candidates []*lineBreak
	x := 0.0
	for i, c := range chars {
		if _, ok := atlas.Lookup(c.fontStack, c.r); ok && !isWhitespace(c.r) {
			x += advances[i]*c.scale + spacing
		}
		if i == len(chars)-1 {
			break
		}
		ideographic := allowsIdeographicBreaking(c.r)
		if isBreakable(c.r) || ideographic {
			penalty := breakPenalty(c.r, chars[i+1].r, ideographic && suggested)
			candidates = append(candidates, evaluateBreak(i+1, x, target, candidates, penalty, false))
		}
	}

	last := evaluateBreak(len(chars), x, target, candidates, 0, true)
	var breaks []int
	for b := last; b != nil; b = b.prior {
		breaks = append(breaks, b.index)
	}
	for i, j := 0, len(breaks)-1; i < j; i, j = i+1, j-1 {
		breaks[i], breaks[j] = breaks[j], breaks[i]
	}
	return breaks
}

func averageLineWidth(chars []char, advances []float64, atlas GlyphAtlas, spacing, maxWidth float64) float64 {
	total := 0.0
	for i, c := range chars {
		if _, ok := atlas.Lookup(c.fontStack, c.r); ok {
			total += advances[i]*c.scale + spacing
		}
	}
	lines := math.Max(1, math.Ceil(total/maxWidth))
	return total / lines
}

func evaluateBreak(index int, x, target float64, candidates []*lineBreak, penalty float64, last bool) *lineBreak {
	best := &lineBreak{index: index, x: x, badness: breakBadness(x, target, penalty, last)}
	for _, c := range candidates {
		b := breakBadness(x-c.x, target, penalty, last) + c.badness
		if b <= best.badness {
			best.prior = c
			best.badness = b
		}
	}
	return best
}

func breakBadness(width, target, penalty float64, last bool) float64 {
	raggedness := (width - target) * (width - target)
	if last {
		if width < target {
			return raggedness / 2
		}
		return raggedness * 2
	}
	return raggedness + math.Abs(penalty)*penalty
}

func breakPenalty(r, next rune, penalizeIdeographic bool) float64 {
	penalty := 0.0
	if r == '\n' {
		penalty -= 10000
	}
	if penalizeIdeographic {
		penalty += 150
	}
	if r == '(' || r == 0xff08 {
		penalty += 50
	}
	if next == ')' || next == 0xff09 {
		penalty += 50
	}
	return penalty
}

// breakLines splits chars at the given ascending indices.
func breakLines(chars []char, breaks []int) [][]char {
	var lines [][]char
	start := 0
	for _, b := range breaks {
		lines = append(lines, chars[start:b])
		start = b
	}
	if start < len(chars) {
		lines = append(lines, chars[start:])
	}
	return lines
}

func runesOf(chars []char) []rune {
	out := make([]rune, len(chars))
	for i, c := range chars {
		out[i] = c.r
	}
	return out
}
