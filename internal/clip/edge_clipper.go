// Package clip clips label geometry to tile bounds.
package clip

import (
	"math"

	"github.com/paulmach/orb"
)

// LineClipper clips polylines against an axis-aligned rectangle. Points
// created on the rectangle edge are rounded to integer coordinates, matching
// the integer grid of tile geometry.
type LineClipper struct {
	bound orb.Bound
}

// NewLineClipper creates a clipper for the given bounds.
func NewLineClipper(bound orb.Bound) *LineClipper {
	return &LineClipper{bound: bound}
}

// Bound returns the clip rectangle.
func (lc *LineClipper) Bound() orb.Bound {
	return lc.bound
}

// Outcode constants for Cohen-Sutherland classification.
const (
	outcodeInside = 0
	outcodeLeft   = 1
	outcodeRight  = 2
	outcodeBottom = 4
	outcodeTop    = 8
)

func (lc *LineClipper) outcode(p orb.Point) int {
	code := outcodeInside

	if p[0] < lc.bound.Min[0] {
		code |= outcodeLeft
	} else if p[0] > lc.bound.Max[0] {
		code |= outcodeRight
	}

	if p[1] < lc.bound.Min[1] {
		code |= outcodeTop
	} else if p[1] > lc.bound.Max[1] {
		code |= outcodeBottom
	}

	return code
}

// ClipSegment clips the segment p0-p1. It reports false when no part of the
// segment lies inside the rectangle.
func (lc *LineClipper) ClipSegment(p0, p1 orb.Point) (orb.Point, orb.Point, bool) {
	code0, code1 := lc.outcode(p0), lc.outcode(p1)
	if code0|code1 == 0 {
		return p0, p1, true
	}
	if code0&code1 != 0 {
		return p0, p1, false
	}

	minX, minY := lc.bound.Min[0], lc.bound.Min[1]
	maxX, maxY := lc.bound.Max[0], lc.bound.Max[1]

	// Edges are applied in a fixed order: left, top, right, bottom.
	switch {
	case p0[0] < minX && p1[0] < minX:
		return p0, p1, false
	case p0[0] < minX:
		p0 = atX(p0, p1, minX)
	case p1[0] < minX:
		p1 = atX(p0, p1, minX)
	}

	switch {
	case p0[1] < minY && p1[1] < minY:
		return p0, p1, false
	case p0[1] < minY:
		p0 = atY(p0, p1, minY)
	case p1[1] < minY:
		p1 = atY(p0, p1, minY)
	}

	switch {
	case p0[0] > maxX && p1[0] > maxX:
		return p0, p1, false
	case p0[0] > maxX:
		p0 = atX(p0, p1, maxX)
	case p1[0] > maxX:
		p1 = atX(p0, p1, maxX)
	}

	switch {
	case p0[1] > maxY && p1[1] > maxY:
		return p0, p1, false
	case p0[1] > maxY:
		p0 = atY(p0, p1, maxY)
	case p1[1] > maxY:
		p1 = atY(p0, p1, maxY)
	}

	return p0, p1, true
}

// Clip clips every line and returns the pieces that remain inside. A line
// that leaves and re-enters the rectangle yields several pieces.
func (lc *LineClipper) Clip(lines []orb.LineString) []orb.LineString {
	var out []orb.LineString
	for _, line := range lines {
		var current orb.LineString
		for i := 0; i+1 < len(line); i++ {
			p0, p1, ok := lc.ClipSegment(line[i], line[i+1])
			if !ok {
				continue
			}
			if current == nil || !current[len(current)-1].Equal(p0) {
				if current != nil {
					out = append(out, current)
				}
				current = orb.LineString{p0}
			}
			current = append(current, p1)
		}
		if current != nil {
			out = append(out, current)
		}
	}
	return out
}

// atX returns the point of segment p0-p1 with the given x, y rounded.
func atX(p0, p1 orb.Point, x float64) orb.Point {
	t := (x - p0[0]) / (p1[0] - p0[0])
	return orb.Point{math.Round(x), math.Round(p0[1] + (p1[1]-p0[1])*t)}
}

// atY returns the point of segment p0-p1 with the given y, x rounded.
func atY(p0, p1 orb.Point, y float64) orb.Point {
	t := (y - p0[1]) / (p1[1] - p0[1])
	return orb.Point{math.Round(p0[0] + (p1[0]-p0[0])*t), math.Round(y)}
}
