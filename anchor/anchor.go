// Package anchor generates candidate label positions for point, line and
// polygon geometry in tile coordinates.
package anchor

import (
	"math"

	"github.com/paulmach/orb"
)

// NoSegment marks an anchor that is not attached to a line segment.
const NoSegment = -1

// Anchor is a candidate label origin.
type Anchor struct {
	X, Y float64

	// Angle is the direction of the line at the anchor, in radians.
	Angle float64

	// Segment is the index of the line segment the anchor lies on, or NoSegment.
	Segment int
}

// At returns an unrotated anchor with no segment.
func At(p orb.Point) Anchor {
	return Anchor{X: p[0], Y: p[1], Segment: NoSegment}
}

// Point returns the anchor position.
func (a Anchor) Point() orb.Point { return orb.Point{a.X, a.Y} }

// HasSegment reports whether the anchor lies on a line segment.
func (a Anchor) HasSegment() bool { return a.Segment >= 0 }

// InTile reports whether the anchor lies in [0, extent) on both axes.
func (a Anchor) InTile(extent float64) bool {
	return a.X >= 0 && a.X < extent && a.Y >= 0 && a.Y < extent
}

func (a Anchor) round() Anchor {
	a.X = math.Round(a.X)
	a.Y = math.Round(a.Y)
	return a
}

// angleTo returns the angle of the vector from q to p.
func angleTo(p, q orb.Point) float64 {
	return math.Atan2(p[1]-q[1], p[0]-q[0])
}

func dist(p, q orb.Point) float64 {
	return math.Hypot(p[0]-q[0], p[1]-q[1])
}

func lineLength(line orb.LineString) float64 {
	total := 0.0
	for i := 0; i+1 < len(line); i++ {
		total += dist(line[i], line[i+1])
	}
	return total
}
