package anchor

import (
	"math"
	"sort"

	"github.com/gogpu/maplabel/internal/clip"
	"github.com/gogpu/maplabel/internal/polylabel"
	"github.com/paulmach/orb"
)

// PolePrecision is the pole of inaccessibility tolerance in tile units,
// about two device pixels at the default extent.
const PolePrecision = 16

// SignedArea returns twice the signed area of ring. Its sign gives the
// winding order in tile coordinates (y down).
func SignedArea(ring orb.Ring) float64 {
	sum := 0.0
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		p1, p2 := ring[i], ring[j]
		sum += (p2[0] - p1[0]) * (p1[1] + p2[1])
	}
	return sum
}

// ClassifyRings groups a flat ring list into polygons. A ring with the
// winding of the first non-degenerate ring starts a new polygon; rings of
// the opposite winding are holes of the current polygon. Zero-area rings are
// dropped. When maxRings > 1, only the outer ring and the largest
// maxRings-1 holes of each polygon are kept.
func ClassifyRings(rings []orb.Ring, maxRings int) []orb.Polygon {
	switch len(rings) {
	case 0:
		return nil
	case 1:
		return []orb.Polygon{{rings[0]}}
	}

	type classified struct {
		polygon orb.Polygon
		areas   []float64
	}
	var (
		out      []classified
		ccw      bool
		oriented bool
	)
	for _, ring := range rings {
		area := SignedArea(ring)
		if area == 0 {
			continue
		}
		if !oriented {
			ccw = area < 0
			oriented = true
		}
		if ccw == (area < 0) {
			out = append(out, classified{polygon: orb.Polygon{ring}, areas: []float64{math.Abs(area)}})
			continue
		}
		last := &out[len(out)-1]
		last.polygon = append(last.polygon, ring)
		last.areas = append(last.areas, math.Abs(area))
	}

	polygons := make([]orb.Polygon, len(out))
	for i, c := range out {
		polygons[i] = c.polygon
		if maxRings <= 1 || len(c.polygon) <= maxRings {
			continue
		}
		holes := make([]int, len(c.polygon)-1)
		for j := range holes {
			holes[j] = j + 1
		}
		sort.SliceStable(holes, func(a, b int) bool {
			return c.areas[holes[a]] > c.areas[holes[b]]
		})
		kept := orb.Polygon{c.polygon[0]}
		for _, j := range holes[:maxRings-1] {
			kept = append(kept, c.polygon[j])
		}
		polygons[i] = kept
	}
	return polygons
}

// ClipLines clips lines to the square [0, extent] and rounds new end points.
func ClipLines(lines []orb.LineString, extent float64) []orb.LineString {
	return clip.NewLineClipper(orb.Bound{Max: orb.Point{extent, extent}}).Clip(lines)
}

// PoleOfInaccessibility returns an unrotated anchor at the interior point of
// p farthest from its outline.
func PoleOfInaccessibility(p orb.Polygon) Anchor {
	pt, _ := polylabel.Find(p, PolePrecision)
	return At(pt)
}
