// Package polylabel finds the pole of inaccessibility of a polygon: the
// interior point farthest from the polygon outline.
package polylabel

import (
	"container/heap"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Find returns the pole of inaccessibility of p to within precision, along
// with its distance to the outline. Degenerate polygons return the first
// vertex of the outer ring.
func Find(p orb.Polygon, precision float64) (orb.Point, float64) {
	if len(p) == 0 || len(p[0]) == 0 {
		return orb.Point{}, 0
	}

	bound := p[0].Bound()
	width := bound.Max[0] - bound.Min[0]
	height := bound.Max[1] - bound.Min[1]
	cellSize := math.Min(width, height)
	if cellSize == 0 {
		return bound.Min, 0
	}
	h := cellSize / 2

	queue := &cellQueue{}
	for x := bound.Min[0]; x < bound.Max[0]; x += cellSize {
		for y := bound.Min[1]; y < bound.Max[1]; y += cellSize {
			heap.Push(queue, newCell(orb.Point{x + h, y + h}, h, p))
		}
	}

	best := centroidCell(p)
	if c := newCell(bound.Center(), 0, p); c.d > best.d {
		best = c
	}

	for queue.Len() > 0 {
		c := heap.Pop(queue).(cell)
		if c.d > best.d {
			best = c
		}
		if c.max-best.d <= precision {
			continue
		}
		h = c.h / 2
		heap.Push(queue, newCell(orb.Point{c.p[0] - h, c.p[1] - h}, h, p))
		heap.Push(queue, newCell(orb.Point{c.p[0] + h, c.p[1] - h}, h, p))
		heap.Push(queue, newCell(orb.Point{c.p[0] - h, c.p[1] + h}, h, p))
		heap.Push(queue, newCell(orb.Point{c.p[0] + h, c.p[1] + h}, h, p))
	}

	return best.p, best.d
}

// cell is a square search cell. d is the signed distance from its center to
// the outline and max the best distance any point of the cell could reach.
type cell struct {
	p   orb.Point
	h   float64
	d   float64
	max float64
}

func newCell(p orb.Point, h float64, poly orb.Polygon) cell {
	d := distance(p, poly)
	return cell{p: p, h: h, d: d, max: d + h*math.Sqrt2}
}

func centroidCell(p orb.Polygon) cell {
	c, area := planar.CentroidArea(p[0])
	if area == 0 {
		return newCell(p[0][0], 0, p)
	}
	return newCell(c, 0, p)
}

// distance returns the distance from pt to the polygon outline, negative
// when pt is outside.
func distance(pt orb.Point, p orb.Polygon) float64 {
	minSq := math.Inf(1)
	for _, ring := range p {
		for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
			minSq = math.Min(minSq, planar.DistanceFromSegmentSquared(ring[i], ring[j], pt))
		}
	}
	d := math.Sqrt(minSq)
	if !planar.PolygonContains(p, pt) {
		d = -d
	}
	return d
}

// cellQueue is a max-heap of cells ordered by their potential distance.
type cellQueue []cell

func (q cellQueue) Len() int           { return len(q) }
func (q cellQueue) Less(i, j int) bool { return q[i].max > q[j].max }
func (q cellQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *cellQueue) Push(x any) { *q = append(*q, x.(cell)) }

func (q *cellQueue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}
