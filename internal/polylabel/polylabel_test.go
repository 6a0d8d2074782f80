package polylabel

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func TestFindSquare(t *testing.T) {
	square := orb.Polygon{{{0, 0}, {100, 0}, {100, 100}, {0, 100}, {0, 0}}}

	p, d := Find(square, 1)
	if math.Abs(p[0]-50) > 1 || math.Abs(p[1]-50) > 1 {
		t.Errorf("Find() = %v, want near (50, 50)", p)
	}
	if math.Abs(d-50) > 1 {
		t.Errorf("distance = %v, want near 50", d)
	}
}

func TestFindTriangleIsInside(t *testing.T) {
	triangle := orb.Polygon{{{0, 0}, {300, 0}, {150, 200}, {0, 0}}}

	p, d := Find(triangle, 16)
	if !planar.PolygonContains(triangle, p) {
		t.Fatalf("Find() = %v is outside the triangle", p)
	}
	if d <= 0 {
		t.Errorf("distance = %v, want > 0", d)
	}
}

func TestFindAvoidsHole(t *testing.T) {
	withHole := orb.Polygon{
		{{0, 0}, {100, 0}, {100, 100}, {0, 100}, {0, 0}},
		{{20, 20}, {20, 80}, {80, 80}, {80, 20}, {20, 20}},
	}

	p, _ := Find(withHole, 1)
	if !planar.PolygonContains(withHole, p) {
		t.Errorf("Find() = %v lies in the hole", p)
	}
}

func TestFindDegenerate(t *testing.T) {
	tests := []struct {
		name string
		poly orb.Polygon
		want orb.Point
	}{
		{"empty", orb.Polygon{}, orb.Point{}},
		{"flat", orb.Polygon{{{5, 5}, {50, 5}, {5, 5}}}, orb.Point{5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, d := Find(tt.poly, 1)
			if !p.Equal(tt.want) || d != 0 {
				t.Errorf("Find() = %v, %v; want %v, 0", p, d, tt.want)
			}
		})
	}
}
