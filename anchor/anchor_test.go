package anchor

import (
	"math"
	"testing"

	"github.com/gogpu/maplabel/text"
	"github.com/paulmach/orb"
)

const testExtent = 8192

func plainParams(spacing float64) LineParams {
	return LineParams{
		Spacing:     spacing,
		MaxAngle:    math.Pi / 4,
		GlyphSize:   24,
		BoxScale:    1,
		Overscaling: 1,
		Extent:      testExtent,
	}
}

func anchorXs(anchors []Anchor) []float64 {
	xs := make([]float64, len(anchors))
	for i, a := range anchors {
		xs[i] = a.X
	}
	return xs
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestAnchorsAlongStraightLine(t *testing.T) {
	tests := []struct {
		name string
		line orb.LineString
		want []float64
	}{
		{"interior", orb.LineString{{1000, 1000}, {3000, 1000}}, []float64{1048, 1548, 2048, 2548}},
		{"continued from edge", orb.LineString{{0, 1000}, {2000, 1000}}, []float64{250, 750, 1250, 1750}},
		{"short line falls back to middle", orb.LineString{{1000, 1000}, {1040, 1000}}, []float64{1020}},
		{"outside tile dropped", orb.LineString{{-1000, 500}, {1000, 500}}, []float64{48, 548}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anchors := Anchors(tt.line, plainParams(500))
			if got := anchorXs(anchors); !equalFloats(got, tt.want) {
				t.Fatalf("anchor x = %v, want %v", got, tt.want)
			}
			for _, a := range anchors {
				if a.Angle != 0 || a.Segment != 0 || !a.InTile(testExtent) {
					t.Errorf("anchor %+v: want angle 0, segment 0, inside tile", a)
				}
			}
		})
	}
}

func TestAnchorsRespectLabelLength(t *testing.T) {
	shaping := &text.Shaping{Left: -150, Right: 150}
	p := plainParams(100)
	p.Text = shaping
	p.MaxAngle = math.Pi

	line := orb.LineString{{1000, 1000}, {1400, 1000}}
	anchors := Anchors(line, p)
	if len(anchors) == 0 {
		t.Fatal("no anchors")
	}
	for _, a := range anchors {
		along := a.X - 1000
		if along < 150 || along > 250 {
			t.Errorf("anchor at %v leaves no room for a 300 unit label on a 400 unit line", along)
		}
	}
	for i := 1; i < len(anchors); i++ {
		if gap := anchors[i].X - anchors[i-1].X; gap < 300 {
			t.Errorf("gap %v smaller than the label", gap)
		}
	}
}

func TestCheckMaxAngle(t *testing.T) {
	corner := orb.LineString{{0, 0}, {100, 0}, {100, 100}}

	tests := []struct {
		name     string
		anchor   Anchor
		maxAngle float64
		want     bool
	}{
		{"sharp corner rejected", Anchor{X: 90, Segment: 0}, math.Pi / 4, false},
		{"sharp corner within budget", Anchor{X: 90, Segment: 0}, math.Pi, true},
		{"label past line end", Anchor{X: 100, Y: 90, Segment: 1}, math.Pi, false},
		{"label before line start", Anchor{X: 10, Segment: 0}, math.Pi, false},
		{"no segment", Anchor{X: 50, Segment: NoSegment}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckMaxAngle(corner, tt.anchor, 60, 100, tt.maxAngle); got != tt.want {
				t.Errorf("CheckMaxAngle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCenterAnchor(t *testing.T) {
	line := orb.LineString{{0, 0}, {100, 0}, {100, 100}}

	a, ok := CenterAnchor(line, plainParams(250))
	if !ok {
		t.Fatal("CenterAnchor() = false")
	}
	if a.X != 100 || a.Y != 0 || a.Segment != 1 {
		t.Errorf("CenterAnchor() = %+v, want (100, 0) on segment 1", a)
	}
	if math.Abs(a.Angle-math.Pi/2) > 1e-9 {
		t.Errorf("angle = %v, want pi/2", a.Angle)
	}

	p := plainParams(250)
	p.Text = &text.Shaping{Left: -40, Right: 40}
	if _, ok := CenterAnchor(line, p); ok {
		t.Error("CenterAnchor() accepted a label bent around a right angle")
	}

	if _, ok := CenterAnchor(orb.LineString{{5, 5}}, plainParams(250)); ok {
		t.Error("CenterAnchor() on a single point = true")
	}
}

func square(x, y, size float64, reverse bool) orb.Ring {
	r := orb.Ring{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}
	if reverse {
		r.Reverse()
	}
	return r
}

func TestClassifyRings(t *testing.T) {
	rings := []orb.Ring{
		square(0, 0, 100, false),
		square(10, 10, 10, true),
		{{0, 0}, {5, 0}, {0, 0}},
		square(200, 0, 100, false),
		square(210, 10, 20, true),
		square(240, 10, 40, true),
		square(210, 60, 10, true),
	}

	polygons := ClassifyRings(rings, 0)
	if len(polygons) != 2 {
		t.Fatalf("len(polygons) = %d, want 2", len(polygons))
	}
	if len(polygons[0]) != 2 || len(polygons[1]) != 4 {
		t.Errorf("ring counts = %d, %d; want 2, 4", len(polygons[0]), len(polygons[1]))
	}

	trimmed := ClassifyRings(rings, 2)
	if len(trimmed[1]) != 2 {
		t.Fatalf("trimmed ring count = %d, want 2", len(trimmed[1]))
	}
	if !trimmed[1][1].Equal(square(240, 10, 40, true)) {
		t.Errorf("kept hole = %v, want the largest", trimmed[1][1])
	}

	if got := ClassifyRings(nil, 0); got != nil {
		t.Errorf("ClassifyRings(nil) = %v", got)
	}
}

func TestSignedAreaSign(t *testing.T) {
	a := SignedArea(square(0, 0, 10, false))
	b := SignedArea(square(0, 0, 10, true))
	if a != -b || a == 0 {
		t.Errorf("SignedArea() = %v and %v, want opposite non-zero", a, b)
	}
}

func TestClipLines(t *testing.T) {
	lines := ClipLines([]orb.LineString{{{-100, 50}, {100, 50}}}, testExtent)
	if len(lines) != 1 || !lines[0].Equal(orb.LineString{{0, 50}, {100, 50}}) {
		t.Errorf("ClipLines() = %v", lines)
	}
}

func TestPoleOfInaccessibility(t *testing.T) {
	a := PoleOfInaccessibility(orb.Polygon{square(0, 0, 1000, false)})
	if math.Abs(a.X-500) > PolePrecision || math.Abs(a.Y-500) > PolePrecision {
		t.Errorf("pole = (%v, %v), want near (500, 500)", a.X, a.Y)
	}
	if a.Angle != 0 || a.HasSegment() {
		t.Errorf("pole anchor = %+v, want unrotated without segment", a)
	}
}
