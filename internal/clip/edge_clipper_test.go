package clip

import (
	"testing"

	"github.com/paulmach/orb"
)

func tileClipper() *LineClipper {
	return NewLineClipper(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}})
}

func TestLineClipper_ClipSegment_FullyInside(t *testing.T) {
	p0, p1, ok := tileClipper().ClipSegment(orb.Point{10, 10}, orb.Point{90, 90})
	if !ok {
		t.Fatal("segment rejected")
	}
	assertPointEqual(t, p0, orb.Point{10, 10})
	assertPointEqual(t, p1, orb.Point{90, 90})
}

func TestLineClipper_ClipSegment_FullyOutside(t *testing.T) {
	lc := tileClipper()

	tests := []struct {
		name   string
		p0, p1 orb.Point
	}{
		{"left", orb.Point{-50, 50}, orb.Point{-10, 50}},
		{"right", orb.Point{110, 50}, orb.Point{150, 50}},
		{"top", orb.Point{50, -50}, orb.Point{50, -10}},
		{"bottom", orb.Point{50, 110}, orb.Point{50, 150}},
		{"corner", orb.Point{-20, 10}, orb.Point{10, -20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, ok := lc.ClipSegment(tt.p0, tt.p1); ok {
				t.Error("segment accepted")
			}
		})
	}
}

func TestLineClipper_ClipSegment_Crossing(t *testing.T) {
	lc := tileClipper()

	tests := []struct {
		name         string
		p0, p1       orb.Point
		want0, want1 orb.Point
	}{
		{"from left", orb.Point{-50, 50}, orb.Point{50, 50}, orb.Point{0, 50}, orb.Point{50, 50}},
		{"to right", orb.Point{50, 50}, orb.Point{150, 50}, orb.Point{50, 50}, orb.Point{100, 50}},
		{"through", orb.Point{-10, 10}, orb.Point{110, 10}, orb.Point{0, 10}, orb.Point{100, 10}},
		{"rounded", orb.Point{-10, 0}, orb.Point{20, 10}, orb.Point{0, 3}, orb.Point{20, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p0, p1, ok := lc.ClipSegment(tt.p0, tt.p1)
			if !ok {
				t.Fatal("segment rejected")
			}
			assertPointEqual(t, p0, tt.want0)
			assertPointEqual(t, p1, tt.want1)
		})
	}
}

func TestLineClipper_Clip_SplitsReentry(t *testing.T) {
	line := orb.LineString{{10, 50}, {150, 50}, {150, 80}, {10, 80}}

	got := tileClipper().Clip([]orb.LineString{line})
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(got), got)
	}
	want := []orb.LineString{
		{{10, 50}, {100, 50}},
		{{100, 80}, {10, 80}},
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("line %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLineClipper_Clip_KeepsContinuousLine(t *testing.T) {
	line := orb.LineString{{10, 10}, {50, 10}, {50, 50}, {90, 90}}

	got := tileClipper().Clip([]orb.LineString{line})
	if len(got) != 1 || !got[0].Equal(line) {
		t.Errorf("Clip() = %v, want the input line", got)
	}
}

func assertPointEqual(t *testing.T, got, want orb.Point) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("point = %v, want %v", got, want)
	}
}
