package maplabel

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestSegmentVectorPrepare(t *testing.T) {
	var v SegmentVector
	s := v.prepare(4, 0, 0)
	s.VertexLength = MaxVertexArrayLength - 2

	if got := v.prepare(2, MaxVertexArrayLength-2, 10); got != &v[0] {
		t.Error("prepare() started a segment with room left")
	}
	got := v.prepare(4, MaxVertexArrayLength-2, 10)
	if len(v) != 2 {
		t.Fatalf("len(segments) = %d, want 2", len(v))
	}
	if got != &v[1] || got.VertexOffset != MaxVertexArrayLength-2 || got.PrimitiveOffset != 10 {
		t.Errorf("new segment = %+v", *got)
	}
}

func TestSymbolArraysBytes(t *testing.T) {
	a := SymbolArrays{
		Vertices: []SymbolVertex{{
			AnchorX: 100, AnchorY: -1,
			OffsetX: 32, OffsetY: -64,
			TexX: 7, TexY: 9,
			Size: [2]uint16{4096, 5120},
		}},
		Triangles: []Triangle{{0, 1, 2}, {1, 2, 3}},
	}
	vb := a.VertexBytes()
	if len(vb) != symbolVertexStride {
		t.Fatalf("len(VertexBytes()) = %d, want %d", len(vb), symbolVertexStride)
	}
	want := []uint16{100, 0xFFFF, 32, 0xFFC0, 7, 9, 4096, 5120}
	for i, w := range want {
		if got := binary.LittleEndian.Uint16(vb[i*2:]); got != w {
			t.Errorf("field %d = %#x, want %#x", i, got, w)
		}
	}

	ib := a.IndexBytes()
	if len(ib) != 12 {
		t.Fatalf("len(IndexBytes()) = %d, want 12", len(ib))
	}
	if got := binary.LittleEndian.Uint16(ib[6:]); got != 1 {
		t.Errorf("second triangle first index = %d, want 1", got)
	}
}

func TestClampConversions(t *testing.T) {
	int16Tests := []struct {
		in   float64
		want int16
	}{
		{1.5, 2},
		{-1.5, -2},
		{40000, math.MaxInt16},
		{-40000, math.MinInt16},
		{math.NaN(), 0},
	}
	for _, tt := range int16Tests {
		if got := toInt16(tt.in); got != tt.want {
			t.Errorf("toInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}

	uint16Tests := []struct {
		in   float64
		want uint16
	}{
		{10.4, 10},
		{-3, 0},
		{70000, math.MaxUint16},
		{math.NaN(), 0},
	}
	for _, tt := range uint16Tests {
		if got := toUint16(tt.in); got != tt.want {
			t.Errorf("toUint16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
