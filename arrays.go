package maplabel

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/maplabel/text"
)

// MaxVertexArrayLength is the vertex capacity of one segment, the range a
// uint16 index can address.
const MaxVertexArrayLength = math.MaxUint16

// symbolVertexStride is the byte size of one packed SymbolVertex:
//
//	a_pos_offset (4 x int16)  = 8 bytes
//	a_data       (4 x uint16) = 8 bytes
const symbolVertexStride = 16

// SymbolVertex is one corner of a glyph or icon quad.
type SymbolVertex struct {
	// AnchorX and AnchorY are the label anchor in tile units.
	AnchorX, AnchorY int16

	// OffsetX and OffsetY are the corner offset from the anchor in 1/32
	// shaping units.
	OffsetX, OffsetY int16

	// TexX and TexY are the corner position in the atlas.
	TexX, TexY uint16

	// Size holds the packed sizes of source and composite size functions.
	Size [2]uint16
}

// DynamicVertex is the projected position of a vertex, rewritten by the
// renderer for line-following labels.
type DynamicVertex struct {
	X, Y  float32
	Angle float32
}

// Triangle is three vertex indices relative to the segment vertex offset.
type Triangle [3]uint16

// Segment is a run of vertices and primitives drawn with one base vertex.
type Segment struct {
	VertexOffset    int
	PrimitiveOffset int
	VertexLength    int
	PrimitiveLength int
}

// SegmentVector groups vertices into segments of at most
// MaxVertexArrayLength vertices.
type SegmentVector []Segment

// prepare returns the segment that numVertices more vertices go into,
// starting a new one at the current array lengths when the last is full.
func (v *SegmentVector) prepare(numVertices, vertexCount, primitiveCount int) *Segment {
	n := len(*v)
	if n == 0 || (*v)[n-1].VertexLength+numVertices > MaxVertexArrayLength {
		*v = append(*v, Segment{VertexOffset: vertexCount, PrimitiveOffset: primitiveCount})
		n++
	}
	return &(*v)[n-1]
}

// PlacedSymbol is the render-time record of one text orientation or icon
// of a symbol instance.
type PlacedSymbol struct {
	AnchorX, AnchorY float64

	// GlyphStart and NumGlyphs index the bucket glyph offset array.
	GlyphStart int
	NumGlyphs  int

	// VertexStartIndex is relative to the segment the quads were written to.
	VertexStartIndex int

	// LineStartIndex and LineLength index the bucket line vertex array.
	LineStartIndex int
	LineLength     int

	// Segment is the line segment of the anchor, or anchor.NoSegment.
	Segment int

	LowerSize, UpperSize uint16

	// LineOffset is text-offset in shaping units.
	LineOffset [2]float64

	// WritingMode is zero for icons.
	WritingMode text.WritingMode

	Hidden bool
}

// SymbolArrays holds the vertex data of the text or the icons of a bucket.
type SymbolArrays struct {
	Vertices        []SymbolVertex
	DynamicVertices []DynamicVertex
	Triangles       []Triangle
	Segments        SegmentVector
	PlacedSymbols   []PlacedSymbol
}

// IsEmpty reports whether no quads were written.
func (a *SymbolArrays) IsEmpty() bool { return len(a.Vertices) == 0 }

// VertexBytes packs Vertices little-endian for upload to a vertex buffer.
func (a *SymbolArrays) VertexBytes() []byte {
	buf := make([]byte, len(a.Vertices)*symbolVertexStride)
	for i, v := range a.Vertices {
		b := buf[i*symbolVertexStride:]
		binary.LittleEndian.PutUint16(b[0:], uint16(v.AnchorX))
		binary.LittleEndian.PutUint16(b[2:], uint16(v.AnchorY))
		binary.LittleEndian.PutUint16(b[4:], uint16(v.OffsetX))
		binary.LittleEndian.PutUint16(b[6:], uint16(v.OffsetY))
		binary.LittleEndian.PutUint16(b[8:], v.TexX)
		binary.LittleEndian.PutUint16(b[10:], v.TexY)
		binary.LittleEndian.PutUint16(b[12:], v.Size[0])
		binary.LittleEndian.PutUint16(b[14:], v.Size[1])
	}
	return buf
}

// IndexBytes packs Triangles as uint16 indices.
func (a *SymbolArrays) IndexBytes() []byte {
	buf := make([]byte, len(a.Triangles)*6)
	for i, t := range a.Triangles {
		for j, idx := range t {
			binary.LittleEndian.PutUint16(buf[i*6+j*2:], idx)
		}
	}
	return buf
}

// LineVertex is one vertex of a label line with its distance from the
// label anchor along the line.
type LineVertex struct {
	X, Y                       int16
	TileUnitDistanceFromAnchor float64
}

// toInt16 rounds v and clamps it to the int16 range.
func toInt16(v float64) int16 {
	v = math.Round(v)
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}

// toUint16 rounds v and clamps it to the uint16 range.
func toUint16(v float64) uint16 {
	v = math.Round(v)
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(v)
}
