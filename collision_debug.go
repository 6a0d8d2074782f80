package maplabel

import (
	"encoding/binary"

	"github.com/gogpu/maplabel/collision"
)

// collisionDebugVertexStride is the byte size of one packed
// CollisionDebugVertex: three int16 pairs.
const collisionDebugVertexStride = 12

// CollisionDebugVertex is one corner of a collision box outline.
type CollisionDebugVertex struct {
	// X and Y are the anchor point of the box.
	X, Y int16

	// AnchorX and AnchorY are the anchor of the owning symbol instance.
	AnchorX, AnchorY int16

	// ExtrudeX and ExtrudeY are the corner offset from X, Y.
	ExtrudeX, ExtrudeY int16
}

// CollisionDebugBuffers holds line geometry outlining collision boxes.
type CollisionDebugBuffers struct {
	Vertices []CollisionDebugVertex
	Lines    [][2]uint16
	Segments SegmentVector
}

// VertexBytes packs Vertices little-endian for upload.
func (d *CollisionDebugBuffers) VertexBytes() []byte {
	buf := make([]byte, len(d.Vertices)*collisionDebugVertexStride)
	for i, v := range d.Vertices {
		b := buf[i*collisionDebugVertexStride:]
		binary.LittleEndian.PutUint16(b[0:], uint16(v.X))
		binary.LittleEndian.PutUint16(b[2:], uint16(v.Y))
		binary.LittleEndian.PutUint16(b[4:], uint16(v.AnchorX))
		binary.LittleEndian.PutUint16(b[6:], uint16(v.AnchorY))
		binary.LittleEndian.PutUint16(b[8:], uint16(v.ExtrudeX))
		binary.LittleEndian.PutUint16(b[10:], uint16(v.ExtrudeY))
	}
	return buf
}

// IndexBytes packs Lines as uint16 indices.
func (d *CollisionDebugBuffers) IndexBytes() []byte {
	buf := make([]byte, len(d.Lines)*4)
	for i, l := range d.Lines {
		binary.LittleEndian.PutUint16(buf[i*4:], l[0])
		binary.LittleEndian.PutUint16(buf[i*4+2:], l[1])
	}
	return buf
}

// GenerateCollisionDebugBuffers builds outline geometry for the collision
// boxes of every symbol instance, text and icons separately. Line circles
// are skipped; they are drawn from the circles set by placement.
func (b *Bucket) GenerateCollisionDebugBuffers() {
	b.textCollisionBox = &CollisionDebugBuffers{}
	b.iconCollisionBox = &CollisionDebugBuffers{}

	for i := range b.instances {
		inst := &b.instances[i]
		b.addCollisionDebugBoxes(b.textCollisionBox, inst, inst.TextBoxes)
		b.addCollisionDebugBoxes(b.iconCollisionBox, inst, inst.IconBoxes)
	}
}

func (b *Bucket) addCollisionDebugBoxes(d *CollisionDebugBuffers, inst *SymbolInstance, r collision.Range) {
	for i := r.Start; i < r.End; i++ {
		box := b.boxes.At(i)
		if box.IsCircle() {
			continue
		}
		segment := d.Segments.prepare(4, len(d.Vertices), len(d.Lines))
		index := uint16(segment.VertexLength)

		x, y := toInt16(box.AnchorX), toInt16(box.AnchorY)
		ax, ay := toInt16(inst.Anchor.X), toInt16(inst.Anchor.Y)
		corner := func(ex, ey float64) CollisionDebugVertex {
			return CollisionDebugVertex{X: x, Y: y, AnchorX: ax, AnchorY: ay, ExtrudeX: toInt16(ex), ExtrudeY: toInt16(ey)}
		}
		d.Vertices = append(d.Vertices,
			corner(box.X1, box.Y1),
			corner(box.X2, box.Y1),
			corner(box.X2, box.Y2),
			corner(box.X1, box.Y2),
		)
		d.Lines = append(d.Lines,
			[2]uint16{index, index + 1},
			[2]uint16{index + 1, index + 2},
			[2]uint16{index + 2, index + 3},
			[2]uint16{index + 3, index},
		)
		segment.VertexLength += 4
		segment.PrimitiveLength += 4
	}
}

// TextCollisionBox returns the text box outlines, or nil before
// GenerateCollisionDebugBuffers.
func (b *Bucket) TextCollisionBox() *CollisionDebugBuffers { return b.textCollisionBox }

// IconCollisionBox returns the icon box outlines, or nil before
// GenerateCollisionDebugBuffers.
func (b *Bucket) IconCollisionBox() *CollisionDebugBuffers { return b.iconCollisionBox }

// CollisionCircle is a line collision circle as last projected by
// placement, in the screen space of that placement.
type CollisionCircle struct {
	X, Y, Radius float64
	Collided     bool
}

// SetCollisionCircles stores the circles of the latest placement pass with
// the inverse projection and viewport matrices it projected them with.
func (b *Bucket) SetCollisionCircles(circles []CollisionCircle, invProj, viewport Mat4) {
	b.collisionCircles = append(b.collisionCircles[:0], circles...)
	b.placementInvProj = invProj
	b.placementViewport = viewport
}

// CollisionCircles returns the circles set by the latest placement pass.
func (b *Bucket) CollisionCircles() []CollisionCircle { return b.collisionCircles }

// PlacementInvProjMatrix returns the inverse projection of the latest
// placement pass.
func (b *Bucket) PlacementInvProjMatrix() Mat4 { return b.placementInvProj }

// PlacementViewportMatrix returns the viewport matrix of the latest
// placement pass.
func (b *Bucket) PlacementViewportMatrix() Mat4 { return b.placementViewport }
