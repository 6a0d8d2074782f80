// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package debug

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/maplabel"
	"github.com/gogpu/maplabel/style"
)

// tileSize is the size of a tile in CSS pixels.
const tileSize = 512

// boxVertexStride is the byte stride of one collision box outline vertex.
// Layout per vertex:
//
//	position (vec2<f32>) = 8 bytes (location 0)
//	anchor   (vec2<f32>) = 8 bytes (location 1)
//	extrude  (vec2<f32>) = 8 bytes (location 2)
//
// Total = 24 bytes per vertex.
const boxVertexStride = 24

// circleVertexStride is the byte stride of one collision circle vertex.
// Layout per vertex:
//
//	position (vec2<f32>) = 8 bytes (location 0)
//	radius   (f32)       = 4 bytes (location 1)
//	collided (f32)       = 4 bytes (location 2)
//	corner   (f32)       = 4 bytes (location 3)
//
// Total = 20 bytes per vertex.
const circleVertexStride = 20

// boxUniformSize is matrix (64) + extrude scale (8) + camera distance (4) + pad (4).
const boxUniformSize = 80

// circleUniformSize is matrix (64) + inverse matrix (64) + viewport size (8)
// + camera distance (4) + pad (4).
const circleUniformSize = 144

const (
	verticesPerCircle = 4
	indicesPerCircle  = 6
)

// defaultCameraToCenter is the camera distance in viewport heights for the
// default 36.87 degree field of view.
const defaultCameraToCenter = 1.5

// Tile is a visible tile and its symbol bucket.
type Tile struct {
	// Bucket is the laid out bucket of the tile, or nil when the tile has
	// none for the layer.
	Bucket *maplabel.Bucket

	// Matrix projects tile units to clip space.
	Matrix maplabel.Mat4
}

// View describes the camera the debug geometry is drawn with.
type View struct {
	// Width and Height are the viewport size in pixels.
	Width, Height float64

	// Zoom is the fractional camera zoom.
	Zoom float64

	// Bearing is the map rotation in radians.
	Bearing float64

	// CameraToCenterDistance is the distance from the camera to the map
	// center in pixels. Zero means 1.5 viewport heights.
	CameraToCenterDistance float64

	// Icons selects the icon collision boxes instead of the text ones.
	// Collision circles belong to text and are only drawn when false.
	Icons bool
}

func (v View) cameraToCenter() float64 {
	if v.CameraToCenterDistance > 0 {
		return v.CameraToCenterDistance
	}
	return defaultCameraToCenter * v.Height
}

// GLCoordMatrix maps viewport pixels, origin top left, to clip space.
func (v View) GLCoordMatrix() maplabel.Mat4 {
	return maplabel.Identity4().
		Scale(1, -1, 1).
		Translate(-1, -1, 0).
		Scale(2/v.Width, 2/v.Height, 1)
}

// BoxDraw draws the outline buffers of one tile.
type BoxDraw struct {
	Outlines *maplabel.CollisionDebugBuffers

	// Matrix is the tile matrix with the layer translation applied.
	Matrix maplabel.Mat4

	// ExtrudeScale converts box extrusions to clip space units.
	ExtrudeScale [2]float64
}

// CircleVertex is one corner of the screen-space quad around a collision
// circle. Corners run counter-clockwise from the bottom left.
type CircleVertex struct {
	X, Y     float32
	Radius   float32
	Collided bool
	Corner   uint8
}

// CircleBatch is the run of frame circles belonging to one tile.
type CircleBatch struct {
	// CircleOffset is the index of the first circle of the batch.
	CircleOffset int
	CircleCount  int

	// Matrix projects tile units to clip space.
	Matrix maplabel.Mat4

	// InvMatrix maps placement screen positions back to the tile plane.
	InvMatrix maplabel.Mat4
}

// Frame is the debug geometry of all visible tiles for one frame.
type Frame struct {
	Boxes          []BoxDraw
	CircleVertices []CircleVertex
	CircleBatches  []CircleBatch

	ViewportSize           [2]float64
	CameraToCenterDistance float64
}

// BuildFrame collects the collision debug geometry of tiles. Tiles without a
// bucket are skipped. Circles of all tiles share one vertex array; each
// tile contributes one batch.
func BuildFrame(tiles []Tile, view View) *Frame {
	f := &Frame{
		ViewportSize:           [2]float64{view.Width, view.Height},
		CameraToCenterDistance: view.cameraToCenter(),
	}
	glCoord := view.GLCoordMatrix()

	for _, t := range tiles {
		b := t.Bucket
		if b == nil {
			continue
		}
		overscaledZ := b.Params().Zoom
		translate, anchor := layerTranslation(b.Layer(), view.Icons)
		m := translatePosMatrix(t.Matrix, translate, anchor, view, overscaledZ)

		outlines := b.TextCollisionBox()
		if view.Icons {
			outlines = b.IconCollisionBox()
		}
		if outlines != nil && len(outlines.Lines) > 0 {
			f.Boxes = append(f.Boxes, BoxDraw{
				Outlines:     outlines,
				Matrix:       m,
				ExtrudeScale: extrudeScale(view, overscaledZ),
			})
		}

		circles := b.CollisionCircles()
		if view.Icons || len(circles) == 0 {
			continue
		}
		inv := b.PlacementInvProjMatrix().Multiply(glCoord).Multiply(b.PlacementViewportMatrix())
		f.CircleBatches = append(f.CircleBatches, CircleBatch{
			CircleOffset: len(f.CircleVertices) / verticesPerCircle,
			CircleCount:  len(circles),
			Matrix:       m,
			InvMatrix:    inv,
		})
		for _, c := range circles {
			for corner := uint8(0); corner < verticesPerCircle; corner++ {
				f.CircleVertices = append(f.CircleVertices, CircleVertex{
					X:        float32(c.X),
					Y:        float32(c.Y),
					Radius:   float32(c.Radius),
					Collided: c.Collided,
					Corner:   corner,
				})
			}
		}
	}
	return f
}

// CircleCount returns the number of circles across all batches.
func (f *Frame) CircleCount() int { return len(f.CircleVertices) / verticesPerCircle }

// IsEmpty reports whether the frame draws nothing.
func (f *Frame) IsEmpty() bool { return len(f.Boxes) == 0 && len(f.CircleVertices) == 0 }

func layerTranslation(layer *style.Layer, icons bool) ([2]float64, style.TranslateAnchor) {
	if icons {
		return layer.Paint.IconTranslate, layer.Paint.IconTranslateAnchor
	}
	return layer.Paint.TextTranslate, layer.Paint.TextTranslateAnchor
}

// pixelsToTileUnits converts a length in pixels at the camera zoom to tile
// units of a tile at overscaledZ.
func pixelsToTileUnits(px, zoom, overscaledZ float64) float64 {
	return px * (maplabel.Extent / (tileSize * math.Pow(2, zoom-overscaledZ)))
}

// translatePosMatrix applies a paint translation in pixels to a tile
// matrix. Viewport anchored translations are rotated against the bearing
// so they stay fixed on screen.
func translatePosMatrix(m maplabel.Mat4, translate [2]float64, anchor style.TranslateAnchor, view View, overscaledZ float64) maplabel.Mat4 {
	if translate[0] == 0 && translate[1] == 0 {
		return m
	}
	x, y := translate[0], translate[1]
	if anchor == style.TranslateViewport {
		sin, cos := math.Sincos(-view.Bearing)
		x, y = x*cos-y*sin, x*sin+y*cos
	}
	scale := pixelsToTileUnits(1, view.Zoom, overscaledZ)
	return m.Translate(x*scale, y*scale, 0)
}

func extrudeScale(view View, overscaledZ float64) [2]float64 {
	pixelRatio := pixelsToTileUnits(1, view.Zoom, overscaledZ)
	scale := math.Pow(2, view.Zoom-overscaledZ)
	return [2]float64{
		2 / view.Width / (pixelRatio * scale),
		-2 / view.Height / (pixelRatio * scale),
	}
}

// boxVertexBytes converts outline vertices to the float layout of the box
// pipeline.
func boxVertexBytes(d *maplabel.CollisionDebugBuffers) []byte {
	buf := make([]byte, len(d.Vertices)*boxVertexStride)
	for i, v := range d.Vertices {
		b := buf[i*boxVertexStride:]
		putFloat32s(b,
			float32(v.X), float32(v.Y),
			float32(v.AnchorX), float32(v.AnchorY),
			float32(v.ExtrudeX), float32(v.ExtrudeY),
		)
	}
	return buf
}

// circleVertexBytes packs the frame circle vertices for upload.
func circleVertexBytes(vertices []CircleVertex) []byte {
	buf := make([]byte, len(vertices)*circleVertexStride)
	for i, v := range vertices {
		collided := float32(0)
		if v.Collided {
			collided = 1
		}
		putFloat32s(buf[i*circleVertexStride:], v.X, v.Y, v.Radius, collided, float32(v.Corner))
	}
	return buf
}

// quadIndexBytes returns two triangles per quad for quads quads, as
// uint32 indices.
func quadIndexBytes(quads int) []byte {
	buf := make([]byte, quads*indicesPerCircle*4)
	for q := 0; q < quads; q++ {
		base := uint32(q * verticesPerCircle)
		b := buf[q*indicesPerCircle*4:]
		for i, idx := range [indicesPerCircle]uint32{0, 1, 2, 0, 2, 3} {
			binary.LittleEndian.PutUint32(b[i*4:], base+idx)
		}
	}
	return buf
}

func boxUniformBytes(d *BoxDraw, f *Frame) []byte {
	buf := make([]byte, boxUniformSize)
	putMatrix(buf[0:], d.Matrix)
	putFloat32s(buf[64:],
		float32(d.ExtrudeScale[0]), float32(d.ExtrudeScale[1]),
		float32(f.CameraToCenterDistance), 0,
	)
	return buf
}

func circleUniformBytes(c *CircleBatch, f *Frame) []byte {
	buf := make([]byte, circleUniformSize)
	putMatrix(buf[0:], c.Matrix)
	putMatrix(buf[64:], c.InvMatrix)
	putFloat32s(buf[128:],
		float32(f.ViewportSize[0]), float32(f.ViewportSize[1]),
		float32(f.CameraToCenterDistance), 0,
	)
	return buf
}

func putMatrix(b []byte, m maplabel.Mat4) {
	m32 := m.Float32()
	putFloat32s(b, m32[:]...)
}

func putFloat32s(b []byte, vs ...float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
}

// drawCall is one indexed draw of a recorded frame.
type drawCall struct {
	indexCount uint32
	firstIndex uint32
	baseVertex int32
}

// outlineDrawCalls returns one line list draw per outline segment.
func outlineDrawCalls(d *maplabel.CollisionDebugBuffers) []drawCall {
	calls := make([]drawCall, 0, len(d.Segments))
	for _, s := range d.Segments {
		if s.PrimitiveLength == 0 {
			continue
		}
		calls = append(calls, drawCall{
			indexCount: uint32(s.PrimitiveLength * 2),
			firstIndex: uint32(s.PrimitiveOffset * 2),
			baseVertex: int32(s.VertexOffset),
		})
	}
	return calls
}

// circleDrawCall returns the triangle draw of one circle batch against the
// shared quad index buffer.
func circleDrawCall(c *CircleBatch) drawCall {
	return drawCall{
		indexCount: uint32(c.CircleCount * indicesPerCircle),
		firstIndex: uint32(c.CircleOffset * indicesPerCircle),
	}
}
