package maplabel

import "math"

// Mat4 is a 4x4 transformation matrix in column-major order, the layout
// WGSL mat4x4<f32> uniforms expect:
//
//	| m[0]  m[4]  m[8]   m[12] |
//	| m[1]  m[5]  m[9]   m[13] |
//	| m[2]  m[6]  m[10]  m[14] |
//	| m[3]  m[7]  m[11]  m[15] |
type Mat4 [16]float64

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns an orthographic projection matrix.
func Ortho(left, right, bottom, top, near, far float64) Mat4 {
	lr := 1 / (left - right)
	bt := 1 / (bottom - top)
	nf := 1 / (near - far)
	return Mat4{
		-2 * lr, 0, 0, 0,
		0, -2 * bt, 0, 0,
		0, 0, 2 * nf, 0,
		(left + right) * lr, (top + bottom) * bt, (far + near) * nf, 1,
	}
}

// Multiply returns m * o.
func (m Mat4) Multiply(o Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Translate returns m followed by a translation, m * T(x, y, z).
func (m Mat4) Translate(x, y, z float64) Mat4 {
	out := m
	for row := 0; row < 4; row++ {
		out[12+row] = m[row]*x + m[4+row]*y + m[8+row]*z + m[12+row]
	}
	return out
}

// Scale returns m * S(x, y, z).
func (m Mat4) Scale(x, y, z float64) Mat4 {
	out := m
	for row := 0; row < 4; row++ {
		out[row] *= x
		out[4+row] *= y
		out[8+row] *= z
	}
	return out
}

// RotateZ returns m * R(angle) around the z axis. The angle is in radians.
func (m Mat4) RotateZ(angle float64) Mat4 {
	sin, cos := math.Sincos(angle)
	out := m
	for row := 0; row < 4; row++ {
		a0, a1 := m[row], m[4+row]
		out[row] = a0*cos + a1*sin
		out[4+row] = a1*cos - a0*sin
	}
	return out
}

// Invert returns the inverse of m. It reports false when m is singular.
func (m Mat4) Invert() (Mat4, bool) {
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]
	a30, a31, a32, a33 := m[12], m[13], m[14], m[15]

	b00 := a00*a11 - a01*a10
	b01 := a00*a12 - a02*a10
	b02 := a00*a13 - a03*a10
	b03 := a01*a12 - a02*a11
	b04 := a01*a13 - a03*a11
	b05 := a02*a13 - a03*a12
	b06 := a20*a31 - a21*a30
	b07 := a20*a32 - a22*a30
	b08 := a20*a33 - a23*a30
	b09 := a21*a32 - a22*a31
	b10 := a21*a33 - a23*a31
	b11 := a22*a33 - a23*a32

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det == 0 {
		return Mat4{}, false
	}
	det = 1 / det

	return Mat4{
		(a11*b11 - a12*b10 + a13*b09) * det,
		(a02*b10 - a01*b11 - a03*b09) * det,
		(a31*b05 - a32*b04 + a33*b03) * det,
		(a22*b04 - a21*b05 - a23*b03) * det,
		(a12*b08 - a10*b11 - a13*b07) * det,
		(a00*b11 - a02*b08 + a03*b07) * det,
		(a32*b02 - a30*b05 - a33*b01) * det,
		(a20*b05 - a22*b02 + a23*b01) * det,
		(a10*b10 - a11*b08 + a13*b06) * det,
		(a01*b08 - a00*b10 - a03*b06) * det,
		(a30*b04 - a31*b02 + a33*b00) * det,
		(a21*b02 - a20*b04 - a23*b00) * det,
		(a11*b07 - a10*b09 - a12*b06) * det,
		(a00*b09 - a01*b07 + a02*b06) * det,
		(a31*b01 - a30*b03 - a32*b00) * det,
		(a20*b03 - a21*b01 + a22*b00) * det,
	}, true
}

// TransformPoint applies m to the point (x, y, 0, 1) and returns the
// homogeneous result.
func (m Mat4) TransformPoint(x, y float64) [4]float64 {
	return [4]float64{
		m[0]*x + m[4]*y + m[12],
		m[1]*x + m[5]*y + m[13],
		m[2]*x + m[6]*y + m[14],
		m[3]*x + m[7]*y + m[15],
	}
}

// Float32 converts m for upload into a uniform buffer.
func (m Mat4) Float32() [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
