package math

import "math"

// Mat4 is a column-major 4x4 matrix, laid out the way glUniformMatrix4fv
// reads it without transposition. Element (row r, column c) is m[c*4+r].
type Mat4 [16]float32

// Perspective builds a right-handed projection with a vertical field of view
// of fovY radians, mapping depth [near, far] to clip space [-1, 1].
func Perspective(fovY, aspect, near, far float32) Mat4 {
	var m Mat4
	cot := float32(1 / math.Tan(float64(fovY)/2))
	m[0] = cot / aspect
	m[5] = cot
	m[10] = (near + far) / (near - far)
	m[11] = -1
	m[14] = 2 * near * far / (near - far)
	return m
}

// Ortho builds a parallel projection of the box [left, right] x [bottom, top]
// x [-near, -far] in view space.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	var m Mat4
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = 2 / (near - far)
	m[12] = (left + right) / (left - right)
	m[13] = (bottom + top) / (bottom - top)
	m[14] = (near + far) / (near - far)
	m[15] = 1
	return m
}

// LookAt builds a view matrix for an eye at eye facing center. The rows are
// the camera basis, so the view direction ends up on -Z.
func LookAt(eye, center, up Vec3) Mat4 {
	fwd := center.Sub(eye).Normalize()
	side := fwd.Cross(up).Normalize()
	camUp := side.Cross(fwd)
	back := Vec3{-fwd.X, -fwd.Y, -fwd.Z}

	var m Mat4
	m.setRow(0, side, -side.Dot(eye))
	m.setRow(1, camUp, -camUp.Dot(eye))
	m.setRow(2, back, -back.Dot(eye))
	m[15] = 1
	return m
}

func (m *Mat4) setRow(r int, v Vec3, w float32) {
	m[r] = v.X
	m[4+r] = v.Y
	m[8+r] = v.Z
	m[12+r] = w
}

// ScaleTranslate moves a point by t and then scales it uniformly by s. This
// is the placement of a stroke: centering offset and z-jitter are in outline
// units, the scale brings the glyph down to world size.
func ScaleTranslate(s float32, t Vec3) Mat4 {
	var m Mat4
	m.setRow(0, Vec3{X: s}, s*t.X)
	m.setRow(1, Vec3{Y: s}, s*t.Y)
	m.setRow(2, Vec3{Z: s}, s*t.Z)
	m[15] = 1
	return m
}

// TransformPoint applies m to p with w = 1, dividing by the resulting w when
// m is projective.
func (m Mat4) TransformPoint(p [3]float32) [3]float32 {
	var h [4]float32
	for r := range h {
		h[r] = m[r]*p[0] + m[4+r]*p[1] + m[8+r]*p[2] + m[12+r]
	}
	if w := h[3]; w != 0 && w != 1 {
		return [3]float32{h[0] / w, h[1] / w, h[2] / w}
	}
	return [3]float32{h[0], h[1], h[2]}
}

// Ptr returns a pointer to the first element for glUniformMatrix4fv.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
