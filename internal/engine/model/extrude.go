package model

import (
	gomath "math"

	"github.com/Faultbox/strokeglyph/pkg/math"
	"github.com/Faultbox/strokeglyph/pkg/outline"
)

// maxMiter caps how far a bevel corner may be pushed on very sharp turns,
// as a multiple of the bevel size.
const maxMiter = 4.0

// ring is one cross-section of the extruded solid: every loop offset
// outwards by grow at height z.
type ring struct {
	z    float64
	grow float64
}

// Extrude builds a beveled solid from a shape. See ExtrudeStroke.
func Extrude(shape outline.Shape, p Params) (*Mesh, error) {
	return ExtrudeStroke(-1, shape, p)
}

// ExtrudeStroke builds a beveled solid from the shape of stroke index.
//
// The back cap sits at z = -BevelThickness and the front cap at
// z = Depth + BevelThickness. Each cap is joined to the straight side wall by
// BevelSegments rings following a quarter-circle profile that grows the
// outline by BevelSize. Output is a pure function of its inputs.
func ExtrudeStroke(index int, shape outline.Shape, p Params) (*Mesh, error) {
	p, err := p.Normalize()
	if err != nil {
		return nil, err
	}

	if len(shape.Contour) < 3 {
		return nil, &DegenerateGeometryError{Index: index, Reason: "contour has fewer than 3 points"}
	}
	area := gomath.Abs(shape.Contour.Area())
	for _, h := range shape.Holes {
		area -= gomath.Abs(h.Area())
	}
	if area <= earEpsilon {
		return nil, &DegenerateGeometryError{Index: index, Reason: "zero area"}
	}
	if p.Depth+2*p.BevelThickness <= 0 {
		return nil, &DegenerateGeometryError{Index: index, Reason: "zero depth"}
	}

	contour := shape.Contour.Oriented(true)
	holes := make([]outline.Polygon, 0, len(shape.Holes))
	for _, h := range shape.Holes {
		if len(h) >= 3 {
			holes = append(holes, h.Oriented(false))
		}
	}

	capPts, capTris := triangulate(contour, holes)
	if len(capTris) == 0 {
		return nil, &DegenerateGeometryError{Index: index, Reason: "triangulation produced no faces"}
	}

	rings := buildRings(p)
	b := &meshBuilder{bounds: math.EmptyBox3()}

	// Caps. The back cap faces -Z so its winding is reversed.
	back, front := rings[0], rings[len(rings)-1]
	base := b.addPoints(capPts, back, [3]float32{0, 0, -1})
	for t := 0; t < len(capTris); t += 3 {
		b.addTriangle(base+uint32(capTris[t]), base+uint32(capTris[t+2]), base+uint32(capTris[t+1]))
	}
	base = b.addPoints(capPts, front, [3]float32{0, 0, 1})
	for t := 0; t < len(capTris); t += 3 {
		b.addTriangle(base+uint32(capTris[t]), base+uint32(capTris[t+1]), base+uint32(capTris[t+2]))
	}

	// Side walls, bevel rings included.
	for _, loop := range append([]outline.Polygon{contour}, holes...) {
		b.addWall(loop, bevelVectors(loop), rings)
	}

	outlineBox := math.EmptyBox2()
	for _, pt := range contour {
		outlineBox = outlineBox.Extend(pt.X, pt.Y)
	}

	m := &Mesh{
		Vertices: b.vertices,
		Indices:  b.indices,
		Outline:  outlineBox,
		Bounds:   b.bounds,
	}
	m.Sphere = math.BoundingSphere(b.bounds, b.positions)
	return m, nil
}

// buildRings returns the cross-sections from back cap to front cap.
func buildRings(p Params) []ring {
	n := p.BevelSegments
	rings := make([]ring, 0, 2*n+2)
	for s := 0; s <= n; s++ {
		a := float64(s) / float64(n) * gomath.Pi / 2
		rings = append(rings, ring{z: -p.BevelThickness * gomath.Cos(a), grow: p.BevelSize * gomath.Sin(a)})
	}
	rings = append(rings, ring{z: p.Depth, grow: p.BevelSize})
	for s := n - 1; s >= 0; s-- {
		a := float64(s) / float64(n) * gomath.Pi / 2
		rings = append(rings, ring{z: p.Depth + p.BevelThickness*gomath.Cos(a), grow: p.BevelSize * gomath.Sin(a)})
	}
	return rings
}

// bevelVectors returns, per loop vertex, the mitered direction that moves
// both adjacent edges one unit away from the solid. The right-hand edge
// normal points away from the solid for counter-clockwise contours and
// clockwise holes alike.
func bevelVectors(loop outline.Polygon) []outline.Point {
	n := len(loop)
	out := make([]outline.Point, n)
	for i := range loop {
		prev, cur, next := loop[(i+n-1)%n], loop[i], loop[(i+1)%n]
		n1 := edgeNormal(prev, cur)
		n2 := edgeNormal(cur, next)

		mx, my := n1.X+n2.X, n1.Y+n2.Y
		l := gomath.Hypot(mx, my)
		if l < 1e-9 {
			// The outline doubles back on itself.
			out[i] = n1
			continue
		}
		mx, my = mx/l, my/l
		d := mx*n1.X + my*n1.Y
		scale := gomath.Min(1/d, maxMiter)
		out[i] = outline.Point{X: mx * scale, Y: my * scale}
	}
	return out
}

func edgeNormal(a, b outline.Point) outline.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := gomath.Hypot(dx, dy)
	if l == 0 {
		return outline.Point{}
	}
	return outline.Point{X: dy / l, Y: -dx / l}
}

type meshBuilder struct {
	vertices  []Vertex
	indices   []uint32
	positions []math.Vec3
	bounds    math.Box3
}

func (b *meshBuilder) position(pt outline.Point, vec *outline.Point, r ring) [3]float32 {
	x, y := pt.X, pt.Y
	if vec != nil {
		x += vec.X * r.grow
		y += vec.Y * r.grow
	}
	return [3]float32{float32(x), float32(y), float32(r.z)}
}

func (b *meshBuilder) addVertex(pos, normal [3]float32) uint32 {
	idx := uint32(len(b.vertices))
	b.vertices = append(b.vertices, Vertex{Position: pos, Normal: normal})
	v := math.Vec3{X: pos[0], Y: pos[1], Z: pos[2]}
	b.positions = append(b.positions, v)
	b.bounds.Extend(v)
	return idx
}

// addPoints adds one ungrown vertex per point at ring r and returns the
// first index.
func (b *meshBuilder) addPoints(pts []outline.Point, r ring, normal [3]float32) uint32 {
	base := uint32(len(b.vertices))
	for _, pt := range pts {
		b.addVertex(b.position(pt, nil, r), normal)
	}
	return base
}

func (b *meshBuilder) addTriangle(i0, i1, i2 uint32) {
	b.indices = append(b.indices, i0, i1, i2)
}

// addWall stitches consecutive rings of one loop with flat-shaded quads.
// Quads that collapse (zero-height rings, zero bevel) are skipped.
func (b *meshBuilder) addWall(loop outline.Polygon, vecs []outline.Point, rings []ring) {
	n := len(loop)
	for r := 0; r+1 < len(rings); r++ {
		lo, hi := rings[r], rings[r+1]
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			p0 := b.position(loop[i], &vecs[i], lo)
			p1 := b.position(loop[j], &vecs[j], lo)
			p2 := b.position(loop[j], &vecs[j], hi)
			p3 := b.position(loop[i], &vecs[i], hi)

			normal, ok := quadNormal(p0, p1, p2, p3)
			if !ok {
				continue
			}
			i0 := b.addVertex(p0, normal)
			i1 := b.addVertex(p1, normal)
			i2 := b.addVertex(p2, normal)
			i3 := b.addVertex(p3, normal)
			b.addTriangle(i0, i1, i2)
			b.addTriangle(i0, i2, i3)
		}
	}
}

// quadNormal returns the unit normal of quad p0..p3 from its diagonals,
// which stays valid when one side of the quad has collapsed to a point.
func quadNormal(p0, p1, p2, p3 [3]float32) ([3]float32, bool) {
	d1 := math.Vec3{X: p2[0] - p0[0], Y: p2[1] - p0[1], Z: p2[2] - p0[2]}
	d2 := math.Vec3{X: p3[0] - p1[0], Y: p3[1] - p1[1], Z: p3[2] - p1[2]}
	n := d1.Cross(d2)
	if n.Length() < 1e-6 {
		return [3]float32{}, false
	}
	return n.Normalize().Array(), true
}
