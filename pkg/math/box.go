package math

import "math"

// Box2 is an axis-aligned rectangle in outline (glyph design) units.
type Box2 struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// EmptyBox2 returns an inverted box that any Extend call will replace.
func EmptyBox2() Box2 {
	return Box2{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether no point has been added to the box.
func (b Box2) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Extend grows the box to contain (x, y).
func (b Box2) Extend(x, y float64) Box2 {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
	return b
}

// Union returns the smallest box containing both boxes.
func (b Box2) Union(o Box2) Box2 {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return Box2{
		MinX: math.Min(b.MinX, o.MinX), MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX), MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Center returns the midpoint of the box.
func (b Box2) Center() (x, y float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// Size returns the width and height of the box.
func (b Box2) Size() (w, h float64) {
	return b.MaxX - b.MinX, b.MaxY - b.MinY
}

// Box3 is an axis-aligned box in mesh space.
type Box3 struct {
	Min Vec3
	Max Vec3
}

// EmptyBox3 returns an inverted box that any Extend call will replace.
func EmptyBox3() Box3 {
	inf := float32(math.Inf(1))
	return Box3{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether no point has been added to the box.
func (b Box3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to contain p.
func (b *Box3) Extend(p Vec3) {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
}

// Center returns the midpoint of the box.
func (b Box3) Center() Vec3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center Vec3
	Radius float32
}

// BoundingSphere returns the sphere centered on the box center that encloses
// every point. Points must lie inside box.
func BoundingSphere(box Box3, points []Vec3) Sphere {
	c := box.Center()
	var r2 float32
	for _, p := range points {
		d := p.Sub(c)
		r2 = max(r2, d.Dot(d))
	}
	return Sphere{Center: c, Radius: float32(math.Sqrt(float64(r2)))}
}
