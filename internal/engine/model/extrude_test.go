package model

import (
	"errors"
	gomath "math"
	"reflect"
	"testing"

	"github.com/Faultbox/strokeglyph/pkg/outline"
)

func square(x0, y0, size float64) outline.Polygon {
	return outline.Polygon{{X: x0, Y: y0}, {X: x0 + size, Y: y0}, {X: x0 + size, Y: y0 + size}, {X: x0, Y: y0 + size}}
}

func near(a, b, eps float64) bool {
	return gomath.Abs(a-b) <= eps
}

func TestExtrudeSquareBounds(t *testing.T) {
	p := DefaultParams()
	mesh, err := Extrude(outline.Shape{Contour: square(100, 300, 100)}, p)
	if err != nil {
		t.Fatalf("Extrude() error: %v", err)
	}

	if mesh.Outline.MinX != 100 || mesh.Outline.MaxX != 200 || mesh.Outline.MinY != 300 || mesh.Outline.MaxY != 400 {
		t.Errorf("outline box = %+v, want [100,200]x[300,400]", mesh.Outline)
	}

	if !near(float64(mesh.Bounds.Min.Z), -p.BevelThickness, 1e-4) {
		t.Errorf("expected back cap at z=%v, got %v", -p.BevelThickness, mesh.Bounds.Min.Z)
	}
	if !near(float64(mesh.Bounds.Max.Z), p.Depth+p.BevelThickness, 1e-3) {
		t.Errorf("expected front cap at z=%v, got %v", p.Depth+p.BevelThickness, mesh.Bounds.Max.Z)
	}
	// The bevel grows the outline by BevelSize on every side.
	if !near(float64(mesh.Bounds.Max.X), 200+p.BevelSize, 1e-3) {
		t.Errorf("expected max X %v, got %v", 200+p.BevelSize, mesh.Bounds.Max.X)
	}
	if !near(float64(mesh.Bounds.Min.Y), 300-p.BevelSize, 1e-3) {
		t.Errorf("expected min Y %v, got %v", 300-p.BevelSize, mesh.Bounds.Min.Y)
	}

	if mesh.Sphere.Radius <= 0 {
		t.Error("expected a positive bounding sphere radius")
	}
}

func TestExtrudeTopology(t *testing.T) {
	p := Params{Depth: 10, BevelThickness: 2, BevelSize: 1, BevelSegments: 3, CurveSegments: 8}
	mesh, err := Extrude(outline.Shape{Contour: square(0, 0, 10)}, p)
	if err != nil {
		t.Fatalf("Extrude() error: %v", err)
	}

	// Two cap triangles per side, plus two per wall quad: 4 edges, 2n+1 ring gaps.
	rings := 2*p.BevelSegments + 2
	wantTris := 2*2 + 4*(rings-1)*2
	if got := mesh.TriangleCount(); got != wantTris {
		t.Errorf("expected %d triangles, got %d", wantTris, got)
	}
	for _, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Vertices) {
			t.Fatalf("index %d out of range (%d vertices)", idx, len(mesh.Vertices))
		}
	}
}

func TestExtrudeNormalsPointOutward(t *testing.T) {
	mesh, err := Extrude(outline.Shape{Contour: square(0, 0, 10)}, Params{Depth: 10, BevelSegments: 1})
	if err != nil {
		t.Fatalf("Extrude() error: %v", err)
	}

	center := [3]float32{5, 5, 5}
	for i := 0; i < len(mesh.Indices); i += 3 {
		v0 := mesh.Vertices[mesh.Indices[i]]
		v1 := mesh.Vertices[mesh.Indices[i+1]]
		v2 := mesh.Vertices[mesh.Indices[i+2]]

		// Winding must agree with the stored normal.
		e1 := sub(v1.Position, v0.Position)
		e2 := sub(v2.Position, v0.Position)
		if dot(cross3(e1, e2), v0.Normal) <= 0 {
			t.Fatalf("triangle %d winding disagrees with normal %v", i/3, v0.Normal)
		}
		// And the normal must face away from the solid's center.
		if dot(sub(v0.Position, center), v0.Normal) <= 0 {
			t.Fatalf("triangle %d normal %v points inward", i/3, v0.Normal)
		}
	}
}

func TestExtrudeDeterministic(t *testing.T) {
	shape := outline.Shape{
		Contour: outline.Polygon{{X: 0, Y: 0}, {X: 50, Y: -10}, {X: 100, Y: 0}, {X: 90, Y: 40}, {X: 60, Y: 20}, {X: 30, Y: 45}},
	}
	a, err := Extrude(shape, DefaultParams())
	if err != nil {
		t.Fatalf("Extrude() error: %v", err)
	}
	b, err := Extrude(shape, DefaultParams())
	if err != nil {
		t.Fatalf("Extrude() error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different meshes")
	}
}

func TestExtrudeWithHole(t *testing.T) {
	shape := outline.Shape{
		Contour: square(0, 0, 100),
		Holes:   []outline.Polygon{square(25, 25, 50).Oriented(false)},
	}
	pts, tris := triangulate(shape.Contour, shape.Holes)

	var area float64
	for i := 0; i < len(tris); i += 3 {
		area += cross(pts[tris[i]], pts[tris[i+1]], pts[tris[i+2]]) / 2
	}
	if !near(area, 10000-2500, 1e-6) {
		t.Errorf("cap area = %v, want 7500", area)
	}

	if _, err := Extrude(shape, DefaultParams()); err != nil {
		t.Fatalf("Extrude() error: %v", err)
	}
}

func TestTriangulateConcave(t *testing.T) {
	// An L shape: area 3 unit squares.
	l := outline.Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}
	pts, tris := triangulate(l, nil)
	if len(tris) != 3*(len(l)-2) {
		t.Fatalf("expected %d triangles, got %d", len(l)-2, len(tris)/3)
	}
	var area float64
	for i := 0; i < len(tris); i += 3 {
		a := cross(pts[tris[i]], pts[tris[i+1]], pts[tris[i+2]]) / 2
		if a <= 0 {
			t.Errorf("triangle %d has non-positive area %v", i/3, a)
		}
		area += a
	}
	if !near(area, 3, 1e-9) {
		t.Errorf("total area = %v, want 3", area)
	}
}

func TestExtrudeDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		shape outline.Shape
		p     Params
	}{
		{"too few points", outline.Shape{Contour: outline.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}}}, DefaultParams()},
		{"collinear", outline.Shape{Contour: outline.Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}}, DefaultParams()},
		{"zero volume", outline.Shape{Contour: square(0, 0, 1)}, Params{BevelSegments: 1, CurveSegments: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtrudeStroke(4, tt.shape, tt.p)
			if !errors.Is(err, ErrDegenerateGeometry) {
				t.Fatalf("expected ErrDegenerateGeometry, got %v", err)
			}
			var de *DegenerateGeometryError
			if errors.As(err, &de) && de.Index != 4 {
				t.Errorf("expected stroke index 4, got %d", de.Index)
			}
		})
	}
}

func TestParamsNormalize(t *testing.T) {
	p, err := Params{Depth: 1, BevelSegments: 0, CurveSegments: -3}.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if p.BevelSegments != 1 || p.CurveSegments != 1 {
		t.Errorf("expected segment counts clamped to 1, got %d/%d", p.BevelSegments, p.CurveSegments)
	}

	if _, err := (Params{Depth: -1}).Normalize(); err == nil {
		t.Error("expected error for negative depth")
	}
	if _, err := (Params{Depth: gomath.NaN()}).Normalize(); err == nil {
		t.Error("expected error for NaN depth")
	}
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
