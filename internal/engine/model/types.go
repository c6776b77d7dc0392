// Package model extrudes stroke outlines into beveled 3-D meshes.
package model

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/strokeglyph/pkg/math"
)

// ErrDegenerateGeometry is matched by every *DegenerateGeometryError.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// DegenerateGeometryError reports an extrusion that produced no area or no volume.
type DegenerateGeometryError struct {
	Index  int // stroke index, -1 when extruded outside a character
	Reason string
}

func (e *DegenerateGeometryError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("stroke %d: degenerate geometry: %s", e.Index, e.Reason)
	}
	return "degenerate geometry: " + e.Reason
}

// Is lets errors.Is match ErrDegenerateGeometry.
func (e *DegenerateGeometryError) Is(target error) bool {
	return target == ErrDegenerateGeometry
}

// Vertex represents a mesh vertex with position and normal.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh holds one extruded stroke ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	// Outline is the bounding box of the source contour in outline units,
	// before bevel growth and depth. Glyph centering uses this box.
	Outline math.Box2
	// Bounds covers every vertex, bevel and depth included.
	Bounds math.Box3
	Sphere math.Sphere
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Params controls extrusion. Bevels are always on.
type Params struct {
	Depth          float64 `yaml:"depth"`
	BevelThickness float64 `yaml:"bevel_thickness"`
	BevelSize      float64 `yaml:"bevel_size"`
	BevelSegments  int     `yaml:"bevel_segments"`
	CurveSegments  int     `yaml:"curve_segments"`
}

// DefaultParams returns the stock extrusion settings.
func DefaultParams() Params {
	return Params{
		Depth:          400,
		BevelThickness: 5,
		BevelSize:      1,
		BevelSegments:  3,
		CurveSegments:  32,
	}
}

// Normalize clamps segment counts to at least 1 and rejects negative or
// non-finite distances.
func (p Params) Normalize() (Params, error) {
	checks := []struct {
		name string
		v    float64
	}{
		{"depth", p.Depth},
		{"bevel thickness", p.BevelThickness},
		{"bevel size", p.BevelSize},
	}
	for _, c := range checks {
		if c.v < 0 || gomath.IsNaN(c.v) || gomath.IsInf(c.v, 0) {
			return p, fmt.Errorf("invalid %s %v", c.name, c.v)
		}
	}
	p.BevelSegments = max(p.BevelSegments, 1)
	p.CurveSegments = max(p.CurveSegments, 1)
	return p, nil
}
