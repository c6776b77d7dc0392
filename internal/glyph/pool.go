// Package glyph owns the meshes of the character on screen and ties outline
// loading, extrusion, layout and animation together.
package glyph

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/strokeglyph/internal/engine/layout"
	"github.com/Faultbox/strokeglyph/internal/engine/model"
	"github.com/Faultbox/strokeglyph/internal/logger"
	"github.com/Faultbox/strokeglyph/pkg/math"
	"github.com/Faultbox/strokeglyph/pkg/outline"
)

// ZJitterFrequency spaces strokes in depth: stroke i sits at
// sin(i*ZJitterFrequency)*zOffset.
const ZJitterFrequency = 0.8

// SkippedStroke records a stroke that produced no mesh.
type SkippedStroke struct {
	Index int
	Err   error
}

// BuildReport summarizes one Build call.
type BuildReport struct {
	Strokes    int // strokes in the source list
	Built      int
	Skipped    []SkippedStroke
	Triangles  int
	Generation uint64
}

// Placement positions one stroke mesh in glyph space.
type Placement struct {
	Offset math.Vec3 // centering offset plus depth jitter, outline units
	Scale  float32   // uniform group scale
}

// Model returns the model matrix: translate by Offset, then scale.
func (p Placement) Model() math.Mat4 {
	return math.ScaleTranslate(p.Scale, p.Offset)
}

// Place maps an outline box into world space, ignoring depth.
func (p Placement) Place(b math.Box2) math.Box2 {
	m := p.Model()
	lo := m.TransformPoint([3]float32{float32(b.MinX), float32(b.MinY), 0})
	hi := m.TransformPoint([3]float32{float32(b.MaxX), float32(b.MaxY), 0})
	return math.Box2{
		MinX: float64(lo[0]), MinY: float64(lo[1]),
		MaxX: float64(hi[0]), MaxY: float64(hi[1]),
	}
}

// ReleaseFunc is told about meshes that have been superseded so it can free
// whatever it uploaded for them.
type ReleaseFunc func(meshes []*model.Mesh)

// Pool holds the meshes of the current character, indexed by stroke.
// Skipped strokes keep their index with a nil mesh.
type Pool struct {
	// OnRelease, if set, is called with the old meshes whenever they are
	// replaced or released.
	OnRelease ReleaseFunc

	meshes     []*model.Mesh
	layout     layout.Layout
	params     model.Params
	generation uint64
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{layout: layout.Aggregate(nil)}
}

// Build parses and extrudes every outline. Strokes that fail are logged
// with their index and skipped; the rest are built. The previous meshes are
// released before the new set is installed, and the layout is recomputed
// from scratch. Only invalid params fail the whole build, leaving the pool
// untouched.
func (p *Pool) Build(outlines []string, params model.Params) (BuildReport, error) {
	params, err := params.Normalize()
	if err != nil {
		return BuildReport{}, fmt.Errorf("extrusion params: %w", err)
	}

	log := logger.Named("pool")
	report := BuildReport{Strokes: len(outlines)}
	meshes := make([]*model.Mesh, len(outlines))
	boxes := make([]math.Box2, 0, len(outlines))

	for i, d := range outlines {
		shape, err := outline.ParseStroke(i, d, params.CurveSegments)
		if err == nil {
			meshes[i], err = model.ExtrudeStroke(i, shape, params)
		}
		if err != nil {
			log.Warn("skipping stroke", zap.Int("stroke", i), zap.Error(err))
			report.Skipped = append(report.Skipped, SkippedStroke{Index: i, Err: err})
			continue
		}
		boxes = append(boxes, meshes[i].Outline)
		report.Built++
		report.Triangles += meshes[i].TriangleCount()
	}

	p.Release()
	p.meshes = meshes
	p.params = params
	p.layout = layout.Aggregate(boxes)
	p.generation++
	report.Generation = p.generation

	log.Debug("pool built",
		zap.Int("strokes", report.Strokes),
		zap.Int("built", report.Built),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("triangles", report.Triangles),
		zap.Uint64("generation", p.generation))
	return report, nil
}

// Release frees every mesh and empties the pool.
func (p *Pool) Release() {
	if len(p.meshes) == 0 {
		return
	}
	if p.OnRelease != nil {
		live := make([]*model.Mesh, 0, len(p.meshes))
		for _, m := range p.meshes {
			if m != nil {
				live = append(live, m)
			}
		}
		p.OnRelease(live)
	}
	p.meshes = nil
	p.layout = layout.Aggregate(nil)
	p.generation++
}

// Len returns the number of stroke slots, skipped strokes included.
func (p *Pool) Len() int {
	return len(p.meshes)
}

// Mesh returns the mesh of stroke i, nil if it was skipped.
func (p *Pool) Mesh(i int) *model.Mesh {
	return p.meshes[i]
}

// Layout returns the layout of the current meshes.
func (p *Pool) Layout() layout.Layout {
	return p.layout
}

// Params returns the extrusion params of the current meshes.
func (p *Pool) Params() model.Params {
	return p.params
}

// Generation increments every time the mesh set changes.
func (p *Pool) Generation() uint64 {
	return p.generation
}

// Placements returns one placement per stroke slot.
func (p *Pool) Placements(zOffset, scale float64) []Placement {
	off := p.layout.Offset()
	out := make([]Placement, len(p.meshes))
	for i := range out {
		o := off
		o.Z = float32(ZJitter(i, zOffset))
		out[i] = Placement{Offset: o, Scale: float32(scale)}
	}
	return out
}

// ZJitter returns the depth offset of stroke i.
func ZJitter(i int, zOffset float64) float64 {
	return gomath.Sin(float64(i)*ZJitterFrequency) * zOffset
}
