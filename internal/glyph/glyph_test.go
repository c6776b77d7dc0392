package glyph

import (
	"context"
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/strokeglyph/internal/animation"
	"github.com/Faultbox/strokeglyph/internal/charinput"
	"github.com/Faultbox/strokeglyph/internal/engine/model"
	"github.com/Faultbox/strokeglyph/internal/outlines"
	"github.com/Faultbox/strokeglyph/internal/timing"
	"github.com/Faultbox/strokeglyph/pkg/outline"
)

var testStrokes = []string{
	"M 0 0 L 100 0 L 100 100 L 0 100 Z",
	"M 200 0 L 300 0 L 300 100 L 200 100 Z",
	"M 0 200 L 300 200 L 300 300 L 0 300 Z",
}

func testParams() model.Params {
	return model.Params{Depth: 10, BevelThickness: 1, BevelSize: 1, BevelSegments: 1, CurveSegments: 4}
}

func TestPoolBuild(t *testing.T) {
	p := NewPool()
	report, err := p.Build(testStrokes, testParams())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if report.Built != 3 || len(report.Skipped) != 0 {
		t.Errorf("expected 3 built, 0 skipped; got %d, %d", report.Built, len(report.Skipped))
	}

	l := p.Layout()
	if l.OffsetX != -150 || l.OffsetY != -150 {
		t.Errorf("offset = (%v, %v), want (-150, -150)", l.OffsetX, l.OffsetY)
	}
}

func TestPoolSkipsBadStroke(t *testing.T) {
	for k := range testStrokes {
		strokes := append([]string(nil), testStrokes...)
		strokes[k] = "M 0 0 L nonsense"

		p := NewPool()
		report, err := p.Build(strokes, testParams())
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		if report.Built != len(strokes)-1 {
			t.Errorf("k=%d: expected %d built, got %d", k, len(strokes)-1, report.Built)
		}
		if len(report.Skipped) != 1 || report.Skipped[0].Index != k {
			t.Fatalf("k=%d: expected stroke %d skipped, got %+v", k, k, report.Skipped)
		}
		if !errors.Is(report.Skipped[0].Err, outline.ErrMalformedOutline) {
			t.Errorf("k=%d: expected ErrMalformedOutline, got %v", k, report.Skipped[0].Err)
		}
		for i := 0; i < p.Len(); i++ {
			if (p.Mesh(i) == nil) != (i == k) {
				t.Errorf("k=%d: stroke %d mesh presence wrong", k, i)
			}
		}
	}
}

func TestPoolSkipsDegenerateStroke(t *testing.T) {
	strokes := []string{testStrokes[0], "M 0 0 L 10 0 L 20 0 L 5 0 Z"}
	report, err := NewPool().Build(strokes, testParams())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if report.Built != 1 || len(report.Skipped) != 1 || report.Skipped[0].Index != 1 {
		t.Errorf("expected stroke 1 skipped, got %+v", report)
	}
}

func TestPoolReleasesOldMeshes(t *testing.T) {
	p := NewPool()
	var released [][]*model.Mesh
	p.OnRelease = func(m []*model.Mesh) { released = append(released, m) }

	if _, err := p.Build(testStrokes, testParams()); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	first := p.Mesh(0)
	gen := p.Generation()

	if _, err := p.Build(testStrokes[:1], testParams()); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(released) != 1 || len(released[0]) != 3 || released[0][0] != first {
		t.Fatalf("expected the 3 old meshes released once, got %v", released)
	}
	if p.Len() != 1 {
		t.Errorf("expected 1 stroke slot, got %d", p.Len())
	}
	if p.Generation() <= gen {
		t.Errorf("generation did not advance: %d -> %d", gen, p.Generation())
	}

	p.Release()
	if len(released) != 2 || p.Len() != 0 {
		t.Errorf("Release() should free the last set, got %d releases, %d slots", len(released), p.Len())
	}
	p.Release()
	if len(released) != 2 {
		t.Error("releasing an empty pool should not call OnRelease")
	}
}

func TestPoolInvalidParamsKeepsMeshes(t *testing.T) {
	p := NewPool()
	if _, err := p.Build(testStrokes, testParams()); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if _, err := p.Build(testStrokes[:1], model.Params{Depth: -5}); err == nil {
		t.Fatal("expected error for negative depth")
	}
	if p.Len() != 3 {
		t.Errorf("expected old meshes kept, got %d slots", p.Len())
	}
}

func TestPlacements(t *testing.T) {
	p := NewPool()
	if _, err := p.Build(testStrokes, testParams()); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	pl := p.Placements(1000, 0.01)
	for i, pp := range pl {
		want := gomath.Sin(float64(i)*0.8) * 1000
		if gomath.Abs(float64(pp.Offset.Z)-want) > 1e-3 {
			t.Errorf("stroke %d: z = %v, want %v", i, pp.Offset.Z, want)
		}
		if pp.Offset.X != -150 || pp.Offset.Y != -150 {
			t.Errorf("stroke %d: centering offset (%v, %v)", i, pp.Offset.X, pp.Offset.Y)
		}
		if pp.Scale != 0.01 {
			t.Errorf("stroke %d: scale %v", i, pp.Scale)
		}
	}
	if pl[0].Offset.Z != 0 {
		t.Errorf("stroke 0 should sit at depth 0, got %v", pl[0].Offset.Z)
	}

	// The model matrix maps the glyph center to the origin.
	c := pl[0].Model().TransformPoint([3]float32{150, 150, 0})
	if gomath.Abs(float64(c[0])) > 1e-6 || gomath.Abs(float64(c[1])) > 1e-6 {
		t.Errorf("center maps to %v, want origin", c)
	}
}

func TestPlacementPlace(t *testing.T) {
	p := NewPool()
	if _, err := p.Build(testStrokes, testParams()); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	pl := p.Placements(1000, 0.01)

	tests := []struct {
		stroke int
		want   [4]float64
	}{
		{0, [4]float64{-1.5, -1.5, -0.5, -0.5}},
		{1, [4]float64{0.5, -1.5, 1.5, -0.5}},
		{2, [4]float64{-1.5, 0.5, 1.5, 1.5}},
	}
	for _, tt := range tests {
		b := pl[tt.stroke].Place(p.Mesh(tt.stroke).Outline)
		got := [4]float64{b.MinX, b.MinY, b.MaxX, b.MaxY}
		for k := range got {
			if gomath.Abs(got[k]-tt.want[k]) > 1e-5 {
				t.Errorf("stroke %d: expected %v, got %v", tt.stroke, tt.want, got)
				break
			}
		}
	}
}

func newTestController(t *testing.T, trigger *animation.TriggerCounter) *Controller {
	t.Helper()
	src := outlines.StaticSource{
		"永": {Strokes: testStrokes},
		"一": {Strokes: testStrokes[:1]},
	}
	s := DefaultSettings()
	s.Geometry = testParams()
	return NewController(src, trigger, timing.NewRand(7), s)
}

func TestControllerLoadCharacter(t *testing.T) {
	c := newTestController(t, nil)
	ctx := context.Background()

	report, err := c.LoadCharacter(ctx, 0, "永远")
	if err != nil {
		t.Fatalf("LoadCharacter() error: %v", err)
	}
	if c.Character() != "永" {
		t.Errorf("expected input truncated to 永, got %q", c.Character())
	}
	if f := c.Fetch(ctx, "永远"); !f.Truncated {
		t.Error("expected fetch of 永远 marked truncated")
	}
	if f := c.Fetch(ctx, "永"); f.Truncated {
		t.Error("single character fetch should not be marked truncated")
	}
	if report.Built != 3 {
		t.Errorf("expected 3 strokes built, got %d", report.Built)
	}

	frames := c.Frame(0)
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.Index != i {
			t.Errorf("frame %d has index %d", i, f.Index)
		}
		if f.Uniforms.RevealStrength != animation.Hidden {
			t.Errorf("stroke %d: expected hidden at start, got %v", i, f.Uniforms.RevealStrength)
		}
		if f.Uniforms.NoiseScale != DefaultNoise().Scale {
			t.Errorf("stroke %d: noise scale %v", i, f.Uniforms.NoiseScale)
		}
	}

	end := timing.Total(c.Orchestrator().Timings())
	for _, f := range c.Frame(end) {
		if f.Uniforms.RevealStrength != animation.Visible {
			t.Errorf("stroke %d: expected visible at end, got %v", f.Index, f.Uniforms.RevealStrength)
		}
	}
	if !c.Done(end) {
		t.Error("expected reveal done")
	}
}

func TestControllerKeepsCharacterOnMiss(t *testing.T) {
	c := newTestController(t, nil)
	ctx := context.Background()
	if _, err := c.LoadCharacter(ctx, 0, "永"); err != nil {
		t.Fatalf("LoadCharacter() error: %v", err)
	}
	gen := c.Pool().Generation()

	_, err := c.LoadCharacter(ctx, 100, "龍")
	if !errors.Is(err, outlines.ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
	if c.Character() != "永" || c.Pool().Len() != 3 || c.Pool().Generation() != gen {
		t.Error("previous character must stay in place after a failed load")
	}

	if _, err := c.LoadCharacter(ctx, 100, "  "); !errors.Is(err, charinput.ErrInvalidCharacter) {
		t.Errorf("expected ErrInvalidCharacter, got %v", err)
	}
}

func TestControllerApplyConfig(t *testing.T) {
	c := newTestController(t, nil)
	if _, err := c.LoadCharacter(context.Background(), 0, "永"); err != nil {
		t.Fatalf("LoadCharacter() error: %v", err)
	}
	gen := c.Pool().Generation()

	s := c.Settings()
	s.Timing.TotalDuration = 9000
	ch, err := c.ApplyConfig(10, s)
	if err != nil {
		t.Fatalf("ApplyConfig() error: %v", err)
	}
	if !ch.Timing || ch.Geometry || ch.Noise {
		t.Errorf("expected timing-only change, got %+v", ch)
	}
	if c.Pool().Generation() != gen {
		t.Error("timing change must not rebuild geometry")
	}

	s.Geometry.Depth = 50
	if ch, err = c.ApplyConfig(20, s); err != nil {
		t.Fatalf("ApplyConfig() error: %v", err)
	}
	if !ch.Geometry || ch.Timing {
		t.Errorf("expected geometry-only change, got %+v", ch)
	}
	if c.Pool().Generation() == gen {
		t.Error("geometry change must rebuild meshes")
	}
	if got := c.Pool().Params().Depth; got != 50 {
		t.Errorf("expected depth 50, got %v", got)
	}

	s.Noise.Strength = 42
	s.ZOffset = 0
	if ch, err = c.ApplyConfig(30, s); err != nil {
		t.Fatalf("ApplyConfig() error: %v", err)
	}
	if !ch.Noise || !ch.Placement || ch.Geometry {
		t.Errorf("expected noise and placement change, got %+v", ch)
	}
	for _, f := range c.Frame(40) {
		if f.Uniforms.NoiseStrength != 42 {
			t.Errorf("stroke %d: noise strength %v, want 42", f.Index, f.Uniforms.NoiseStrength)
		}
		if f.Placement.Offset.Z != 0 {
			t.Errorf("stroke %d: expected no depth jitter, got %v", f.Index, f.Placement.Offset.Z)
		}
	}

	if ch, _ := c.ApplyConfig(50, s); ch.Any() {
		t.Errorf("expected no change, got %+v", ch)
	}
}

func TestControllerReplayTrigger(t *testing.T) {
	trigger := &animation.TriggerCounter{}
	c := newTestController(t, trigger)
	if _, err := c.LoadCharacter(context.Background(), 0, "永"); err != nil {
		t.Fatalf("LoadCharacter() error: %v", err)
	}
	before := c.Orchestrator().Timings()
	c.Frame(100000)

	trigger.Bump()
	frames := c.Frame(200000)
	if c.Orchestrator().Replays() != 1 {
		t.Fatalf("expected 1 replay, got %d", c.Orchestrator().Replays())
	}
	for i, f := range frames {
		if f.Uniforms.RevealStrength != animation.Hidden {
			t.Errorf("stroke %d: expected hidden after replay, got %v", i, f.Uniforms.RevealStrength)
		}
	}
	after := c.Orchestrator().Timings()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("stroke %d: replay changed timing %v -> %v", i, before[i], after[i])
		}
	}
}

func TestNoiseValidate(t *testing.T) {
	tests := []struct {
		name  string
		noise Noise
		ok    bool
	}{
		{"defaults", DefaultNoise(), true},
		{"zero", Noise{}, true},
		{"NaN scale", Noise{Scale: gomath.NaN(), Strength: 1, Speed: 1}, false},
		{"infinite strength", Noise{Scale: 1, Strength: gomath.Inf(1), Speed: 1}, false},
		{"negative speed", Noise{Scale: 1, Strength: 1, Speed: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.noise.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}
