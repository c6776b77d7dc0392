package glyph

import (
	"fmt"
	"math"

	"github.com/Faultbox/strokeglyph/internal/animation"
	"github.com/Faultbox/strokeglyph/internal/engine/model"
)

// Noise holds the dissolve noise parameters passed through to the shader.
type Noise struct {
	Scale    float64 `yaml:"scale"`
	Strength float64 `yaml:"strength"`
	Speed    float64 `yaml:"speed"`
}

// DefaultNoise returns the stock dissolve noise.
func DefaultNoise() Noise {
	return Noise{Scale: 0.00046, Strength: 500, Speed: 0.5}
}

// Validate rejects noise parameters the shader cannot use: every field
// must be finite and not negative.
func (n Noise) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"scale", n.Scale},
		{"strength", n.Strength},
		{"speed", n.Speed},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%s must be finite and not negative, got %v", f.name, f.v)
		}
	}
	return nil
}

// Settings is every knob the controller reacts to.
type Settings struct {
	Geometry model.Params
	ZOffset  float64
	Scale    float64
	Timing   animation.TimingConfig
	Noise    Noise
}

// DefaultSettings returns the stock settings.
func DefaultSettings() Settings {
	return Settings{
		Geometry: model.DefaultParams(),
		ZOffset:  1000,
		Scale:    0.01,
		Timing:   animation.DefaultTimingConfig(),
		Noise:    DefaultNoise(),
	}
}

// Change lists what differs between two Settings.
type Change struct {
	Geometry  bool // meshes must be rebuilt
	Placement bool // z offset or scale moved
	Timing    bool // schedule must be reallocated
	Noise     bool
}

// Any reports whether anything changed.
func (c Change) Any() bool {
	return c.Geometry || c.Placement || c.Timing || c.Noise
}

// Diff compares s against next.
func (s Settings) Diff(next Settings) Change {
	return Change{
		Geometry:  s.Geometry != next.Geometry,
		Placement: s.ZOffset != next.ZOffset || s.Scale != next.Scale,
		Timing:    s.Timing != next.Timing,
		Noise:     s.Noise != next.Noise,
	}
}
