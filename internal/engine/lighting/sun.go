// Package lighting provides the directional key light used to shade strokes.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/strokeglyph/pkg/math"
)

// KeyLight is a directional light given as angles in degrees. Azimuth turns
// around Y starting from +Z (the viewer side of the glyph), elevation lifts
// it above the XZ plane.
type KeyLight struct {
	Azimuth   float64 `yaml:"azimuth"`
	Elevation float64 `yaml:"elevation"`
}

// DefaultKeyLight lights the glyph from the upper right, in front.
func DefaultKeyLight() KeyLight {
	return KeyLight{Azimuth: 20, Elevation: 30}
}

// Toward returns the unit vector pointing from the scene to the light.
func (k KeyLight) Toward() math.Vec3 {
	az := k.Azimuth * gomath.Pi / 180
	el := k.Elevation * gomath.Pi / 180

	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
}

// Direction returns the direction the light travels, as shaders expect it.
func (k KeyLight) Direction() math.Vec3 {
	return k.Toward().Scale(-1)
}
