package lighting

import (
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is a linear RGB triple. In YAML it is written as "#rrggbb".
type Color [3]float32

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// MustHex is ParseHex for literals.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	var b [3]uint8
	for i, v := range c {
		b[i] = uint8(gomath.Round(float64(min(max(v, 0), 1)) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", b[0], b[1], b[2])
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

// Material shades the stroke surface: a translucent base color with a
// fresnel rim, an edge glow on the dissolve front and exponential fog.
type Material struct {
	Color        Color   `yaml:"color"`
	Alpha        float64 `yaml:"alpha"`
	FresnelColor Color   `yaml:"fresnel_color"`
	FresnelPower float64 `yaml:"fresnel_power"`
	EdgeColor    Color   `yaml:"edge_color"`
	FogColor     Color   `yaml:"fog_color"`
	FogDensity   float64 `yaml:"fog_density"`
}

// DefaultMaterial returns half transparent white strokes in teal fog.
func DefaultMaterial() Material {
	return Material{
		Color:        MustHex("#ffffff"),
		Alpha:        0.5,
		FresnelColor: MustHex("#ffffff"),
		FresnelPower: 2,
		EdgeColor:    MustHex("#ff8c26"),
		FogColor:     MustHex("#00839d"),
		FogDensity:   0.003,
	}
}

// Validate rejects values the shader cannot use.
func (m Material) Validate() error {
	checks := []struct {
		name     string
		v        float64
		min, max float64
	}{
		{"alpha", m.Alpha, 0, 1},
		{"fresnel power", m.FresnelPower, 0, gomath.Inf(1)},
		{"fog density", m.FogDensity, 0, gomath.Inf(1)},
	}
	for _, c := range checks {
		if gomath.IsNaN(c.v) || gomath.IsInf(c.v, 0) || c.v < c.min || c.v > c.max {
			return fmt.Errorf("invalid %s %v", c.name, c.v)
		}
	}
	return nil
}
