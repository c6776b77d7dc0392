package lighting

import (
	gomath "math"
	"testing"
)

func TestKeyLightToward(t *testing.T) {
	tests := []struct {
		name    string
		light   KeyLight
		x, y, z float64
	}{
		{"front", KeyLight{0, 0}, 0, 0, 1},
		{"right", KeyLight{90, 0}, 1, 0, 0},
		{"overhead", KeyLight{0, 90}, 0, 1, 0},
		{"behind", KeyLight{180, 0}, 0, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.light.Toward()
			if gomath.Abs(float64(v.X)-tt.x) > 1e-6 || gomath.Abs(float64(v.Y)-tt.y) > 1e-6 || gomath.Abs(float64(v.Z)-tt.z) > 1e-6 {
				t.Errorf("expected (%v, %v, %v), got %+v", tt.x, tt.y, tt.z, v)
			}
		})
	}
}

func TestKeyLightDirectionIsUnitAndOpposite(t *testing.T) {
	k := DefaultKeyLight()
	d := k.Direction()
	if l := d.Length(); gomath.Abs(float64(l)-1) > 1e-6 {
		t.Errorf("expected unit direction, got length %v", l)
	}
	if dot := d.Dot(k.Toward()); gomath.Abs(float64(dot)+1) > 1e-6 {
		t.Errorf("expected direction opposite to Toward, got dot %v", dot)
	}
	// Default light sits in front of and above the glyph.
	if d.Z >= 0 || d.Y >= 0 {
		t.Errorf("expected light travelling down and into the scene, got %+v", d)
	}
}
