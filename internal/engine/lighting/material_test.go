package lighting

import (
	gomath "math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ffffff", Color{1, 1, 1}, false},
		{"000000", Color{0, 0, 0}, false},
		{"#FF0000", Color{1, 0, 0}, false},
		{"#fff", Color{}, true},
		{"#gg0000", Color{}, true},
		{"", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q): expected error %v, got %v", tt.in, tt.wantErr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#00839d", "#1c1c1c", "#ff8c26"} {
		if got := MustHex(s).Hex(); got != s {
			t.Errorf("expected %s, got %s", s, got)
		}
	}
}

func TestMaterialYAML(t *testing.T) {
	var m Material
	src := "color: '#ff0000'\nalpha: 0.25\nfog_color: '#00839d'\n"
	if err := yaml.Unmarshal([]byte(src), &m); err != nil {
		t.Fatalf("yaml.Unmarshal() error: %v", err)
	}
	if m.Color != (Color{1, 0, 0}) {
		t.Errorf("expected red, got %v", m.Color)
	}
	if m.Alpha != 0.25 {
		t.Errorf("expected alpha 0.25, got %v", m.Alpha)
	}

	out, err := yaml.Marshal(m)
	if err != nil {
		t.Fatalf("yaml.Marshal() error: %v", err)
	}
	if !strings.Contains(string(out), "#00839d") {
		t.Errorf("expected hex fog color in output, got:\n%s", out)
	}
	var back Material
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("yaml.Unmarshal() of marshaled material error: %v", err)
	}
	if back != m {
		t.Errorf("expected %+v after round trip, got %+v", m, back)
	}

	if err := yaml.Unmarshal([]byte("color: blue\n"), &m); err == nil {
		t.Error("expected error for a named color")
	}
}

func TestMaterialValidate(t *testing.T) {
	if err := DefaultMaterial().Validate(); err != nil {
		t.Fatalf("default material invalid: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Material)
	}{
		{"alpha above one", func(m *Material) { m.Alpha = 1.5 }},
		{"negative alpha", func(m *Material) { m.Alpha = -0.1 }},
		{"NaN fresnel", func(m *Material) { m.FresnelPower = gomath.NaN() }},
		{"negative fog", func(m *Material) { m.FogDensity = -1 }},
		{"infinite fog", func(m *Material) { m.FogDensity = gomath.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultMaterial()
			tt.modify(&m)
			if err := m.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
