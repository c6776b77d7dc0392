// Package config handles viewer and tool configuration loading and management.
package config

import (
	"path/filepath"
	"time"

	"github.com/Faultbox/strokeglyph/internal/animation"
	"github.com/Faultbox/strokeglyph/internal/engine/camera"
	"github.com/Faultbox/strokeglyph/internal/engine/lighting"
	"github.com/Faultbox/strokeglyph/internal/engine/model"
	"github.com/Faultbox/strokeglyph/internal/glyph"
	"github.com/Faultbox/strokeglyph/internal/outlines"
)

// Config holds all settings.
type Config struct {
	Geometry  GeometryConfig    `yaml:"geometry"`
	Animation AnimationConfig   `yaml:"animation"`
	Noise     glyph.Noise       `yaml:"noise"`
	Light     lighting.KeyLight `yaml:"light"`
	Material  lighting.Material `yaml:"material"`
	Source    SourceConfig      `yaml:"source"`
	Window    WindowConfig      `yaml:"window"`
	Logging   LoggingConfig     `yaml:"logging"`
}

// GeometryConfig holds extrusion and placement settings.
type GeometryConfig struct {
	model.Params `yaml:",inline"`
	ZOffset      float64 `yaml:"z_offset"`
	Scale        float64 `yaml:"scale"`
}

// AnimationConfig holds the reveal schedule settings.
type AnimationConfig struct {
	animation.TimingConfig `yaml:",inline"`
	Seed                   uint64 `yaml:"seed"`      // 0 seeds from entropy
	Character              string `yaml:"character"` // shown at startup
}

// SourceConfig holds where outline data comes from.
type SourceConfig struct {
	BaseURL   string        `yaml:"base_url"`
	DataDir   string        `yaml:"data_dir"`
	CachePath string        `yaml:"cache_path"`
	Timeout   time.Duration `yaml:"timeout"`
}

// WindowConfig holds display settings for the viewer.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	ShowFPS    bool `yaml:"show_fps"`
	// Projection is "perspective" or "orthographic".
	Projection string `yaml:"projection"`
	// ScreenshotDir receives F12 captures. Empty means the working directory.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	s := glyph.DefaultSettings()
	return &Config{
		Geometry: GeometryConfig{
			Params:  s.Geometry,
			ZOffset: s.ZOffset,
			Scale:   s.Scale,
		},
		Animation: AnimationConfig{
			TimingConfig: s.Timing,
			Character:    "永",
		},
		Noise:    s.Noise,
		Light:    lighting.DefaultKeyLight(),
		Material: lighting.DefaultMaterial(),
		Source: SourceConfig{
			BaseURL:   outlines.DefaultBaseURL,
			CachePath: filepath.Join(ConfigDir(), "outlines.sqlite"),
			Timeout:   10 * time.Second,
		},
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			VSync:      true,
			Projection: string(camera.ProjectionPerspective),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Settings returns the part of the config the glyph controller consumes.
func (c *Config) Settings() glyph.Settings {
	return glyph.Settings{
		Geometry: c.Geometry.Params,
		ZOffset:  c.Geometry.ZOffset,
		Scale:    c.Geometry.Scale,
		Timing:   c.Animation.TimingConfig,
		Noise:    c.Noise,
	}
}

// SourceOptions returns the outline source options.
func (c *Config) SourceOptions() outlines.Options {
	return outlines.Options{
		BaseURL:   c.Source.BaseURL,
		DataDir:   c.Source.DataDir,
		CachePath: c.Source.CachePath,
		Timeout:   c.Source.Timeout,
	}
}
