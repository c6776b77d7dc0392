package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/strokeglyph/internal/engine/camera"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if _, err := c.Geometry.Params.Normalize(); err != nil {
		return fmt.Errorf("geometry: %w", err)
	}
	if c.Geometry.Scale <= 0 {
		return fmt.Errorf("geometry: scale must be positive, got %v", c.Geometry.Scale)
	}
	if c.Animation.TotalDuration < 0 || c.Animation.MinStrokeDuration <= 0 {
		return fmt.Errorf("animation: durations must be positive (total %v, min %v)",
			c.Animation.TotalDuration, c.Animation.MinStrokeDuration)
	}
	if err := c.Noise.Validate(); err != nil {
		return fmt.Errorf("noise: %w", err)
	}
	if err := c.Material.Validate(); err != nil {
		return fmt.Errorf("material: %w", err)
	}
	if _, err := camera.ParseProjection(c.Window.Projection); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "StrokeGlyph")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "StrokeGlyph")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "strokeglyph")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "strokeglyph")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// LoadFile loads defaults overlaid with a single file, ignoring CLI flags.
// An empty path returns the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
