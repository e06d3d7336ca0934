// Package config loads the optional easel.yaml settings file for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the optional easel.yaml configuration.
type Config struct {
	Export ExportConfig `yaml:"export"`
}

// ExportConfig contains deterministic export settings.
type ExportConfig struct {
	FPS        int     `yaml:"fps,omitempty"`
	Scale      float64 `yaml:"scale,omitempty"`
	Background string  `yaml:"background,omitempty"`
	OutDir     string  `yaml:"out,omitempty"`
}

// Resolved contains export settings with defaults applied.
type Resolved struct {
	FPS        int
	Scale      float64
	Background string
	OutDir     string
}

// LoadOptional reads easel.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "easel.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read easel.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse easel.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads easel.yaml (if present) and applies defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		FPS:        cfg.Export.FPS,
		Scale:      cfg.Export.Scale,
		Background: cfg.Export.Background,
		OutDir:     cfg.Export.OutDir,
	}
	if r.FPS == 0 {
		r.FPS = 30
	}
	if r.Scale == 0 {
		r.Scale = 1
	}
	if r.Background == "" {
		r.Background = "#000000"
	}
	if r.OutDir == "" {
		r.OutDir = "frames"
	}

	if r.FPS < 1 || r.FPS > 240 {
		return nil, fmt.Errorf("export.fps must be between 1 and 240, got %d", r.FPS)
	}
	if r.Scale <= 0 {
		return nil, fmt.Errorf("export.scale must be positive, got %v", r.Scale)
	}
	if _, err := ParseColor(r.Background); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseColor parses a #RRGGBB hex color.
func ParseColor(s string) ([3]uint8, error) {
	var c [3]uint8
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("invalid color %q, want #RRGGBB", s)
	}
	for i := range 3 {
		hi, ok1 := hexVal(s[1+i*2])
		lo, ok2 := hexVal(s[2+i*2])
		if !ok1 || !ok2 {
			return c, fmt.Errorf("invalid color %q, want #RRGGBB", s)
		}
		c[i] = hi<<4 | lo
	}
	return c, nil
}

func hexVal(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
