// Package config loads the application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zappabad/tapeview/internal/replay"
	"github.com/zappabad/tapeview/internal/timeline"
)

// Config holds all application configuration. Durations are Go duration
// strings ("720h", "30s").
type Config struct {
	Playback struct {
		Window string `yaml:"window"`
		// DriftRate is a pointer so an explicit 0 (a valid, frozen playhead)
		// stays distinguishable from an absent key.
		DriftRate *float64 `yaml:"drift_rate"`
		DriftUnit string   `yaml:"drift_unit"`
		Zoom      float64  `yaml:"zoom"`
		GapFill   string   `yaml:"gap_fill"`
	} `yaml:"playback"`
	Scale struct {
		Pad        float64 `yaml:"pad"`
		Hysteresis float64 `yaml:"hysteresis"`
	} `yaml:"scale"`
	Journal struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"journal"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file yields pure defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TAPEVIEW_SQLITE_PATH"); v != "" {
		cfg.Journal.SQLitePath = v
	}
	if v := os.Getenv("TAPEVIEW_GAP_FILL"); v != "" {
		cfg.Playback.GapFill = v
	}

	// Defaults
	if cfg.Playback.Window == "" {
		cfg.Playback.Window = "720h" // 30 days
	}
	if cfg.Playback.DriftRate == nil {
		rate := 2.0
		cfg.Playback.DriftRate = &rate
	}
	if cfg.Playback.DriftUnit == "" {
		cfg.Playback.DriftUnit = "24h"
	}
	if cfg.Playback.Zoom == 0 {
		cfg.Playback.Zoom = 1
	}
	if cfg.Playback.GapFill == "" {
		cfg.Playback.GapFill = "none"
	}

	return cfg, nil
}

// ReplayConfig converts the file representation into an engine configuration.
// Degenerate playback values surface here, before any viewport exists.
func (c *Config) ReplayConfig() (replay.Config, error) {
	out := replay.DefaultConfig()

	window, err := time.ParseDuration(c.Playback.Window)
	if err != nil {
		return out, fmt.Errorf("playback.window: %w", err)
	}
	unit, err := time.ParseDuration(c.Playback.DriftUnit)
	if err != nil {
		return out, fmt.Errorf("playback.drift_unit: %w", err)
	}
	out.Viewport.WindowDuration = window
	if c.Playback.DriftRate != nil {
		out.Viewport.DriftRate = *c.Playback.DriftRate
	}
	out.Viewport.DriftUnit = unit
	out.Viewport.ZoomFactor = c.Playback.Zoom

	switch c.Playback.GapFill {
	case "none":
		out.GapFill = timeline.GapFillNone
	case "forward":
		out.GapFill = timeline.GapFillForward
	default:
		return out, fmt.Errorf("playback.gap_fill: unknown policy %q", c.Playback.GapFill)
	}

	if c.Scale.Pad > 0 {
		out.Scale.PadFraction = c.Scale.Pad
	}
	if c.Scale.Hysteresis > 0 {
		out.Scale.Hysteresis = c.Scale.Hysteresis
	}

	if err := out.Viewport.Validate(); err != nil {
		return out, fmt.Errorf("playback: %w", err)
	}
	return out, nil
}
