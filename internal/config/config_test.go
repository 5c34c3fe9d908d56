package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/tapeview/internal/timeline"
	"github.com/zappabad/tapeview/internal/viewport"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "720h", cfg.Playback.Window)
	require.NotNil(t, cfg.Playback.DriftRate)
	assert.Equal(t, 2.0, *cfg.Playback.DriftRate)
	assert.Equal(t, "24h", cfg.Playback.DriftUnit)
	assert.Equal(t, 1.0, cfg.Playback.Zoom)
	assert.Equal(t, "none", cfg.Playback.GapFill)
	assert.Empty(t, cfg.Journal.SQLitePath)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapeview.yaml")
	data := `
playback:
  window: 168h
  drift_rate: 5
  gap_fill: forward
scale:
  pad: 0.15
journal:
  sqlite_path: /tmp/sessions.db
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "168h", cfg.Playback.Window)
	require.NotNil(t, cfg.Playback.DriftRate)
	assert.Equal(t, 5.0, *cfg.Playback.DriftRate)
	assert.Equal(t, "forward", cfg.Playback.GapFill)
	// Unset fields still get defaults.
	assert.Equal(t, "24h", cfg.Playback.DriftUnit)
	assert.Equal(t, 0.15, cfg.Scale.Pad)
	assert.Equal(t, "/tmp/sessions.db", cfg.Journal.SQLitePath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TAPEVIEW_SQLITE_PATH", "/var/lib/tapeview/env.db")
	t.Setenv("TAPEVIEW_GAP_FILL", "forward")

	path := filepath.Join(t.TempDir(), "tapeview.yaml")
	data := `
journal:
  sqlite_path: /tmp/file.db
playback:
  gap_fill: none
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/tapeview/env.db", cfg.Journal.SQLitePath)
	assert.Equal(t, "forward", cfg.Playback.GapFill)
}

func TestLoadExplicitZeroDriftRateIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapeview.yaml")
	data := `
playback:
  drift_rate: 0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Zero is a valid rate (frozen playhead), not an unset key.
	require.NotNil(t, cfg.Playback.DriftRate)
	assert.Equal(t, 0.0, *cfg.Playback.DriftRate)

	rc, err := cfg.ReplayConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.0, rc.Viewport.DriftRate)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapeview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("playback: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestReplayConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	rc, err := cfg.ReplayConfig()
	require.NoError(t, err)

	assert.Equal(t, 720*time.Hour, rc.Viewport.WindowDuration)
	assert.Equal(t, 2.0, rc.Viewport.DriftRate)
	assert.Equal(t, 24*time.Hour, rc.Viewport.DriftUnit)
	assert.Equal(t, timeline.GapFillNone, rc.GapFill)
}

func TestReplayConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unparsable window", func(c *Config) { c.Playback.Window = "thirty days" }},
		{"unparsable drift unit", func(c *Config) { c.Playback.DriftUnit = "1 day" }},
		{"unknown gap fill", func(c *Config) { c.Playback.GapFill = "interpolate" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			_, err = cfg.ReplayConfig()
			assert.Error(t, err)
		})
	}
}

func TestReplayConfigSurfacesViewportValidation(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Playback.Window = "-24h"

	_, err = cfg.ReplayConfig()
	assert.ErrorIs(t, err, viewport.ErrWindowDuration)
}
