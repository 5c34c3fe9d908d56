package viewport

import (
	"errors"
	"time"
)

// Degenerate configurations are rejected at the API boundary rather than
// producing undefined playback.
var (
	ErrWindowDuration = errors.New("window duration must be positive")
	ErrDriftRate      = errors.New("drift rate must not be negative")
	ErrDriftUnit      = errors.New("drift unit must be positive")
	ErrZoomFactor     = errors.New("zoom factor must be positive")
)

// Config holds the initial playback parameters applied to every symbol's
// viewport on first access.
type Config struct {
	// WindowDuration is the fixed span of series time considered visible.
	WindowDuration time.Duration
	// DriftRate is the playback speed in drift units per real second.
	DriftRate float64
	// DriftUnit is the span of window time one drift unit advances.
	DriftUnit time.Duration
	// ZoomFactor widens (<1) or narrows (>1) the rendered window.
	ZoomFactor float64
}

// DefaultConfig returns a Config with reasonable defaults: a 30-day window
// advancing two days per real second.
func DefaultConfig() Config {
	return Config{
		WindowDuration: 30 * 24 * time.Hour,
		DriftRate:      2,
		DriftUnit:      24 * time.Hour,
		ZoomFactor:     1,
	}
}

// Validate rejects degenerate playback parameters.
func (c Config) Validate() error {
	if c.WindowDuration <= 0 {
		return ErrWindowDuration
	}
	if c.DriftRate < 0 {
		return ErrDriftRate
	}
	if c.DriftUnit <= 0 {
		return ErrDriftUnit
	}
	if c.ZoomFactor <= 0 {
		return ErrZoomFactor
	}
	return nil
}
