package replay

import (
	"github.com/zappabad/tapeview/internal/scale"
	"github.com/zappabad/tapeview/internal/timeline"
	"github.com/zappabad/tapeview/internal/viewport"
)

// Config holds configuration for the replay engine.
type Config struct {
	// Viewport is the initial playback state applied per symbol.
	Viewport viewport.Config
	// Scale controls axis padding and hysteresis.
	Scale scale.Config
	// GapFill decides how genuine no-state gaps between resolved segments
	// render.
	GapFill timeline.GapFillPolicy
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Viewport: viewport.DefaultConfig(),
		Scale:    scale.DefaultConfig(),
		GapFill:  timeline.GapFillNone,
	}
}
