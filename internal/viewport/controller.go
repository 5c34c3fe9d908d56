// Package viewport owns the virtual playhead: per-symbol playback state with
// play/pause/seek/reset navigation and frame-rate-independent advancement.
package viewport

import (
	"errors"
	"time"
)

// ErrUnknownSymbol is returned by navigation operations on a symbol that was
// never acquired.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Controller owns the ViewportState map, keyed by instrument symbol so that
// switching symbols restores independent playback state. States are created
// on first access and live until evicted at session end.
//
// The controller is single-threaded by design: it is driven from the host's
// frame loop and must not be shared across goroutines.
type Controller struct {
	cfg    Config
	states map[string]*State
}

// NewController validates the playback configuration and returns an empty
// controller.
func NewController(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:    cfg,
		states: make(map[string]*State),
	}, nil
}

// Acquire returns the symbol's viewport state, creating it from the
// controller config on first access. seriesDuration is the full span the
// symbol's series covers; passing a new value re-clamps the playhead.
func (c *Controller) Acquire(symbol string, seriesDuration time.Duration) *State {
	st, ok := c.states[symbol]
	if !ok {
		st = &State{
			WindowDuration: c.cfg.WindowDuration,
			DriftRate:      c.cfg.DriftRate,
			DriftUnit:      c.cfg.DriftUnit,
			ZoomFactor:     c.cfg.ZoomFactor,
		}
		c.states[symbol] = st
	}
	st.setSeriesDuration(seriesDuration)
	return st
}

// State returns the symbol's viewport state without creating one.
func (c *Controller) State(symbol string) (*State, bool) {
	st, ok := c.states[symbol]
	return st, ok
}

// Play starts playback. No-op when already playing.
func (c *Controller) Play(symbol string) error {
	st, ok := c.states[symbol]
	if !ok {
		return ErrUnknownSymbol
	}
	st.Playing = true
	return nil
}

// Pause stops playback, retaining the playhead. No-op when already paused.
func (c *Controller) Pause(symbol string) error {
	st, ok := c.states[symbol]
	if !ok {
		return ErrUnknownSymbol
	}
	st.Playing = false
	return nil
}

// Seek sets the playhead to an absolute offset in milliseconds, clamped to
// the navigable range. Manual scrubbing overrides autoplay, so seeking always
// pauses.
func (c *Controller) Seek(symbol string, positionMs float64) error {
	st, ok := c.states[symbol]
	if !ok {
		return ErrUnknownSymbol
	}
	st.PositionMs = positionMs
	st.clamp()
	st.Playing = false
	return nil
}

// SeekFraction seeks to a fraction of the navigable range.
func (c *Controller) SeekFraction(symbol string, fraction float64) error {
	st, ok := c.states[symbol]
	if !ok {
		return ErrUnknownSymbol
	}
	return c.Seek(symbol, fraction*st.maxPositionMs)
}

// Reset rewinds to the start and pauses.
func (c *Controller) Reset(symbol string) error {
	return c.Seek(symbol, 0)
}

// JumpToEnd moves to the last navigable position and pauses.
func (c *Controller) JumpToEnd(symbol string) error {
	st, ok := c.states[symbol]
	if !ok {
		return ErrUnknownSymbol
	}
	return c.Seek(symbol, st.maxPositionMs)
}

// SetDriftRate changes the playback speed. It takes effect on the next tick;
// elapsed drift is never rescaled retroactively.
func (c *Controller) SetDriftRate(symbol string, rate float64) error {
	st, ok := c.states[symbol]
	if !ok {
		return ErrUnknownSymbol
	}
	if rate < 0 {
		return ErrDriftRate
	}
	st.DriftRate = rate
	return nil
}

// SetZoom changes the rendered window widening factor.
func (c *Controller) SetZoom(symbol string, zoom float64) error {
	st, ok := c.states[symbol]
	if !ok {
		return ErrUnknownSymbol
	}
	if zoom <= 0 {
		return ErrZoomFactor
	}
	st.ZoomFactor = zoom
	return nil
}

// Advance moves the playhead by one clock delta while playing. Advancement is
// proportional to elapsed real time, not tick count, so playback speed is
// independent of the host's frame rate. Reaching the end clamps and
// auto-pauses; playback does not loop.
func (c *Controller) Advance(symbol string, delta time.Duration) error {
	st, ok := c.states[symbol]
	if !ok {
		return ErrUnknownSymbol
	}
	if !st.Playing || delta <= 0 {
		return nil
	}
	unitMs := float64(st.DriftUnit.Milliseconds())
	st.PositionMs += st.DriftRate * delta.Seconds() * unitMs
	if st.PositionMs >= st.maxPositionMs {
		st.PositionMs = st.maxPositionMs
		st.Playing = false
	}
	return nil
}

// Evict discards one symbol's playback state.
func (c *Controller) Evict(symbol string) {
	delete(c.states, symbol)
}

// EvictAll discards every symbol's playback state. Called at session end;
// pausing never evicts.
func (c *Controller) EvictAll() {
	c.states = make(map[string]*State)
}

// Symbols returns the symbols with live viewport state.
func (c *Controller) Symbols() []string {
	out := make([]string, 0, len(c.states))
	for sym := range c.states {
		out = append(out, sym)
	}
	return out
}
