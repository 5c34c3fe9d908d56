package viewport

import "time"

// State is the per-symbol playback state: the only mutable state in the
// engine. It is exclusively owned by the Controller; no other component
// mutates it. Pausing retains the state, eviction discards it.
type State struct {
	WindowDuration time.Duration
	DriftRate      float64
	DriftUnit      time.Duration
	ZoomFactor     float64

	Playing    bool
	PositionMs float64

	maxPositionMs float64
}

// MaxPositionMs returns the furthest playhead position. Zero when the series
// is shorter than one window, in which case the window simply covers the
// whole series and navigation is a no-op.
func (s *State) MaxPositionMs() float64 { return s.maxPositionMs }

// Progress returns the playhead as a fraction of the navigable range, for a
// progress indicator.
func (s *State) Progress() float64 {
	max := s.maxPositionMs
	if max < 1 {
		max = 1
	}
	return s.PositionMs / max
}

// setSeriesDuration recomputes the navigable range and re-clamps the
// playhead. Called when a symbol's series is (re)loaded.
func (s *State) setSeriesDuration(seriesDuration time.Duration) {
	max := float64(seriesDuration.Milliseconds() - s.WindowDuration.Milliseconds())
	if max < 0 {
		max = 0
	}
	s.maxPositionMs = max
	s.clamp()
}

// clamp keeps the playhead inside [0, maxPosition].
func (s *State) clamp() {
	if s.PositionMs < 0 {
		s.PositionMs = 0
	}
	if s.PositionMs > s.maxPositionMs {
		s.PositionMs = s.maxPositionMs
	}
}
