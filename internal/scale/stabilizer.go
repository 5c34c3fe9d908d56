// Package scale computes value-axis bounds for the visible slice with
// hysteresis, so the axis does not rescale on every frame as bars enter and
// leave the window.
package scale

import (
	"math"

	"github.com/zappabad/tapeview/internal/series"
)

// Range is a closed value-axis interval.
type Range struct {
	Min float64
	Max float64
}

// Width returns the range span.
func (r Range) Width() float64 { return r.Max - r.Min }

// Empty reports whether the range has never been set.
func (r Range) Empty() bool { return r.Min == 0 && r.Max == 0 }

// Config holds stabilization parameters.
type Config struct {
	// PadFraction widens the raw data range on both sides.
	PadFraction float64
	// Hysteresis is the fraction of the previous range width a candidate
	// must move by before the axis rescales.
	Hysteresis float64
}

// DefaultConfig returns the stock padding and hysteresis.
func DefaultConfig() Config {
	return Config{
		PadFraction: 0.10,
		Hysteresis:  0.20,
	}
}

// Stabilizer memoizes the last-good price and volume ranges for one symbol.
// It is the only component besides the viewport controller that carries state
// across ticks.
type Stabilizer struct {
	cfg    Config
	price  Range
	volume Range
}

// NewStabilizer returns a Stabilizer with no memoized ranges.
func NewStabilizer(cfg Config) *Stabilizer {
	if cfg.PadFraction <= 0 {
		cfg.PadFraction = DefaultConfig().PadFraction
	}
	if cfg.Hysteresis <= 0 {
		cfg.Hysteresis = DefaultConfig().Hysteresis
	}
	return &Stabilizer{cfg: cfg}
}

// Observe computes padded candidate ranges over the visible points and
// replaces the memoized ranges only when a candidate moved by more than the
// hysteresis threshold. An empty slice leaves the previous ranges in place.
func (s *Stabilizer) Observe(points []series.TimePoint) (price, volume Range) {
	if len(points) == 0 {
		return s.price, s.volume
	}

	lo, hi := points[0].Low, points[0].High
	var maxVol float64
	for _, p := range points {
		if p.Low < lo {
			lo = p.Low
		}
		if p.High > hi {
			hi = p.High
		}
		if p.Volume > maxVol {
			maxVol = p.Volume
		}
	}

	s.price = s.apply(s.price, s.pad(Range{Min: lo, Max: hi}))

	vol := s.pad(Range{Min: 0, Max: maxVol})
	if vol.Min < 0 {
		vol.Min = 0
	}
	s.volume = s.apply(s.volume, vol)
	return s.price, s.volume
}

// Ranges returns the memoized ranges without observing new points.
func (s *Stabilizer) Ranges() (price, volume Range) { return s.price, s.volume }

// Reset drops the memoized ranges, e.g. after a seek far away from the
// previous window.
func (s *Stabilizer) Reset() {
	s.price = Range{}
	s.volume = Range{}
}

func (s *Stabilizer) pad(r Range) Range {
	pad := r.Width() * s.cfg.PadFraction
	if pad == 0 {
		// Flat slice; pad relative to the value so the bar is not a line
		// glued to the border.
		pad = math.Max(math.Abs(r.Max)*s.cfg.PadFraction, 1)
	}
	return Range{Min: r.Min - pad, Max: r.Max + pad}
}

// apply implements the hysteresis rule: keep the previous range unless the
// candidate's bounds moved by more than Hysteresis * previous width.
func (s *Stabilizer) apply(prev, candidate Range) Range {
	if prev.Empty() {
		return candidate
	}
	threshold := prev.Width() * s.cfg.Hysteresis
	if math.Abs(candidate.Min-prev.Min) > threshold || math.Abs(candidate.Max-prev.Max) > threshold {
		return candidate
	}
	return prev
}
