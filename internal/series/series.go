// Package series owns the ordered, immutable bar series for one symbol and
// answers window queries over it (binary search on sorted timestamps).
package series

import (
	"sort"
	"time"
)

// Series is the full ordered bar history for one symbol. Points are sorted
// ascending by timestamp with unique timestamps; both invariants are enforced
// at construction so every query can binary-search.
type Series struct {
	symbol string
	points []TimePoint
}

// New builds a Series from raw points. Points are sorted by timestamp and
// duplicate timestamps are dropped (first occurrence wins). The slice is
// copied; callers keep ownership of their input.
func New(symbol string, points []TimePoint) *Series {
	ps := make([]TimePoint, len(points))
	copy(ps, points)
	sort.Slice(ps, func(i, j int) bool { return ps[i].Time < ps[j].Time })

	deduped := ps[:0]
	for i, p := range ps {
		if i > 0 && p.Time == ps[i-1].Time {
			continue
		}
		deduped = append(deduped, p)
	}
	return &Series{symbol: symbol, points: deduped}
}

// Symbol returns the instrument symbol this series belongs to.
func (s *Series) Symbol() string { return s.symbol }

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.points) }

// Points returns the full series. The returned slice must be treated as
// read-only.
func (s *Series) Points() []TimePoint { return s.points }

// StartTime returns the timestamp of the first bar, or 0 for an empty series.
func (s *Series) StartTime() int64 {
	if len(s.points) == 0 {
		return 0
	}
	return s.points[0].Time
}

// EndTime returns the timestamp of the last bar, or 0 for an empty series.
func (s *Series) EndTime() int64 {
	if len(s.points) == 0 {
		return 0
	}
	return s.points[len(s.points)-1].Time
}

// BarInterval returns the spacing between adjacent bars in milliseconds,
// taken as the smallest positive gap observed. Returns 0 for series with
// fewer than two bars.
func (s *Series) BarInterval() int64 {
	var interval int64
	for i := 1; i < len(s.points); i++ {
		gap := s.points[i].Time - s.points[i-1].Time
		if gap > 0 && (interval == 0 || gap < interval) {
			interval = gap
		}
	}
	return interval
}

// DurationMs returns the total time the series covers in milliseconds. Each
// bar covers one bar interval, so a series of 100 daily bars covers 100 days,
// not 99.
func (s *Series) DurationMs() int64 {
	if len(s.points) == 0 {
		return 0
	}
	return s.EndTime() - s.StartTime() + s.BarInterval()
}

// VisibleRange returns the window at the given playhead position and the bars
// inside it. positionMs is the offset from the series start; the window query
// runs in O(log n) via binary search plus an O(window) slice reference.
func (s *Series) VisibleRange(positionMs float64, windowDuration time.Duration) (Window, []TimePoint) {
	start := s.StartTime() + int64(positionMs)
	w := Window{Start: start, End: start + windowDuration.Milliseconds()}
	return w, s.slice(w)
}

// ExpandedRange behaves like VisibleRange but widens the queried window by
// 1/zoomFactor around its midpoint, so zoomed-out views can show context
// beyond the nominal window without changing playback semantics. A zoom of 1
// (or an invalid zoom) is identical to VisibleRange.
func (s *Series) ExpandedRange(positionMs float64, windowDuration time.Duration, zoomFactor float64) (Window, []TimePoint) {
	if zoomFactor <= 0 || zoomFactor == 1 {
		return s.VisibleRange(positionMs, windowDuration)
	}
	nominal, _ := s.VisibleRange(positionMs, windowDuration)
	mid := nominal.Start + nominal.Duration()/2
	half := int64(float64(nominal.Duration()) / zoomFactor / 2)
	w := Window{Start: mid - half, End: mid + half}
	return w, s.slice(w)
}

// slice returns the sub-slice of bars whose timestamps fall in [w.Start,
// w.End). No bars are copied.
func (s *Series) slice(w Window) []TimePoint {
	lo := sort.Search(len(s.points), func(i int) bool { return s.points[i].Time >= w.Start })
	hi := sort.Search(len(s.points), func(i int) bool { return s.points[i].Time >= w.End })
	return s.points[lo:hi]
}
