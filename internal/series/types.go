package series

// TimePoint is one bar of the underlying series. Timestamps are unix
// milliseconds. Bars are immutable once delivered by the backtest service;
// downstream components reference them by index range, never by copy.
type TimePoint struct {
	Time   int64
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	// State is the optional classifier tag carried through from the feed.
	State string
}

// Window is the currently visible sub-range of the series. End - Start always
// equals the configured window duration; the bar query is half-open, so a bar
// covering [t, t+interval) is visible iff Start <= t < End.
type Window struct {
	Start int64
	End   int64
}

// Duration returns the window span in milliseconds.
func (w Window) Duration() int64 { return w.End - w.Start }

// Contains reports whether the timestamp falls inside the window.
func (w Window) Contains(ts int64) bool { return ts >= w.Start && ts < w.End }
