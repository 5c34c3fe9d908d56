// Package replay stitches together the viewport controller, window slicer,
// interval resolver, trade projector and range stabilizer into per-tick
// render frames. This is where the playback loop lives.
package replay

import (
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/zappabad/tapeview/internal/scale"
	"github.com/zappabad/tapeview/internal/series"
	"github.com/zappabad/tapeview/internal/timeline"
	"github.com/zappabad/tapeview/internal/trades"
	"github.com/zappabad/tapeview/internal/viewport"
)

// ErrUnknownSymbol is returned for symbols that were never loaded.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Frame is the render payload for one tick: everything the renderer needs,
// nothing about how pixels are drawn.
type Frame struct {
	Symbol      string
	Window      series.Window
	Points      []series.TimePoint
	Segments    []timeline.Segment
	Markers     []trades.Marker
	PriceRange  scale.Range
	VolumeRange scale.Range
	Progress    float64
	PositionMs  float64
	Playing     bool
}

// Summary aggregates one symbol's replay inputs, e.g. for the session
// journal.
type Summary struct {
	Symbol       string
	Bars         int
	Trades       int
	ClosedTrades int
	RealizedPnL  float64
}

// symbolData is the immutable input set for one symbol plus its memoized
// axis ranges.
type symbolData struct {
	series    *series.Series
	intervals []timeline.Interval
	trades    []trades.Trade
	resolver  timeline.Resolver
	stab      *scale.Stabilizer
	lastStep  time.Time
}

// Engine evaluates the replay pipeline. Within one tick the order is strict:
// controller advances the playhead, the slicer cuts the visible window, then
// resolver, projector and stabilizer each read that slice. Everything except
// the viewport state and the stabilizer memo is recomputed from scratch each
// tick, which keeps a frame a pure function of (series, intervals, trades,
// state, delta).
//
// Like the controller it owns, the engine is driven from a single frame loop
// and is not goroutine safe.
type Engine struct {
	cfg       Config
	clock     viewport.Clock
	log       *zap.Logger
	ctrl      *viewport.Controller
	projector *trades.Projector
	data      map[string]*symbolData
}

// New validates the configuration and returns an engine with no symbols
// loaded.
func New(cfg Config, clock viewport.Clock, logger *zap.Logger) (*Engine, error) {
	ctrl, err := viewport.NewController(cfg.Viewport)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = viewport.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		clock:     clock,
		log:       logger,
		ctrl:      ctrl,
		projector: trades.NewProjector(),
		data:      make(map[string]*symbolData),
	}, nil
}

// Load registers one symbol's backtest inputs. The series, intervals and
// trades are treated as immutable from here on; reloading a symbol replaces
// them and re-clamps its playhead. Trades are ordered by entry time so
// marker sequence numbers are stable.
func (e *Engine) Load(sym string, s *series.Series, intervals []timeline.Interval, ts []trades.Trade) {
	sorted := make([]trades.Trade, len(ts))
	copy(sorted, ts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EntryTime < sorted[j].EntryTime })

	e.data[sym] = &symbolData{
		series:    s,
		intervals: intervals,
		trades:    sorted,
		resolver: timeline.Resolver{
			BarInterval: s.BarInterval(),
			BarOrigin:   s.StartTime(),
			GapFill:     e.cfg.GapFill,
		},
		stab: scale.NewStabilizer(e.cfg.Scale),
	}
	e.ctrl.Acquire(sym, time.Duration(s.DurationMs())*time.Millisecond)

	e.log.Info("symbol loaded",
		zap.String("symbol", sym),
		zap.Int("bars", s.Len()),
		zap.Int("intervals", len(intervals)),
		zap.Int("trades", len(sorted)),
	)
}

// Controller exposes the viewport controller for transport operations
// (play, pause, seek, rate, zoom).
func (e *Engine) Controller() *viewport.Controller { return e.ctrl }

// Symbols returns the loaded symbols, sorted.
func (e *Engine) Symbols() []string {
	out := make([]string, 0, len(e.data))
	for sym := range e.data {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Step advances the symbol's playhead by the real time elapsed since its
// previous Step and returns the resulting frame. The first Step after Load
// (or after Rearm) only arms the clock.
func (e *Engine) Step(sym string) (Frame, error) {
	d, ok := e.data[sym]
	if !ok {
		return Frame{}, ErrUnknownSymbol
	}
	now := e.clock.Now()
	if !d.lastStep.IsZero() {
		if err := e.ctrl.Advance(sym, now.Sub(d.lastStep)); err != nil {
			return Frame{}, err
		}
	}
	d.lastStep = now
	return e.Frame(sym)
}

// Rearm clears the symbol's step clock so the next Step only arms it again.
// Hosts call this when a symbol returns to the screen; without it the first
// Step back would charge the playhead the whole time the symbol spent hidden
// and un-stepped.
func (e *Engine) Rearm(sym string) error {
	d, ok := e.data[sym]
	if !ok {
		return ErrUnknownSymbol
	}
	d.lastStep = time.Time{}
	return nil
}

// Frame evaluates the pipeline at the current playhead without advancing it.
// Used for paused redraws and immediately after seeks.
func (e *Engine) Frame(sym string) (Frame, error) {
	d, ok := e.data[sym]
	if !ok {
		return Frame{}, ErrUnknownSymbol
	}
	st := e.ctrl.Acquire(sym, time.Duration(d.series.DurationMs())*time.Millisecond)

	win, points := d.series.ExpandedRange(st.PositionMs, st.WindowDuration, st.ZoomFactor)
	segments := d.resolver.Resolve(d.intervals, d.trades, win.Start, win.End)
	markers := e.projector.Project(d.trades, win.Start, win.End)
	price, volume := d.stab.Observe(points)

	return Frame{
		Symbol:      sym,
		Window:      win,
		Points:      points,
		Segments:    segments,
		Markers:     markers,
		PriceRange:  price,
		VolumeRange: volume,
		Progress:    st.Progress(),
		PositionMs:  st.PositionMs,
		Playing:     st.Playing,
	}, nil
}

// Summary returns journal-ready aggregates for one symbol.
func (e *Engine) Summary(sym string) (Summary, error) {
	d, ok := e.data[sym]
	if !ok {
		return Summary{}, ErrUnknownSymbol
	}
	sum := Summary{Symbol: sym, Bars: d.series.Len(), Trades: len(d.trades)}
	for _, t := range d.trades {
		if t.Closed() {
			sum.ClosedTrades++
			sum.RealizedPnL += t.PnL
		}
	}
	return sum, nil
}

// Close ends the session: every symbol's viewport state is discarded. This
// is distinct from pausing, which retains state.
func (e *Engine) Close() {
	e.ctrl.EvictAll()
	e.data = make(map[string]*symbolData)
}
