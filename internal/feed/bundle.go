package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/zappabad/tapeview/internal/series"
	"github.com/zappabad/tapeview/internal/timeline"
	"github.com/zappabad/tapeview/internal/trades"
)

// Bundle is one symbol's normalized backtest result: everything the replay
// engine consumes.
type Bundle struct {
	Symbol    string
	Series    *series.Series
	Intervals []timeline.Interval
	Trades    []trades.Trade
}

type rawBundle struct {
	Symbol  string            `json:"symbol"`
	Bars    []json.RawMessage `json:"bars"`
	Periods []json.RawMessage `json:"periods"`
	Trades  []json.RawMessage `json:"trades"`
}

// Load reads and normalizes a bundle file, logging skip counts.
func Load(path string, logger *zap.Logger) (*Bundle, Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("read bundle: %w", err)
	}
	b, rep, err := Parse(data)
	if err != nil {
		return nil, rep, fmt.Errorf("parse bundle %s: %w", path, err)
	}
	if logger != nil {
		logger.Info("bundle loaded",
			zap.String("path", path),
			zap.String("symbol", b.Symbol),
			zap.Int("bars", rep.Bars),
			zap.Int("periods", rep.Periods),
			zap.Int("trades", rep.Trades),
			zap.Int("skipped", rep.Skipped()),
		)
	}
	return b, rep, nil
}

// Parse normalizes a JSON bundle. Records that fail to normalize (unparsable
// or inverted timestamps, missing prices, unknown labels) are skipped and
// counted; only a malformed envelope is an error. An empty series is a valid
// initial state, not an error.
func Parse(data []byte) (*Bundle, Report, error) {
	var raw rawBundle
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Report{}, err
	}
	if raw.Symbol == "" {
		return nil, Report{}, fmt.Errorf("bundle has no symbol")
	}

	var rep Report
	points := make([]series.TimePoint, 0, len(raw.Bars))
	for _, msg := range raw.Bars {
		p, err := parseBar(msg)
		if err != nil {
			rep.SkippedBars++
			continue
		}
		points = append(points, p)
	}
	rep.Bars = len(points)

	intervals := make([]timeline.Interval, 0, len(raw.Periods))
	for _, msg := range raw.Periods {
		var rp rawPeriod
		if err := json.Unmarshal(msg, &rp); err != nil {
			rep.SkippedPeriods++
			continue
		}
		iv, err := normalizePeriod(rp)
		if err != nil {
			rep.SkippedPeriods++
			continue
		}
		intervals = append(intervals, iv)
	}
	rep.Periods = len(intervals)

	ts := make([]trades.Trade, 0, len(raw.Trades))
	for _, msg := range raw.Trades {
		var rt rawTrade
		if err := json.Unmarshal(msg, &rt); err != nil {
			rep.SkippedTrades++
			continue
		}
		t, err := normalizeTrade(rt)
		if err != nil {
			rep.SkippedTrades++
			continue
		}
		ts = append(ts, t)
	}
	// Sequence numbers follow entry order so markers of the same instrument
	// stay distinguishable and stable across reloads.
	sort.Slice(ts, func(i, j int) bool { return ts[i].EntryTime < ts[j].EntryTime })
	for i := range ts {
		ts[i].Seq = i + 1
	}
	rep.Trades = len(ts)

	return &Bundle{
		Symbol:    raw.Symbol,
		Series:    series.New(raw.Symbol, points),
		Intervals: intervals,
		Trades:    ts,
	}, rep, nil
}

func parseBar(msg json.RawMessage) (series.TimePoint, error) {
	var rb rawBar
	if err := json.Unmarshal(msg, &rb); err != nil {
		return series.TimePoint{}, err
	}
	ts, ok := pickTime(rb.Time, rb.TS)
	if !ok {
		return series.TimePoint{}, fmt.Errorf("bar has no timestamp")
	}
	open, ok := pick(rb.Open, rb.O)
	if !ok {
		return series.TimePoint{}, fmt.Errorf("bar has no open")
	}
	high, ok := pick(rb.High, rb.H)
	if !ok {
		return series.TimePoint{}, fmt.Errorf("bar has no high")
	}
	low, ok := pick(rb.Low, rb.L)
	if !ok {
		return series.TimePoint{}, fmt.Errorf("bar has no low")
	}
	cl, ok := pick(rb.Close, rb.C)
	if !ok {
		return series.TimePoint{}, fmt.Errorf("bar has no close")
	}
	vol, _ := pick(rb.Volume, rb.V)
	return series.TimePoint{
		Time:   ts,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  cl,
		Volume: vol,
		State:  rb.State,
	}, nil
}
