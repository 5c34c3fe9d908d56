// Package feed normalizes backtest bundles delivered by the analysis service
// into the canonical engine types. The service has shipped two generations of
// field names for bars, periods and trades; one adapter per known shape maps
// them all onto the single canonical form, so the core never sees a legacy
// record. Malformed records are skipped and counted, never fatal.
package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zappabad/tapeview/internal/timeline"
	"github.com/zappabad/tapeview/internal/trades"
)

// Report counts what a bundle parse kept and skipped, surfaced to the caller
// so a lossy feed is visible without aborting the batch.
type Report struct {
	Bars    int
	Periods int
	Trades  int

	SkippedBars    int
	SkippedPeriods int
	SkippedTrades  int
}

// Skipped returns the total number of discarded records.
func (r Report) Skipped() int { return r.SkippedBars + r.SkippedPeriods + r.SkippedTrades }

// timeValue accepts both timestamp encodings the service has used: unix
// milliseconds (current) and RFC 3339 strings (legacy).
type timeValue struct {
	ms  int64
	set bool
}

func (t *timeValue) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := json.Unmarshal(data, &ms); err == nil {
		t.ms, t.set = ms, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp is neither number nor string: %s", data)
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.ms, t.set = parsed.UnixMilli(), true
	return nil
}

// rawBar covers both bar shapes: {time, open, high, low, close, volume}
// and legacy {ts, o, h, l, c, v}.
type rawBar struct {
	Time   *timeValue `json:"time"`
	Open   *float64   `json:"open"`
	High   *float64   `json:"high"`
	Low    *float64   `json:"low"`
	Close  *float64   `json:"close"`
	Volume *float64   `json:"volume"`
	State  string     `json:"state"`

	TS *timeValue `json:"ts"`
	O  *float64   `json:"o"`
	H  *float64   `json:"h"`
	L  *float64   `json:"l"`
	C  *float64   `json:"c"`
	V  *float64   `json:"v"`
}

// rawPeriod covers {start, end, label} and legacy {from, to, type}.
type rawPeriod struct {
	Start *timeValue `json:"start"`
	End   *timeValue `json:"end"`
	Label string     `json:"label"`

	From *timeValue `json:"from"`
	To   *timeValue `json:"to"`
	Type string     `json:"type"`
}

// rawTrade covers {entry_time, entry_price, exit_time, exit_price, pnl,
// status} and legacy {open_time, open_price, close_time, close_price,
// profit}.
type rawTrade struct {
	ID         string     `json:"id"`
	EntryTime  *timeValue `json:"entry_time"`
	EntryPrice *float64   `json:"entry_price"`
	ExitTime   *timeValue `json:"exit_time"`
	ExitPrice  *float64   `json:"exit_price"`
	PnL        *float64   `json:"pnl"`
	Status     string     `json:"status"`

	OpenTime   *timeValue `json:"open_time"`
	OpenPrice  *float64   `json:"open_price"`
	CloseTime  *timeValue `json:"close_time"`
	ClosePrice *float64   `json:"close_price"`
	Profit     *float64   `json:"profit"`
}

func pick[T any](modern, legacy *T) (T, bool) {
	if modern != nil {
		return *modern, true
	}
	if legacy != nil {
		return *legacy, true
	}
	var zero T
	return zero, false
}

func pickTime(modern, legacy *timeValue) (int64, bool) {
	if modern != nil && modern.set {
		return modern.ms, true
	}
	if legacy != nil && legacy.set {
		return legacy.ms, true
	}
	return 0, false
}

func normalizeLabel(s string) timeline.Label {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "momentum", "momo":
		return timeline.LabelMomentum
	case "consolidation", "consol", "base":
		return timeline.LabelConsolidation
	case "in_position", "position", "holding":
		return timeline.LabelInPosition
	default:
		return timeline.LabelNone
	}
}

func normalizeTrade(raw rawTrade) (trades.Trade, error) {
	entryTime, ok := pickTime(raw.EntryTime, raw.OpenTime)
	if !ok {
		return trades.Trade{}, fmt.Errorf("trade has no entry time")
	}
	entryPrice, ok := pick(raw.EntryPrice, raw.OpenPrice)
	if !ok {
		return trades.Trade{}, fmt.Errorf("trade has no entry price")
	}

	t := trades.Trade{
		ID:         raw.ID,
		EntryTime:  entryTime,
		EntryPrice: entryPrice,
		Status:     trades.StatusOpen,
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	exitTime, hasExit := pickTime(raw.ExitTime, raw.CloseTime)
	if strings.EqualFold(raw.Status, "open") && !hasExit {
		return t, nil
	}
	if !hasExit {
		// No exit data and not explicitly open: an open trade from the
		// legacy shape, which never carried a status field.
		return t, nil
	}
	if exitTime < entryTime {
		return trades.Trade{}, fmt.Errorf("trade exit %d precedes entry %d", exitTime, entryTime)
	}

	exitPrice, ok := pick(raw.ExitPrice, raw.ClosePrice)
	if !ok {
		return trades.Trade{}, fmt.Errorf("trade has exit time but no exit price")
	}
	t.ExitTime = exitTime
	t.ExitPrice = exitPrice
	t.Status = trades.StatusClosed
	if pnl, ok := pick(raw.PnL, raw.Profit); ok {
		t.PnL = pnl
	} else {
		t.PnL = trades.RealizedPnL(entryPrice, exitPrice)
	}
	return t, nil
}

func normalizePeriod(raw rawPeriod) (timeline.Interval, error) {
	start, ok := pickTime(raw.Start, raw.From)
	if !ok {
		return timeline.Interval{}, fmt.Errorf("period has no start time")
	}
	end, ok := pickTime(raw.End, raw.To)
	if !ok {
		return timeline.Interval{}, fmt.Errorf("period has no end time")
	}
	if end < start {
		return timeline.Interval{}, fmt.Errorf("period range inverted: %d > %d", start, end)
	}
	label := raw.Label
	if label == "" {
		label = raw.Type
	}
	l := normalizeLabel(label)
	if l == timeline.LabelNone {
		return timeline.Interval{}, fmt.Errorf("unknown period label %q", label)
	}
	return timeline.Interval{Start: start, End: end, Label: l}, nil
}
