// Package timeline resolves overlapping, prioritized state intervals into a
// single ordered list of non-overlapping segments via a boundary-event sweep.
package timeline

import (
	"sort"

	"github.com/zappabad/tapeview/internal/trades"
)

// Resolver turns raw classifier intervals plus trade records into render-ready
// segments. BarInterval and BarOrigin describe the bar grid of the series
// being rendered: resolved boundaries landing between two bar timestamps snap
// to the nearer one, and sub-bar gaps between segments are closed so no
// slivers survive. A zero BarInterval disables snapping, gap classification
// and boundary extension.
type Resolver struct {
	BarInterval int64
	BarOrigin   int64
	GapFill     GapFillPolicy
}

type eventKind uint8

// CLOSE sorts before OPEN at equal timestamps so an interval ending exactly
// when another starts does not appear to overlap.
const (
	eventClose eventKind = iota
	eventOpen
)

type boundaryEvent struct {
	time  int64
	kind  eventKind
	label Label
}

// Resolve produces the non-overlapping segment list for [rangeStart,
// rangeEnd]. Input intervals are never mutated; all adjustments operate on a
// private copy. Trades contribute in two ways: every trade synthesizes an
// IN_POSITION interval over its holding period (open trades run to rangeEnd),
// and a CONSOLIDATION interval ending within one bar of a trade entry is
// extended to the entry so the breakout bar stays inside the consolidation.
func (r Resolver) Resolve(intervals []Interval, ts []trades.Trade, rangeStart, rangeEnd int64) []Segment {
	if rangeEnd <= rangeStart {
		return nil
	}

	work := make([]Interval, 0, len(intervals)+len(ts))
	for _, iv := range intervals {
		if iv.Start > iv.End || iv.Label == LabelNone {
			continue
		}
		work = append(work, iv)
	}

	work = r.extendToEntries(work, ts)
	work = append(work, synthesizePositions(ts, rangeEnd)...)

	events := make([]boundaryEvent, 0, 2*len(work))
	for _, iv := range work {
		start, end := iv.Start, iv.End
		if start < rangeStart {
			start = rangeStart
		}
		if end > rangeEnd {
			end = rangeEnd
		}
		if start >= end {
			continue
		}
		events = append(events,
			boundaryEvent{time: start, kind: eventOpen, label: iv.Label},
			boundaryEvent{time: end, kind: eventClose, label: iv.Label},
		)
	}
	if len(events) == 0 {
		return nil
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].time != events[j].time {
			return events[i].time < events[j].time
		}
		return events[i].kind < events[j].kind
	})

	segments := sweep(events)
	segments = mergeAdjacent(segments)
	segments = r.fillGaps(segments)
	segments = r.snapBoundaries(segments, rangeStart, rangeEnd)
	return mergeAdjacent(segments)
}

// extendToEntries applies the consolidation boundary extension on a copy of
// the interval list; the trade-independent originals are never touched.
func (r Resolver) extendToEntries(intervals []Interval, ts []trades.Trade) []Interval {
	if r.BarInterval <= 0 || len(ts) == 0 {
		return intervals
	}
	for i, iv := range intervals {
		if iv.Label != LabelConsolidation {
			continue
		}
		for _, t := range ts {
			if iv.End < t.EntryTime && t.EntryTime-iv.End <= r.BarInterval {
				intervals[i].End = t.EntryTime
			}
		}
	}
	return intervals
}

// synthesizePositions derives one IN_POSITION interval per trade, so a held
// position always outranks whatever the classifier reported for the same
// span.
func synthesizePositions(ts []trades.Trade, rangeEnd int64) []Interval {
	out := make([]Interval, 0, len(ts))
	for _, t := range ts {
		end := rangeEnd
		if t.Closed() {
			end = t.ExitTime
		}
		if end < t.EntryTime {
			continue
		}
		out = append(out, Interval{Start: t.EntryTime, End: end, Label: LabelInPosition})
	}
	return out
}

// sweep walks the sorted boundary events left to right, maintaining a
// multiset of active labels and emitting one segment per stretch between
// consecutive event times where the set is non-empty. The same label active
// from two sources counts once toward the winning label.
func sweep(events []boundaryEvent) []Segment {
	active := make(map[Label]int)
	var segments []Segment
	prev := events[0].time

	for _, ev := range events {
		if ev.time > prev {
			if top := topLabel(active); top != LabelNone {
				segments = append(segments, Segment{Start: prev, End: ev.time, Label: top})
			}
			prev = ev.time
		}
		switch ev.kind {
		case eventOpen:
			active[ev.label]++
		case eventClose:
			active[ev.label]--
			if active[ev.label] <= 0 {
				delete(active, ev.label)
			}
		}
	}
	return segments
}

func topLabel(active map[Label]int) Label {
	top := LabelNone
	for l := range active {
		if l.Priority() > top.Priority() {
			top = l
		}
	}
	return top
}

// mergeAdjacent collapses touching segments that share a label so consumers
// never render visible seams. Re-merging an already merged list is a no-op.
func mergeAdjacent(segments []Segment) []Segment {
	if len(segments) < 2 {
		return segments
	}
	out := segments[:1]
	for _, seg := range segments[1:] {
		last := &out[len(out)-1]
		if seg.Label == last.Label && seg.Start <= last.End {
			if seg.End > last.End {
				last.End = seg.End
			}
			continue
		}
		out = append(out, seg)
	}
	return out
}

// fillGaps closes the space between consecutive segments by extending the
// earlier one. Gaps shorter than one bar are sub-bar rounding artifacts and
// always close; genuine gaps — a real stretch with no active interval — only
// close under GapFillForward.
func (r Resolver) fillGaps(segments []Segment) []Segment {
	for i := 0; i < len(segments)-1; i++ {
		gap := segments[i+1].Start - segments[i].End
		if gap <= 0 {
			continue
		}
		if (r.BarInterval > 0 && gap < r.BarInterval) || r.GapFill == GapFillForward {
			segments[i].End = segments[i+1].Start
		}
	}
	return segments
}

// snapBoundaries moves every segment boundary to the nearest bar timestamp.
// Segments sharing a boundary keep sharing it (snapping is deterministic), so
// contiguous runs stay seamless. Segments snapped to zero width are dropped.
func (r Resolver) snapBoundaries(segments []Segment, rangeStart, rangeEnd int64) []Segment {
	if r.BarInterval <= 0 {
		return segments
	}
	out := segments[:0]
	for _, seg := range segments {
		seg.Start = clampTime(r.snap(seg.Start), rangeStart, rangeEnd)
		seg.End = clampTime(r.snap(seg.End), rangeStart, rangeEnd)
		if seg.Start >= seg.End {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// snap moves a timestamp to the nearest bar boundary.
func (r Resolver) snap(ts int64) int64 {
	rem := mod(ts-r.BarOrigin, r.BarInterval)
	if rem == 0 {
		return ts
	}
	down := ts - rem
	if rem*2 >= r.BarInterval {
		return down + r.BarInterval
	}
	return down
}

func clampTime(ts, lo, hi int64) int64 {
	if ts < lo {
		return lo
	}
	if ts > hi {
		return hi
	}
	return ts
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
