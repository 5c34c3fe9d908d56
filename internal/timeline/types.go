package timeline

// Label classifies a stretch of the backtest timeline. The zero value means
// no active state. Labels form a total priority order: IN_POSITION >
// CONSOLIDATION > MOMENTUM > absence.
type Label uint8

const (
	LabelNone Label = iota
	LabelMomentum
	LabelConsolidation
	LabelInPosition
)

func (l Label) String() string {
	switch l {
	case LabelMomentum:
		return "MOMENTUM"
	case LabelConsolidation:
		return "CONSOLIDATION"
	case LabelInPosition:
		return "IN_POSITION"
	default:
		return "NONE"
	}
}

// Priority returns the label's rank in the total order. Higher wins overlaps.
func (l Label) Priority() int { return int(l) }

// Interval is a labeled, possibly-overlapping span reported by the strategy
// classifier (or synthesized from trades). Start <= End; timestamps are unix
// milliseconds.
type Interval struct {
	Start int64
	End   int64
	Label Label
}

// Segment is one resolved, non-overlapping span of the timeline. Output
// segments are pairwise disjoint, sorted, and no two adjacent segments share
// a label.
type Segment struct {
	Start int64
	End   int64
	Label Label
}

// GapFillPolicy decides what happens to a genuine multi-bar stretch with no
// active interval. Sub-bar slivers are always closed regardless of policy;
// this flag only governs real gaps, where the observed behavior of the
// upstream views is not self-consistent.
type GapFillPolicy uint8

const (
	// GapFillNone renders genuine gaps as unhighlighted timeline.
	GapFillNone GapFillPolicy = iota
	// GapFillForward extends the preceding segment across the gap.
	GapFillForward
)

func (p GapFillPolicy) String() string {
	switch p {
	case GapFillForward:
		return "forward"
	default:
		return "none"
	}
}
