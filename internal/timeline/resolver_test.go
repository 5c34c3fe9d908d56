package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/tapeview/internal/trades"
)

const dayMs = int64(24 * time.Hour / time.Millisecond)

// 2024-01-01T00:00:00Z
const base = int64(1704067200000)

func day(n int) int64 { return base + int64(n)*dayMs }

func dailyResolver() Resolver {
	return Resolver{BarInterval: dayMs, BarOrigin: base}
}

func closedTrade(entryDay, exitDay int) trades.Trade {
	return trades.Trade{
		EntryTime:  day(entryDay),
		EntryPrice: 100,
		ExitTime:   day(exitDay),
		ExitPrice:  110,
		Status:     trades.StatusClosed,
	}
}

// checkInvariants asserts the output contract: pairwise disjoint, sorted, and
// no two adjacent segments with equal labels.
func checkInvariants(t *testing.T, segments []Segment) {
	t.Helper()
	for i, seg := range segments {
		assert.Less(t, seg.Start, seg.End, "segment %d has no width", i)
		if i == 0 {
			continue
		}
		assert.GreaterOrEqual(t, seg.Start, segments[i-1].End, "segment %d overlaps predecessor", i)
		if seg.Start == segments[i-1].End {
			assert.NotEqual(t, segments[i-1].Label, seg.Label, "adjacent segments %d/%d share a label", i-1, i)
		}
	}
}

func TestResolvePositionOutranksMomentum(t *testing.T) {
	// MOMENTUM [Jan 5, Jan 10] plus a trade held [Jan 9, Jan 12]: the position
	// wins the Jan 9-10 overlap by priority.
	intervals := []Interval{{Start: day(5), End: day(10), Label: LabelMomentum}}
	ts := []trades.Trade{closedTrade(9, 12)}

	segments := dailyResolver().Resolve(intervals, ts, day(0), day(30))

	require.Equal(t, []Segment{
		{Start: day(5), End: day(9), Label: LabelMomentum},
		{Start: day(9), End: day(12), Label: LabelInPosition},
	}, segments)
	checkInvariants(t, segments)
}

func TestResolveCloseBeforeOpenAtSameTimestamp(t *testing.T) {
	// An interval ending exactly when another starts must not look like an
	// overlap: the lower-priority consolidation still gets its full span.
	intervals := []Interval{
		{Start: day(1), End: day(5), Label: LabelInPosition},
		{Start: day(5), End: day(8), Label: LabelMomentum},
	}

	segments := dailyResolver().Resolve(intervals, nil, day(0), day(30))

	require.Equal(t, []Segment{
		{Start: day(1), End: day(5), Label: LabelInPosition},
		{Start: day(5), End: day(8), Label: LabelMomentum},
	}, segments)
}

func TestResolveSameLabelCountsOnce(t *testing.T) {
	intervals := []Interval{
		{Start: day(1), End: day(5), Label: LabelMomentum},
		{Start: day(3), End: day(8), Label: LabelMomentum},
	}

	segments := dailyResolver().Resolve(intervals, nil, day(0), day(30))

	require.Equal(t, []Segment{
		{Start: day(1), End: day(8), Label: LabelMomentum},
	}, segments)
}

func TestResolveClipsToRange(t *testing.T) {
	intervals := []Interval{
		{Start: day(-10), End: day(5), Label: LabelMomentum},
		{Start: day(25), End: day(99), Label: LabelConsolidation},
		{Start: day(40), End: day(50), Label: LabelMomentum}, // fully outside
	}

	segments := dailyResolver().Resolve(intervals, nil, day(0), day(30))

	require.Equal(t, []Segment{
		{Start: day(0), End: day(5), Label: LabelMomentum},
		{Start: day(25), End: day(30), Label: LabelConsolidation},
	}, segments)
}

func TestResolveOpenTradeRunsToRangeEnd(t *testing.T) {
	ts := []trades.Trade{{EntryTime: day(20), EntryPrice: 50, Status: trades.StatusOpen}}

	segments := dailyResolver().Resolve(nil, ts, day(0), day(30))

	require.Equal(t, []Segment{
		{Start: day(20), End: day(30), Label: LabelInPosition},
	}, segments)
}

func TestResolveConsolidationExtendsToEntry(t *testing.T) {
	// Consolidation ends one bar before the breakout entry: it stretches to
	// the entry so the breakout bar stays inside the consolidation.
	intervals := []Interval{{Start: day(2), End: day(8), Label: LabelConsolidation}}
	ts := []trades.Trade{closedTrade(9, 15)}

	segments := dailyResolver().Resolve(intervals, ts, day(0), day(30))

	require.Equal(t, []Segment{
		{Start: day(2), End: day(9), Label: LabelConsolidation},
		{Start: day(9), End: day(15), Label: LabelInPosition},
	}, segments)

	// The caller's interval list is never mutated.
	assert.Equal(t, day(8), intervals[0].End)
}

func TestResolveNoExtensionAcrossMultipleBars(t *testing.T) {
	// Two bars between consolidation end and entry: no extension, and the
	// genuine gap stays open under the default policy.
	intervals := []Interval{{Start: day(2), End: day(6), Label: LabelConsolidation}}
	ts := []trades.Trade{closedTrade(9, 15)}

	segments := dailyResolver().Resolve(intervals, ts, day(0), day(30))

	require.Equal(t, []Segment{
		{Start: day(2), End: day(6), Label: LabelConsolidation},
		{Start: day(9), End: day(15), Label: LabelInPosition},
	}, segments)
}

func TestResolveSubBarSliverCloses(t *testing.T) {
	// A 0.2-bar sliver between two intervals is a rounding artifact: it is
	// closed and the surviving boundary snaps to the bar grid.
	halfDay := dayMs / 2
	intervals := []Interval{
		{Start: day(1), End: day(3) - halfDay + dayMs/10, Label: LabelMomentum},
		{Start: day(3) - halfDay + dayMs/5, End: day(6), Label: LabelConsolidation},
	}

	segments := dailyResolver().Resolve(intervals, nil, day(0), day(30))

	require.Len(t, segments, 2)
	assert.Equal(t, segments[0].End, segments[1].Start, "no sliver between segments")
	// Boundaries land on bar timestamps.
	for _, seg := range segments {
		assert.Zero(t, (seg.Start-base)%dayMs)
		assert.Zero(t, (seg.End-base)%dayMs)
	}
	checkInvariants(t, segments)
}

func TestResolveGapFillPolicies(t *testing.T) {
	intervals := []Interval{
		{Start: day(1), End: day(3), Label: LabelMomentum},
		{Start: day(10), End: day(12), Label: LabelConsolidation},
	}

	t.Run("none leaves genuine gaps", func(t *testing.T) {
		segments := dailyResolver().Resolve(intervals, nil, day(0), day(30))
		require.Equal(t, []Segment{
			{Start: day(1), End: day(3), Label: LabelMomentum},
			{Start: day(10), End: day(12), Label: LabelConsolidation},
		}, segments)
	})

	t.Run("forward fills from previous state", func(t *testing.T) {
		r := dailyResolver()
		r.GapFill = GapFillForward
		segments := r.Resolve(intervals, nil, day(0), day(30))
		require.Equal(t, []Segment{
			{Start: day(1), End: day(10), Label: LabelMomentum},
			{Start: day(10), End: day(12), Label: LabelConsolidation},
		}, segments)
	})
}

func TestResolveSkipsMalformedIntervals(t *testing.T) {
	intervals := []Interval{
		{Start: day(5), End: day(2), Label: LabelMomentum}, // inverted
		{Start: day(1), End: day(4), Label: LabelNone},     // unlabeled
		{Start: day(6), End: day(8), Label: LabelMomentum},
	}

	segments := dailyResolver().Resolve(intervals, nil, day(0), day(30))

	require.Equal(t, []Segment{
		{Start: day(6), End: day(8), Label: LabelMomentum},
	}, segments)
}

func TestResolveEmptyInputs(t *testing.T) {
	assert.Nil(t, dailyResolver().Resolve(nil, nil, day(0), day(30)))
	assert.Nil(t, dailyResolver().Resolve(nil, nil, day(30), day(0)))
}

func TestResolveIdempotentRemerge(t *testing.T) {
	intervals := []Interval{
		{Start: day(1), End: day(4), Label: LabelMomentum},
		{Start: day(4), End: day(7), Label: LabelMomentum},
		{Start: day(7), End: day(9), Label: LabelConsolidation},
	}

	segments := dailyResolver().Resolve(intervals, nil, day(0), day(30))

	require.Equal(t, []Segment{
		{Start: day(1), End: day(7), Label: LabelMomentum},
		{Start: day(7), End: day(9), Label: LabelConsolidation},
	}, segments)
	assert.Equal(t, segments, mergeAdjacent(segments))
	checkInvariants(t, segments)
}

func TestResolveManyOverlapsKeepInvariants(t *testing.T) {
	intervals := []Interval{
		{Start: day(0), End: day(12), Label: LabelMomentum},
		{Start: day(2), End: day(6), Label: LabelConsolidation},
		{Start: day(4), End: day(8), Label: LabelMomentum},
		{Start: day(11), End: day(20), Label: LabelConsolidation},
	}
	ts := []trades.Trade{closedTrade(5, 7), closedTrade(14, 18)}

	segments := dailyResolver().Resolve(intervals, ts, day(0), day(30))

	checkInvariants(t, segments)

	// Every instant with an active input interval is covered.
	require.NotEmpty(t, segments)
	assert.Equal(t, day(0), segments[0].Start)
	assert.Equal(t, day(20), segments[len(segments)-1].End)
	// Holding periods always resolve to IN_POSITION.
	assertLabelAt(t, segments, day(5)+dayMs/2, LabelInPosition)
	assertLabelAt(t, segments, day(15), LabelInPosition)
}

func assertLabelAt(t *testing.T, segments []Segment, ts int64, want Label) {
	t.Helper()
	for _, seg := range segments {
		if ts >= seg.Start && ts < seg.End {
			assert.Equal(t, want, seg.Label, "label at %d", ts)
			return
		}
	}
	t.Errorf("no segment covers %d", ts)
}
