package trades

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dayMs = int64(24 * time.Hour / time.Millisecond)

// 2024-01-01T00:00:00Z
const base = int64(1704067200000)

func day(n int) int64 { return base + int64(n)*dayMs }

func TestProjectClosedTradeYieldsTwoMarkers(t *testing.T) {
	p := NewProjector()
	ts := []Trade{{
		Seq:        1,
		EntryTime:  day(5),
		EntryPrice: 100,
		ExitTime:   day(8),
		ExitPrice:  112.5,
		PnL:        12.5,
		Status:     StatusClosed,
	}}

	markers := p.Project(ts, day(0), day(30))

	require.Len(t, markers, 2)
	assert.Equal(t, Marker{Time: day(5), Price: 100, Kind: MarkerBuy, Seq: 1}, markers[0])
	assert.Equal(t, day(8), markers[1].Time)
	assert.Equal(t, MarkerSell, markers[1].Kind)
	assert.Equal(t, 1, markers[1].Seq)
	assert.Equal(t, "+$12.50", markers[1].PnLText)
}

func TestProjectOpenTradeHasNoPnLText(t *testing.T) {
	p := NewProjector()
	ts := []Trade{{Seq: 1, EntryTime: day(5), EntryPrice: 100, Status: StatusOpen}}

	markers := p.Project(ts, day(0), day(30))

	require.Len(t, markers, 1)
	assert.Equal(t, MarkerBuy, markers[0].Kind)
	assert.Empty(t, markers[0].PnLText)
}

func TestProjectVisibility(t *testing.T) {
	p := NewProjector()

	tests := []struct {
		name        string
		trade       Trade
		wantMarkers int
	}{
		{
			name:        "entirely before window",
			trade:       Trade{EntryTime: day(-10), EntryPrice: 1, ExitTime: day(-5), ExitPrice: 2, Status: StatusClosed},
			wantMarkers: 0,
		},
		{
			name:        "entirely after window",
			trade:       Trade{EntryTime: day(40), EntryPrice: 1, ExitTime: day(45), ExitPrice: 2, Status: StatusClosed},
			wantMarkers: 0,
		},
		{
			name: "spans whole window: visible but no marker timestamps inside",
			trade: Trade{
				EntryTime: day(-5), EntryPrice: 1,
				ExitTime: day(40), ExitPrice: 2,
				Status: StatusClosed,
			},
			wantMarkers: 0,
		},
		{
			name:        "entry inside only",
			trade:       Trade{EntryTime: day(25), EntryPrice: 1, ExitTime: day(40), ExitPrice: 2, Status: StatusClosed},
			wantMarkers: 1,
		},
		{
			name:        "exit inside only",
			trade:       Trade{EntryTime: day(-5), EntryPrice: 1, ExitTime: day(3), ExitPrice: 2, Status: StatusClosed},
			wantMarkers: 1,
		},
		{
			name:        "open trade entered before window",
			trade:       Trade{EntryTime: day(-5), EntryPrice: 1, Status: StatusOpen},
			wantMarkers: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markers := p.Project([]Trade{tt.trade}, day(0), day(30))
			assert.Len(t, markers, tt.wantMarkers)
		})
	}
}

func TestProjectWindowEndIsExclusive(t *testing.T) {
	p := NewProjector()
	ts := []Trade{
		{Seq: 1, EntryTime: day(30), EntryPrice: 1, Status: StatusOpen},
		{Seq: 2, EntryTime: day(5), EntryPrice: 1, ExitTime: day(30), ExitPrice: 2, PnL: 1, Status: StatusClosed},
	}

	markers := p.Project(ts, day(0), day(30))

	// Timestamps exactly at the window end belong to the next window, same
	// as the half-open bar query: no entry for the first trade, no exit for
	// the second.
	require.Len(t, markers, 1)
	assert.Equal(t, MarkerBuy, markers[0].Kind)
	assert.Equal(t, 2, markers[0].Seq)

	// One position later the same timestamps are inside.
	markers = p.Project(ts, day(1), day(31))
	require.Len(t, markers, 3)
}

func TestProjectSequenceNumbersDistinguishTrades(t *testing.T) {
	p := NewProjector()
	ts := []Trade{
		{Seq: 1, EntryTime: day(2), EntryPrice: 10, ExitTime: day(4), ExitPrice: 11, PnL: 1, Status: StatusClosed},
		{Seq: 2, EntryTime: day(6), EntryPrice: 12, ExitTime: day(9), ExitPrice: 10, PnL: -2, Status: StatusClosed},
	}

	markers := p.Project(ts, day(0), day(30))

	require.Len(t, markers, 4)
	assert.Equal(t, 1, markers[0].Seq)
	assert.Equal(t, 1, markers[1].Seq)
	assert.Equal(t, 2, markers[2].Seq)
	assert.Equal(t, 2, markers[3].Seq)
}

func TestFormatPnL(t *testing.T) {
	p := NewProjector()

	tests := []struct {
		pnl  float64
		want string
	}{
		{12.5, "+$12.50"},
		{-3.2, "-$3.20"},
		{1234.56, "+$1,234.56"},
		{-1234567.89, "-$1,234,567.89"},
		{0, "+$0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.FormatPnL(tt.pnl))
	}
}

func TestRealizedPnL(t *testing.T) {
	assert.Equal(t, 12.5, RealizedPnL(100, 112.5))
	assert.Equal(t, -0.1, RealizedPnL(100.2, 100.1))
	assert.Equal(t, 0.0, RealizedPnL(55.5, 55.5))
}

func TestTradeLifecycle(t *testing.T) {
	tr := Trade{EntryTime: day(1), EntryPrice: 100, Status: StatusOpen}

	require.NoError(t, tr.Close(day(5), 110))
	assert.True(t, tr.Closed())
	assert.Equal(t, 10.0, tr.PnL)

	// A trade is never re-opened or re-closed.
	assert.ErrorIs(t, tr.Close(day(9), 120), ErrAlreadyClosed)
	assert.Equal(t, day(5), tr.ExitTime)
}
