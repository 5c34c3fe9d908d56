package trades

import "errors"

// ErrAlreadyClosed is returned when closing a trade twice. A trade has
// exactly one open -> closed lifecycle and is never re-opened.
var ErrAlreadyClosed = errors.New("trade already closed")

// Status is the lifecycle state of a trade.
type Status uint8

const (
	StatusOpen Status = iota
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "OPEN"
	case StatusClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Trade is a canonical trade record normalized at the feed boundary.
// Timestamps are unix milliseconds. ExitTime, ExitPrice and PnL are only
// meaningful once Status is StatusClosed. The model is long-only with no
// partial fills.
type Trade struct {
	ID         string
	Seq        int // stable per-symbol sequence number, assigned at the boundary
	EntryTime  int64
	EntryPrice float64
	ExitTime   int64
	ExitPrice  float64
	PnL        float64
	Status     Status
}

// Closed reports whether the trade has completed its lifecycle.
func (t Trade) Closed() bool { return t.Status == StatusClosed }

// Close transitions the trade to closed, deriving the long-only realized PnL.
func (t *Trade) Close(exitTime int64, exitPrice float64) error {
	if t.Closed() {
		return ErrAlreadyClosed
	}
	t.ExitTime = exitTime
	t.ExitPrice = exitPrice
	t.PnL = RealizedPnL(t.EntryPrice, exitPrice)
	t.Status = StatusClosed
	return nil
}

// MarkerKind distinguishes entry from exit annotations.
type MarkerKind uint8

const (
	MarkerBuy MarkerKind = iota
	MarkerSell
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerBuy:
		return "BUY"
	case MarkerSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Marker is a positioned trade annotation for the renderer. Seq ties entry
// and exit markers of the same trade together when several trades of one
// instrument are visible at once. PnLText is empty for entries and for
// still-open trades.
type Marker struct {
	Time    int64
	Price   float64
	Kind    MarkerKind
	Seq     int
	PnLText string
}
