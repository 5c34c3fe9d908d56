// Package trades holds the canonical trade model and projects trades onto the
// visible window as positioned buy/sell markers with formatted P&L.
package trades

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RealizedPnL computes the long-only realized profit for one unit, rounded to
// cents. Decimal arithmetic keeps repeated entry/exit differences from
// accumulating float noise.
func RealizedPnL(entryPrice, exitPrice float64) float64 {
	pnl := decimal.NewFromFloat(exitPrice).Sub(decimal.NewFromFloat(entryPrice)).Round(2)
	f, _ := pnl.Float64()
	return f
}

// Projector maps trades into renderable markers for a window.
type Projector struct {
	printer *message.Printer
}

// NewProjector returns a Projector formatting P&L as signed, digit-grouped
// currency.
func NewProjector() *Projector {
	return &Projector{printer: message.NewPrinter(language.English)}
}

// Project returns markers for every trade visible in [windowStart, windowEnd).
// The window is half-open like the bar query, so a timestamp exactly at
// windowEnd belongs to the next window. A trade is visible if its entry time,
// its exit time, or the open interval between them intersects the window. Each
// visible trade yields up to two markers: a BUY at entry and, if closed, a
// SELL at exit carrying the P&L text. Markers whose timestamp falls outside
// the window are suppressed even when the trade itself is visible (e.g. a
// position held across the whole window yields no marker, only its
// IN_POSITION segment).
func (p *Projector) Project(ts []Trade, windowStart, windowEnd int64) []Marker {
	var markers []Marker
	for _, t := range ts {
		if !visible(t, windowStart, windowEnd) {
			continue
		}
		if t.EntryTime >= windowStart && t.EntryTime < windowEnd {
			markers = append(markers, Marker{
				Time:  t.EntryTime,
				Price: t.EntryPrice,
				Kind:  MarkerBuy,
				Seq:   t.Seq,
			})
		}
		if t.Closed() && t.ExitTime >= windowStart && t.ExitTime < windowEnd {
			markers = append(markers, Marker{
				Time:    t.ExitTime,
				Price:   t.ExitPrice,
				Kind:    MarkerSell,
				Seq:     t.Seq,
				PnLText: p.FormatPnL(t.PnL),
			})
		}
	}
	return markers
}

// FormatPnL renders a realized profit as signed currency, e.g. "+$1,234.56"
// or "-$3.20".
func (p *Projector) FormatPnL(pnl float64) string {
	sign := "+"
	if pnl < 0 {
		sign = "-"
	}
	return sign + "$" + p.printer.Sprintf("%.2f", math.Abs(pnl))
}

// visible reports whether the trade's held interval intersects the half-open
// window. An open trade extends to the end of time for visibility purposes.
func visible(t Trade, windowStart, windowEnd int64) bool {
	if t.EntryTime >= windowEnd {
		return false
	}
	if !t.Closed() {
		return true
	}
	return t.ExitTime >= windowStart
}
