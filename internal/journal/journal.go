// Package journal persists finished replay sessions for later review.
package journal

import "time"

// SessionRecord summarizes one symbol's replay session.
type SessionRecord struct {
	Symbol       string
	StartedAt    time.Time
	EndedAt      time.Time
	Bars         int
	Trades       int
	ClosedTrades int
	RealizedPnL  float64
	// Completed is true when the playhead reached the end of the tape.
	Completed bool
}

// Journal records replay sessions.
type Journal interface {
	RecordSession(rec *SessionRecord) error
	Close() error
}
