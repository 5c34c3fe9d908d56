package journal

import (
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteJournal persists replay sessions to a SQLite database.
type SQLiteJournal struct {
	db  *sql.DB
	log *zap.Logger
	mu  sync.Mutex
}

// NewSQLiteJournal opens (or creates) the SQLite database and runs migrations.
func NewSQLiteJournal(dbPath string, logger *zap.Logger) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the recorder.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	j := &SQLiteJournal{db: db, log: logger}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite journal opened", zap.String("path", dbPath))
	return j, nil
}

func (j *SQLiteJournal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS replay_sessions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol        TEXT NOT NULL,
			started_at    INTEGER NOT NULL,
			ended_at      INTEGER NOT NULL,
			bars          INTEGER,
			trades        INTEGER,
			closed_trades INTEGER,
			realized_pnl  REAL,
			completed     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_symbol ON replay_sessions(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started ON replay_sessions(started_at)`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordSession inserts one finished session.
func (j *SQLiteJournal) RecordSession(rec *SessionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(
		`INSERT INTO replay_sessions
			(symbol, started_at, ended_at, bars, trades, closed_trades, realized_pnl, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Symbol,
		rec.StartedAt.UnixMilli(),
		rec.EndedAt.UnixMilli(),
		rec.Bars,
		rec.Trades,
		rec.ClosedTrades,
		rec.RealizedPnL,
		rec.Completed,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	j.log.Debug("session recorded", zap.String("symbol", rec.Symbol))
	return nil
}

// Close releases the database handle.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
