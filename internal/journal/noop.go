package journal

// NoopJournal is a no-op implementation used when SQLite is not configured.
type NoopJournal struct{}

func NewNoopJournal() *NoopJournal { return &NoopJournal{} }

func (n *NoopJournal) RecordSession(_ *SessionRecord) error { return nil }
func (n *NoopJournal) Close() error                         { return nil }
