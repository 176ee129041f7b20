package engine

import "context"

// Journal receives trade lifecycle records for persistence. The engine
// treats it as fire-and-forget: journal errors are logged, never allowed
// to affect trading state.
type Journal interface {
	RecordOpen(ctx context.Context, pos Position) error
	RecordClose(ctx context.Context, pos Position, exitPrice, pnl float64, reason string) error
}

// NoopJournal discards all records.
type NoopJournal struct{}

func (NoopJournal) RecordOpen(context.Context, Position) error { return nil }

func (NoopJournal) RecordClose(context.Context, Position, float64, float64, string) error {
	return nil
}
