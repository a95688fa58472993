package ledger

import (
	"context"
	"fmt"
	"time"
)

// Store is the persistence contract for the ledger table. Append never
// filters or dedupes, and ReadAll returns rows exactly as stored.
type Store interface {
	Append(ctx context.Context, recs []Record) (int, error)
	ReadAll(ctx context.Context) ([]Row, error)
}

// AppendHook observes records after they have been appended successfully.
type AppendHook interface {
	OnAppend(ctx context.Context, recs []Record)
}

// HookFunc adapts a function to AppendHook.
type HookFunc func(ctx context.Context, recs []Record)

func (f HookFunc) OnAppend(ctx context.Context, recs []Record) { f(ctx, recs) }

// Ledger wraps a Store and runs its hooks once per successful non-empty
// append, over the appended records only.
type Ledger struct {
	store Store
	hooks []AppendHook
}

func New(store Store, hooks ...AppendHook) *Ledger {
	return &Ledger{store: store, hooks: hooks}
}

// Append writes recs to the store. An empty slice is a no-op.
func (l *Ledger) Append(ctx context.Context, recs []Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	n, err := l.store.Append(ctx, recs)
	if err != nil {
		return n, fmt.Errorf("append %d records: %w", len(recs), err)
	}
	for _, h := range l.hooks {
		h.OnAppend(ctx, recs)
	}
	return n, nil
}

// ReadAll returns the full ledger.
func (l *Ledger) ReadAll(ctx context.Context) ([]Row, error) {
	rows, err := l.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return rows, nil
}

// LatestDates returns, per instrument, the most recent parsable observed date
// in rows.
func LatestDates(rows []Row) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, row := range rows {
		d, err := ParseDate(row.Date)
		if err != nil {
			continue
		}
		if cur, ok := out[row.Instrument]; !ok || d.After(cur) {
			out[row.Instrument] = d
		}
	}
	return out
}
