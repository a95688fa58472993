package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradesheet/ledger"
)

// Source is where the engine reads the ledger from.
type Source interface {
	ReadAll(ctx context.Context) ([]ledger.Row, error)
}

// Summary is the persisted view of a reconciliation. Metrics is nil when the
// metrics table has never been written.
type Summary struct {
	Trades  []ClosedTrade `json:"trades"`
	Metrics *Metrics      `json:"metrics"`
}

// SummaryStore holds the derived trades and metrics tables. Overwrite
// replaces both tables; it is not an upsert.
type SummaryStore interface {
	Overwrite(ctx context.Context, trades []ClosedTrade, m Metrics) error
	ReadSummary(ctx context.Context) (Summary, error)
}

// Engine runs Reconcile against the full ledger on every call.
type Engine struct {
	src  Source
	opts []Option
	log  zerolog.Logger
}

func NewEngine(src Source, log zerolog.Logger, opts ...Option) *Engine {
	return &Engine{src: src, opts: opts, log: log.With().Str("component", "reconcile").Logger()}
}

// Run reads the whole ledger and reconciles it. Read failures are returned;
// nothing is cached between runs.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	rows, err := e.src.ReadAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reconcile: %w", err)
	}

	res := Reconcile(rows, e.opts...)
	if len(rows) == 0 {
		e.log.Info().Msg("ledger is empty")
	}
	e.log.Info().
		Int("rows", len(rows)).
		Int("skipped", res.Skipped).
		Int("unmatched_sells", res.UnmatchedSells).
		Int("repeat_buys", res.RepeatBuys).
		Int("trades", res.Metrics.TotalTrades).
		Int("wins", res.Metrics.WinningTrades).
		Str("win_ratio", res.Metrics.WinRatio.StringFixed(2)).
		Str("total_pnl", res.Metrics.TotalPnL.StringFixed(2)).
		Msg("reconciled ledger")
	return res, nil
}
