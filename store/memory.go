package store

import (
	"context"
	"sync"

	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/reconcile"
)

// Memory keeps each table as header plus rows of cells, the way a
// spreadsheet-backed store would.
type Memory struct {
	mu      sync.RWMutex
	signals [][]string
	trades  [][]string
	metrics [][]string
}

func NewMemory() *Memory {
	return &Memory{
		signals: [][]string{append([]string(nil), ledger.Header...)},
	}
}

func (m *Memory) Append(_ context.Context, recs []ledger.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range recs {
		m.signals = append(m.signals, r.Row().Cells())
	}
	return len(recs), nil
}

// AppendCells appends raw cells to the ledger table without any validation.
func (m *Memory) AppendCells(rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cells := range rows {
		m.signals = append(m.signals, append([]string(nil), cells...))
	}
}

func (m *Memory) ReadAll(context.Context) ([]ledger.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.signals) <= 1 {
		return []ledger.Row{}, nil
	}
	out := make([]ledger.Row, 0, len(m.signals)-1)
	for _, cells := range m.signals[1:] {
		out = append(out, ledger.RowFromCells(cells))
	}
	return out, nil
}

// Overwrite swaps both summary tables under one lock.
func (m *Memory) Overwrite(_ context.Context, trades []reconcile.ClosedTrade, met reconcile.Metrics) error {
	tt := make([][]string, 0, len(trades)+1)
	tt = append(tt, append([]string(nil), reconcile.TradesHeader...))
	for _, t := range trades {
		tt = append(tt, reconcile.TradeCells(t))
	}
	mt := [][]string{
		append([]string(nil), reconcile.MetricsHeader...),
		reconcile.MetricsCells(met),
	}

	m.mu.Lock()
	m.trades, m.metrics = tt, mt
	m.mu.Unlock()
	return nil
}

func (m *Memory) ReadSummary(context.Context) (reconcile.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return summaryFromCells(body(m.trades), body(m.metrics))
}

func (m *Memory) Close() error { return nil }

func body(table [][]string) [][]string {
	if len(table) <= 1 {
		return nil
	}
	return table[1:]
}
