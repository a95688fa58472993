// Package store provides the tabular backends behind the signal ledger and
// the summary tables: in-memory, SQLite and PostgreSQL.
package store

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/reconcile"
)

// Backend is a store that serves both the ledger and the summary tables.
type Backend interface {
	ledger.Store
	reconcile.SummaryStore
	Close() error
}

// Config selects and locates a backend.
type Config struct {
	Type        string `json:"type" yaml:"type"` // "memory", "sqlite" or "postgres"
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
}

// Open constructs the backend named by cfg.Type.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, PoolConfigFromEnv())
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}

// summaryFromCells decodes persisted summary tables. Header rows must already
// be stripped. Undecodable trade rows are dropped.
func summaryFromCells(trades [][]string, metrics [][]string) (reconcile.Summary, error) {
	sum := reconcile.Summary{Trades: make([]reconcile.ClosedTrade, 0, len(trades))}
	for _, cells := range trades {
		t, err := reconcile.ParseTradeCells(cells)
		if err != nil {
			continue
		}
		sum.Trades = append(sum.Trades, t)
	}
	if len(metrics) > 0 {
		m, err := reconcile.ParseMetricsCells(metrics[0])
		if err != nil {
			return sum, fmt.Errorf("decode metrics: %w", err)
		}
		sum.Metrics = &m
	}
	return sum, nil
}
