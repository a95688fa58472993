package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/reconcile"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if _, err := db.Exec(SQLiteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(ctx context.Context, recs []ledger.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO signals (logged_at, instrument, date, signal, close)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range recs {
		row := r.Row()
		if _, err := stmt.ExecContext(ctx, row.LoggedAt, row.Instrument, row.Date, row.Signal, row.Close); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// AppendRow inserts a raw row without any validation.
func (s *SQLite) AppendRow(ctx context.Context, row ledger.Row) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO signals (logged_at, instrument, date, signal, close)
		VALUES (?, ?, ?, ?, ?)`,
		row.LoggedAt, row.Instrument, row.Date, row.Signal, row.Close,
	)
	return err
}

func (s *SQLite) ReadAll(ctx context.Context) ([]ledger.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT logged_at, instrument, date, signal, close
		FROM signals
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ledger.Row{}
	for rows.Next() {
		var r ledger.Row
		if err := rows.Scan(&r.LoggedAt, &r.Instrument, &r.Date, &r.Signal, &r.Close); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Overwrite clears and rewrites both summary tables in one transaction.
func (s *SQLite) Overwrite(ctx context.Context, trades []reconcile.ClosedTrade, m reconcile.Metrics) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM summary_trades`); err != nil {
		return fmt.Errorf("clear trades: %w", err)
	}
	for i, t := range trades {
		c := reconcile.TradeCells(t)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO summary_trades (seq, buy_date, sell_date, stock, buy_price, sell_price, pnl)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, c[0], c[1], c[2], c[3], c[4], c[5],
		); err != nil {
			return fmt.Errorf("write trade %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM summary_metrics`); err != nil {
		return fmt.Errorf("clear metrics: %w", err)
	}
	c := reconcile.MetricsCells(m)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO summary_metrics (total_trades, winning_trades, win_ratio, total_pnl)
		VALUES (?, ?, ?, ?)`,
		c[0], c[1], c[2], c[3],
	); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return tx.Commit()
}

func (s *SQLite) ReadSummary(ctx context.Context) (reconcile.Summary, error) {
	trades, err := queryCells(ctx, s.db, `
		SELECT buy_date, sell_date, stock, buy_price, sell_price, pnl
		FROM summary_trades
		ORDER BY seq ASC`, 6)
	if err != nil {
		return reconcile.Summary{}, err
	}
	metrics, err := queryCells(ctx, s.db, `
		SELECT total_trades, winning_trades, win_ratio, total_pnl
		FROM summary_metrics
		LIMIT 1`, 4)
	if err != nil {
		return reconcile.Summary{}, err
	}
	return summaryFromCells(trades, metrics)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func queryCells(ctx context.Context, db *sql.DB, query string, width int) ([][]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cells := make([]string, width)
		ptrs := make([]any, width)
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
