package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/reconcile"
)

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:        4,
		MinConns:        0,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
	}
}

// PoolConfigFromEnv overrides the defaults with DB_MAX_CONNS, DB_MIN_CONNS,
// DB_MAX_CONN_LIFETIME and DB_MAX_CONN_IDLE_TIME when set.
func PoolConfigFromEnv() PoolConfig {
	cfg := DefaultPoolConfig()

	if v := strings.TrimSpace(os.Getenv("DB_MAX_CONNS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			cfg.MaxConns = int32(n)
		}
	}
	if v := strings.TrimSpace(os.Getenv("DB_MIN_CONNS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			cfg.MinConns = int32(n)
		}
	}
	if v := strings.TrimSpace(os.Getenv("DB_MAX_CONN_LIFETIME")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MaxConnLifetime = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("DB_MAX_CONN_IDLE_TIME")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MaxConnIdleTime = d
		}
	}

	if cfg.MaxConns < 1 {
		cfg.MaxConns = 1
	}
	if cfg.MinConns < 0 {
		cfg.MinConns = 0
	}
	if cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = cfg.MaxConns
	}
	return cfg
}

type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and creates the schema if needed.
func NewPostgres(ctx context.Context, databaseURL string, cfg PoolConfig) (*Postgres, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	for _, stmt := range PostgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Append(ctx context.Context, recs []ledger.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, r := range recs {
		row := r.Row()
		batch.Queue(`insert into signals (logged_at, instrument, date, signal, close) values ($1, $2, $3, $4, $5)`,
			row.LoggedAt, row.Instrument, row.Date, row.Signal, row.Close)
	}
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func (p *Postgres) ReadAll(ctx context.Context) ([]ledger.Row, error) {
	rows, err := p.pool.Query(ctx, `select logged_at, instrument, date, signal, close from signals order by id asc`)
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
	return out, rows.Err()
}

// Overwrite clears and rewrites both summary tables in one transaction.
func (p *Postgres) Overwrite(ctx context.Context, trades []reconcile.ClosedTrade, m reconcile.Metrics) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `delete from summary_trades`); err != nil {
			return fmt.Errorf("clear trades: %w", err)
		}
		for i, t := range trades {
			c := reconcile.TradeCells(t)
			if _, err := tx.Exec(ctx,
				`insert into summary_trades (seq, buy_date, sell_date, stock, buy_price, sell_price, pnl)
				 values ($1, $2, $3, $4, $5, $6, $7)`,
				i, c[0], c[1], c[2], c[3], c[4], c[5]); err != nil {
				return fmt.Errorf("write trade %d: %w", i, err)
			}
		}
		if _, err := tx.Exec(ctx, `delete from summary_metrics`); err != nil {
			return fmt.Errorf("clear metrics: %w", err)
		}
		c := reconcile.MetricsCells(m)
		if _, err := tx.Exec(ctx,
			`insert into summary_metrics (total_trades, winning_trades, win_ratio, total_pnl) values ($1, $2, $3, $4)`,
			c[0], c[1], c[2], c[3]); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		return nil
	})
}

func (p *Postgres) ReadSummary(ctx context.Context) (reconcile.Summary, error) {
	trades, err := p.queryCells(ctx, `select buy_date, sell_date, stock, buy_price, sell_price, pnl from summary_trades order by seq asc`)
	if err != nil {
		return reconcile.Summary{}, err
	}
	metrics, err := p.queryCells(ctx, `select total_trades, winning_trades, win_ratio, total_pnl from summary_metrics limit 1`)
	if err != nil {
		return reconcile.Summary{}, err
	}
	return summaryFromCells(trades, metrics)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) queryCells(ctx context.Context, query string) ([][]string, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		cells := make([]string, len(vals))
		for i, v := range vals {
			cells[i] = fmt.Sprint(v)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}
