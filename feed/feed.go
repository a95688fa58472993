// Package feed loads daily candles for an instrument from Yahoo Finance or
// from local CSV files.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/tradesheet/market"
)

// CandleSource returns daily candles for instrument in [from, to), oldest first.
type CandleSource interface {
	Candles(ctx context.Context, instrument string, from, to time.Time) ([]market.Candle, error)
}

type Config struct {
	Source string `json:"source" yaml:"source"` // "yahoo" or "csv"
	CSVDir string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
}

// New builds the source named by cfg.Source.
func New(cfg Config) (CandleSource, error) {
	switch cfg.Source {
	case "", "yahoo":
		return NewYahoo(), nil
	case "csv":
		if cfg.CSVDir == "" {
			return nil, fmt.Errorf("csv source requires csv_dir")
		}
		return NewCSVDir(cfg.CSVDir), nil
	default:
		return nil, fmt.Errorf("unknown candle source %q", cfg.Source)
	}
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
