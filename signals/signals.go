// Package signals turns an instrument's recent candles into a labelled
// Buy/Sell signal series.
package signals

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradesheet/feed"
	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/market/strategies"
)

// Signal is one labelled observation. Label is free text from the source;
// Action interprets it case-insensitively.
type Signal struct {
	Date  time.Time
	Close decimal.Decimal
	Label string
}

func (s Signal) Action() ledger.Action {
	return ledger.ParseAction(s.Label)
}

// Generator produces the signal series for one instrument, oldest first.
type Generator interface {
	Generate(ctx context.Context, instrument string) ([]Signal, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, instrument string) ([]Signal, error)

func (f GeneratorFunc) Generate(ctx context.Context, instrument string) ([]Signal, error) {
	return f(ctx, instrument)
}

// StrategyGenerator runs a fresh strategy over a lookback window of candles.
type StrategyGenerator struct {
	Source   feed.CandleSource
	Strategy strategies.Config
	Lookback time.Duration
	Now      func() time.Time
}

func (g *StrategyGenerator) Generate(ctx context.Context, instrument string) ([]Signal, error) {
	strat, err := strategies.ByName(g.Strategy)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	to := now()
	from := to.Add(-g.Lookback)

	candles, err := g.Source.Candles(ctx, instrument, from, to)
	if err != nil {
		return nil, fmt.Errorf("candles %s: %w", instrument, err)
	}
	return Evaluate(strat, candles), nil
}
