// Package reconcile derives closed round-trip trades and summary metrics from
// the full signal ledger.
package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradesheet/ledger"
)

// RepeatBuy decides what happens to an open position when another Buy for
// the same instrument arrives before a Sell.
type RepeatBuy int

const (
	// RepeatBuyReplace drops the pending buy and tracks the newer one.
	RepeatBuyReplace RepeatBuy = iota
	// RepeatBuyKeepFirst ignores later buys while a position is open.
	RepeatBuyKeepFirst
)

func (p RepeatBuy) String() string {
	if p == RepeatBuyKeepFirst {
		return "keep_first"
	}
	return "replace"
}

// ParseRepeatBuy maps a config value to a policy. Empty selects replace.
func ParseRepeatBuy(s string) (RepeatBuy, bool) {
	switch s {
	case "", "replace":
		return RepeatBuyReplace, true
	case "keep_first":
		return RepeatBuyKeepFirst, true
	}
	return RepeatBuyReplace, false
}

// ClosedTrade is a matched Buy/Sell pair.
type ClosedTrade struct {
	Instrument string          `json:"stock"`
	BuyDate    time.Time       `json:"buy_date"`
	SellDate   time.Time       `json:"sell_date"`
	BuyPrice   decimal.Decimal `json:"buy_price"`
	SellPrice  decimal.Decimal `json:"sell_price"`
	PnL        decimal.Decimal `json:"pnl"`
}

// Metrics summarizes a set of closed trades.
type Metrics struct {
	TotalTrades   int             `json:"total_trades"`
	WinningTrades int             `json:"winning_trades"`
	WinRatio      decimal.Decimal `json:"win_ratio"`
	TotalPnL      decimal.Decimal `json:"total_pnl"`
}

// Result is the output of one reconciliation pass. Skipped, UnmatchedSells
// and RepeatBuys are diagnostics; they never affect Trades or Metrics.
type Result struct {
	Trades         []ClosedTrade
	Metrics        Metrics
	Skipped        int
	UnmatchedSells int
	RepeatBuys     int
}

type openPosition struct {
	date  time.Time
	price decimal.Decimal
}

type options struct {
	repeatBuy RepeatBuy
}

type Option func(*options)

// WithRepeatBuy selects the repeated-buy policy.
func WithRepeatBuy(p RepeatBuy) Option {
	return func(o *options) { o.repeatBuy = p }
}

// Reconcile pairs buys and sells per instrument in ascending observed-date
// order. It is a pure function of rows: rows with an unparsable date or
// price are dropped, rows that are neither buy nor sell are ignored, and a
// sell without an open position is discarded.
func Reconcile(rows []ledger.Row, opts ...Option) Result {
	o := options{repeatBuy: RepeatBuyReplace}
	for _, fn := range opts {
		fn(&o)
	}

	var res Result
	recs := make([]ledger.Record, 0, len(rows))
	for _, row := range rows {
		r, err := row.Parse()
		if err != nil {
			res.Skipped++
			continue
		}
		recs = append(recs, r)
	}

	res.Trades = []ClosedTrade{}
	if len(recs) == 0 {
		res.Metrics = Summarize(nil)
		return res
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Date.Before(recs[j].Date)
	})

	open := make(map[string]openPosition)
	for _, r := range recs {
		switch r.Action {
		case ledger.Buy:
			if _, ok := open[r.Instrument]; ok {
				res.RepeatBuys++
				if o.repeatBuy == RepeatBuyKeepFirst {
					continue
				}
			}
			open[r.Instrument] = openPosition{date: r.Date, price: r.Price}

		case ledger.Sell:
			pos, ok := open[r.Instrument]
			if !ok {
				res.UnmatchedSells++
				continue
			}
			delete(open, r.Instrument)
			res.Trades = append(res.Trades, ClosedTrade{
				Instrument: r.Instrument,
				BuyDate:    pos.date,
				SellDate:   r.Date,
				BuyPrice:   pos.price,
				SellPrice:  r.Price,
				PnL:        r.Price.Sub(pos.price),
			})
		}
	}

	res.Metrics = Summarize(res.Trades)
	return res
}

var hundred = decimal.NewFromInt(100)

// Summarize computes metrics over trades. A zero pnl counts toward the total
// but is not a win.
func Summarize(trades []ClosedTrade) Metrics {
	m := Metrics{WinRatio: decimal.Zero, TotalPnL: decimal.Zero}
	if len(trades) == 0 {
		return m
	}
	total := decimal.Zero
	for _, t := range trades {
		if t.PnL.IsPositive() {
			m.WinningTrades++
		}
		total = total.Add(t.PnL)
	}
	m.TotalTrades = len(trades)
	m.WinRatio = decimal.NewFromInt(int64(m.WinningTrades)).
		Mul(hundred).
		DivRound(decimal.NewFromInt(int64(m.TotalTrades)), 2)
	m.TotalPnL = total.Round(2)
	return m
}
