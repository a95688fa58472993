package strategies

import (
	"fmt"

	"github.com/rustyeddy/tradesheet/market"
	"github.com/rustyeddy/tradesheet/market/indicators"
)

// EMACross generates signals when a fast EMA crosses a slow EMA.
// It fires only on the cross itself, not on every candle while the EMAs stay crossed.
type EMACross struct {
	fast *indicators.EMA
	slow *indicators.EMA

	// -1 fast below slow, 0 unknown, +1 fast above slow
	prevRel int
	name    string

	minSpread float64
}

type EMACrossConfig struct {
	FastPeriod int
	SlowPeriod int

	// Optional noise filter in price units. 0 disables.
	MinSpread float64
}

func NewEMACross(cfg EMACrossConfig) *EMACross {
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= 0 {
		panic("EMACross periods must be > 0")
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		panic("EMACross requires FastPeriod < SlowPeriod")
	}

	return &EMACross{
		fast:      indicators.NewEMA(cfg.FastPeriod),
		slow:      indicators.NewEMA(cfg.SlowPeriod),
		minSpread: cfg.MinSpread,
		name:      fmt.Sprintf("EMA_CROSS(%d,%d)", cfg.FastPeriod, cfg.SlowPeriod),
	}
}

func (x *EMACross) Name() string { return x.name }

func (x *EMACross) Reset() {
	x.fast.Reset()
	x.slow.Reset()
	x.prevRel = 0
}

func (x *EMACross) Ready() bool {
	return x.fast.Ready() && x.slow.Ready()
}

// Update consumes the next closed candle and returns a decision.
func (x *EMACross) Update(c market.Candle) Decision {
	x.fast.Update(c)
	x.slow.Update(c)

	d := Decision{
		Signal: Hold,
		Date:   c.Date,
		Close:  c.Close,
		Fast:   x.fast.Float64(),
		Slow:   x.slow.Float64(),
	}

	if !x.Ready() {
		d.Reason = "warming up"
		return d
	}

	diff := d.Fast - d.Slow
	if x.minSpread > 0 && abs(diff) < x.minSpread {
		d.Reason = "min-spread filter"
		return d
	}

	rel := relation(diff)

	// First usable relationship is the baseline and never fires.
	if x.prevRel == 0 {
		x.prevRel = rel
		if rel == 0 {
			d.Reason = "baseline pending"
		} else {
			d.Reason = "baseline set"
		}
		return d
	}

	switch {
	case x.prevRel == -1 && rel == +1:
		d.Signal = Buy
		d.Reason = "fast EMA crossed above slow EMA"
	case x.prevRel == +1 && rel == -1:
		d.Signal = Sell
		d.Reason = "fast EMA crossed below slow EMA"
	default:
		d.Reason = "no cross"
	}
	if rel != 0 {
		x.prevRel = rel
	}
	return d
}
