package strategies

import (
	"fmt"

	"github.com/rustyeddy/tradesheet/market"
	"github.com/rustyeddy/tradesheet/market/indicators"
)

// EMACrossADX is EMACross gated on trend strength: crosses fire only while
// ADX is at or above the threshold.
type EMACrossADX struct {
	fast *indicators.EMA
	slow *indicators.EMA
	adx  *indicators.ADX

	prevRel int

	adxThreshold    float64
	requireDI       bool
	requireADXReady bool

	minSpread float64
	name      string
}

type EMACrossADXConfig struct {
	FastPeriod int
	SlowPeriod int
	ADXPeriod  int

	ADXThreshold    float64 // e.g. 20.0 or 25.0
	RequireDI       bool    // confirm direction with +DI/-DI
	RequireADXReady bool    // hold until ADX is ready

	MinSpread float64
}

func NewEMACrossADX(cfg EMACrossADXConfig) *EMACrossADX {
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= 0 || cfg.ADXPeriod <= 0 {
		panic("periods must be > 0")
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		panic("EMACrossADX requires FastPeriod < SlowPeriod")
	}
	if cfg.ADXThreshold <= 0 {
		cfg.ADXThreshold = 20.0
	}

	return &EMACrossADX{
		fast:            indicators.NewEMA(cfg.FastPeriod),
		slow:            indicators.NewEMA(cfg.SlowPeriod),
		adx:             indicators.NewADX(cfg.ADXPeriod),
		adxThreshold:    cfg.ADXThreshold,
		requireDI:       cfg.RequireDI,
		requireADXReady: cfg.RequireADXReady,
		minSpread:       cfg.MinSpread,
		name:            fmt.Sprintf("EMA_CROSS_ADX(%d,%d,ADX%d@%.1f)", cfg.FastPeriod, cfg.SlowPeriod, cfg.ADXPeriod, cfg.ADXThreshold),
	}
}

func (x *EMACrossADX) Name() string { return x.name }

func (x *EMACrossADX) Reset() {
	x.fast.Reset()
	x.slow.Reset()
	x.adx.Reset()
	x.prevRel = 0
}

func (x *EMACrossADX) Ready() bool {
	if !x.fast.Ready() || !x.slow.Ready() {
		return false
	}
	if x.requireADXReady && !x.adx.Ready() {
		return false
	}
	return true
}

func (x *EMACrossADX) Update(c market.Candle) Decision {
	x.fast.Update(c)
	x.slow.Update(c)
	x.adx.Update(c)

	d := Decision{
		Signal: Hold,
		Date:   c.Date,
		Close:  c.Close,
		Fast:   x.fast.Float64(),
		Slow:   x.slow.Float64(),
	}

	if !x.fast.Ready() || !x.slow.Ready() {
		d.Reason = "warming up EMAs"
		return d
	}
	if x.requireADXReady && !x.adx.Ready() {
		d.Reason = "warming up ADX"
		return d
	}

	diff := d.Fast - d.Slow
	if x.minSpread > 0 && abs(diff) < x.minSpread {
		d.Reason = "min-spread filter"
		return d
	}

	rel := relation(diff)

	if x.prevRel == 0 {
		x.prevRel = rel
		if rel == 0 {
			d.Reason = "baseline pending"
		} else {
			d.Reason = "baseline set"
		}
		return d
	}

	prev := x.prevRel
	if rel != 0 {
		x.prevRel = rel
	}

	if x.adx.Ready() && x.adx.Float64() < x.adxThreshold {
		d.Reason = "ADX below threshold"
		return d
	}

	switch {
	case prev == -1 && rel == +1:
		if x.requireDI && x.adx.Ready() && !(x.adx.PlusDI() > x.adx.MinusDI()) {
			d.Reason = "DI confirmation failed (buy)"
			return d
		}
		d.Signal = Buy
		d.Reason = "EMA cross up + ADX gate"
	case prev == +1 && rel == -1:
		if x.requireDI && x.adx.Ready() && !(x.adx.MinusDI() > x.adx.PlusDI()) {
			d.Reason = "DI confirmation failed (sell)"
			return d
		}
		d.Signal = Sell
		d.Reason = "EMA cross down + ADX gate"
	default:
		d.Reason = "no cross"
	}
	return d
}
