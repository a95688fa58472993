package strategies

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradesheet/market"
)

// Strategy consumes closed daily candles in date order and decides on each.
type Strategy interface {
	Name() string
	Reset()
	Ready() bool
	Update(c market.Candle) Decision
}

type Signal int

const (
	Hold Signal = iota
	Buy
	Sell
)

// String returns the label written to the ledger.
func (s Signal) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return "Hold"
	}
}

type Decision struct {
	Signal Signal
	Reason string

	Date  time.Time
	Close decimal.Decimal
	Fast  float64
	Slow  float64
}

// Config carries the tunables for every strategy ByName knows.
type Config struct {
	Name         string
	FastPeriod   int
	SlowPeriod   int
	ADXPeriod    int
	ADXThreshold float64
	RequireDI    bool
	MinSpread    float64
}

// ByName builds a fresh strategy. Unlike the constructors it reports bad
// configuration as an error instead of panicking.
func ByName(cfg Config) (Strategy, error) {
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= 0 {
		return nil, fmt.Errorf("strategy periods must be > 0 (fast=%d slow=%d)", cfg.FastPeriod, cfg.SlowPeriod)
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		return nil, fmt.Errorf("fast period %d must be less than slow period %d", cfg.FastPeriod, cfg.SlowPeriod)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", "ema-cross", "ema_cross", "emacross":
		return NewEMACross(EMACrossConfig{
			FastPeriod: cfg.FastPeriod,
			SlowPeriod: cfg.SlowPeriod,
			MinSpread:  cfg.MinSpread,
		}), nil

	case "ema-cross-adx", "ema_cross_adx":
		if cfg.ADXPeriod <= 0 {
			return nil, fmt.Errorf("adx period must be > 0, got %d", cfg.ADXPeriod)
		}
		return NewEMACrossADX(EMACrossADXConfig{
			FastPeriod:      cfg.FastPeriod,
			SlowPeriod:      cfg.SlowPeriod,
			ADXPeriod:       cfg.ADXPeriod,
			ADXThreshold:    cfg.ADXThreshold,
			RequireDI:       cfg.RequireDI,
			RequireADXReady: true,
			MinSpread:       cfg.MinSpread,
		}), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: ema_cross, ema_cross_adx)", cfg.Name)
	}
}

// relation returns -1, 0 or +1 for fast below, equal or above slow.
func relation(diff float64) int {
	switch {
	case diff > 0:
		return +1
	case diff < 0:
		return -1
	default:
		return 0
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
