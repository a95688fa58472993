package strategies

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradesheet/market"
)

// tape appends daily bars to a running series, continuing from its last close.
type tape struct {
	bars []market.Candle
	day  time.Time
	last float64
}

func newTape(open float64) *tape {
	return &tape{day: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), last: open}
}

// leg adds days bars drifting by move per day, with a wick of range on each side.
func (tp *tape) leg(days int, move, wick float64) *tape {
	for i := 0; i < days; i++ {
		o, c := tp.last, tp.last+move
		tp.bars = append(tp.bars, market.Candle{
			Date:  tp.day,
			Open:  decimal.NewFromFloat(o).Round(2),
			High:  decimal.NewFromFloat(max(o, c) + wick).Round(2),
			Low:   decimal.NewFromFloat(min(o, c) - wick).Round(2),
			Close: decimal.NewFromFloat(c).Round(2),
		})
		tp.day = tp.day.AddDate(0, 0, 1)
		tp.last = c
	}
	return tp
}

// swing is a quiet base, a decline that sets fast below slow, then a rally
// and a selloff strong enough to lift ADX over the gate.
func swing() []market.Candle {
	return newTape(2500).
		leg(60, 0, 0).
		leg(40, -5, 1.25).
		leg(60, 7.5, 1.25).
		leg(60, -7.5, 1.25).
		bars
}

func adxConfig() EMACrossADXConfig {
	return EMACrossADXConfig{
		FastPeriod:      3,
		SlowPeriod:      5,
		ADXPeriod:       14,
		ADXThreshold:    20,
		RequireADXReady: true,
	}
}

func run(s Strategy, bars []market.Candle) []Decision {
	var out []Decision
	for _, c := range bars {
		if d := s.Update(c); d.Signal != Hold {
			out = append(out, d)
		}
	}
	return out
}

func TestEMACrossADXRangeBoundMarketIsGated(t *testing.T) {
	cfg := adxConfig()
	cfg.ADXThreshold = 25

	got := run(NewEMACrossADX(cfg), newTape(1745.6).leg(200, 0, 0).bars)
	assert.Empty(t, got)
}

func TestEMACrossADXTrendingSwing(t *testing.T) {
	got := run(NewEMACrossADX(adxConfig()), swing())

	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, Buy, got[0].Signal)

	var sellAfterBuy bool
	for _, d := range got[1:] {
		if d.Signal == Sell {
			sellAfterBuy = true
			assert.True(t, d.Date.After(got[0].Date))
			break
		}
	}
	assert.True(t, sellAfterBuy, "selloff should close the rally")
}

func TestEMACrossADXRequireDIOnlyFilters(t *testing.T) {
	bars := swing()

	plain := run(NewEMACrossADX(adxConfig()), bars)

	cfg := adxConfig()
	cfg.RequireDI = true
	confirmed := run(NewEMACrossADX(cfg), bars)

	assert.LessOrEqual(t, len(confirmed), len(plain))
	for _, d := range confirmed {
		assert.Contains(t, []Signal{Buy, Sell}, d.Signal)
	}
}

func TestEMACrossADXResetReplays(t *testing.T) {
	s := NewEMACrossADX(adxConfig())
	bars := swing()

	first := run(s, bars)
	require.NotEmpty(t, first)

	s.Reset()
	assert.Equal(t, first, run(s, bars))
}

func TestEMACrossADXCloseOnlyBars(t *testing.T) {
	// CSV exports sometimes carry only a close column.
	cfg := adxConfig()
	cfg.RequireADXReady = false
	s := NewEMACrossADX(cfg)

	require.NotPanics(t, func() {
		for _, v := range []string{"812.4", "812.4", "812.4", "815.1", "818.9", "821.0", "817.3", "814.2"} {
			s.Update(market.Candle{Close: decimal.RequireFromString(v)})
		}
	})
}

func TestEMACrossADXName(t *testing.T) {
	assert.Equal(t, "EMA_CROSS_ADX(3,5,ADX14@20.0)", NewEMACrossADX(adxConfig()).Name())
}
