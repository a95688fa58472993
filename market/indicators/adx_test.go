package indicators

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradesheet/market"
)

// session builds consecutive daily bars starting at open, moving close by
// drift each day, with the high and low wick reaching past the body.
func session(days int, open, drift, wick float64) []market.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Candle, 0, days)
	for i := 0; i < days; i++ {
		cl := open + drift
		hi, lo := max(open, cl)+wick, min(open, cl)-wick
		out = append(out, market.Candle{
			Date:   start.AddDate(0, 0, i),
			Open:   decimal.NewFromFloat(open).Round(2),
			High:   decimal.NewFromFloat(hi).Round(2),
			Low:    decimal.NewFromFloat(lo).Round(2),
			Close:  decimal.NewFromFloat(cl).Round(2),
			Volume: 1_250_000,
		})
		open = cl
	}
	return out
}

func feed(a *ADX, bars []market.Candle) {
	for _, c := range bars {
		a.Update(c)
	}
}

func TestADXReadyOnBarTwiceThePeriod(t *testing.T) {
	adx := NewADX(14)
	assert.Equal(t, "ADX(14)", adx.Name())
	assert.Equal(t, 28, adx.Warmup())

	bars := session(28, 2450, 12.5, 4)
	feed(adx, bars[:27])
	assert.False(t, adx.Ready())
	assert.Zero(t, adx.Float64())

	adx.Update(bars[27])
	assert.True(t, adx.Ready())
}

func TestADXSuspendedScripIsZero(t *testing.T) {
	// A halted stock prints the same price all day, every day.
	adx := NewADX(14)
	feed(adx, session(45, 3890.15, 0, 0))

	require.True(t, adx.Ready())
	assert.Zero(t, adx.PlusDI())
	assert.Zero(t, adx.MinusDI())
	assert.Zero(t, adx.DX())
	assert.Zero(t, adx.Float64())
}

func TestADXFollowsTrendDirection(t *testing.T) {
	tests := []struct {
		name  string
		drift float64
		plus  bool
	}{
		{name: "rally", drift: 18, plus: true},
		{name: "selloff", drift: -18, plus: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adx := NewADX(14)
			feed(adx, session(50, 2450, tt.drift, 6))

			require.True(t, adx.Ready())
			if tt.plus {
				assert.Greater(t, adx.PlusDI(), adx.MinusDI())
			} else {
				assert.Greater(t, adx.MinusDI(), adx.PlusDI())
			}
			// A one-way move keeps the index high.
			assert.Greater(t, adx.Float64(), 50.0)
			assert.LessOrEqual(t, adx.Float64(), 100.0)
		})
	}
}

func TestADXReset(t *testing.T) {
	adx := NewADX(10)
	bars := session(40, 1520, 9, 3)
	feed(adx, bars)
	require.True(t, adx.Ready())
	first := adx.Float64()

	adx.Reset()
	assert.False(t, adx.Ready())
	assert.Zero(t, adx.Float64())
	assert.Zero(t, adx.PlusDI())
	assert.Zero(t, adx.MinusDI())

	feed(adx, bars)
	assert.InDelta(t, first, adx.Float64(), 1e-9)
}
