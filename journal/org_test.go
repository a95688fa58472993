package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradesheet/reconcile"
)

func trade(inst string, buyDay, sellDay int, buy, sell string) reconcile.ClosedTrade {
	b := decimal.RequireFromString(buy)
	s := decimal.RequireFromString(sell)
	return reconcile.ClosedTrade{
		Instrument: inst,
		BuyDate:    time.Date(2024, 1, buyDay, 0, 0, 0, 0, time.UTC),
		SellDate:   time.Date(2024, 1, sellDay, 0, 0, 0, 0, time.UTC),
		BuyPrice:   b,
		SellPrice:  s,
		PnL:        s.Sub(b),
	}
}

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	result := FormatTradeOrg(trade("TCS.NS", 10, 15, "3500", "3450.5"))

	lines := strings.Split(result, "\n")
	require.Greater(t, len(lines), 8)
	assert.Equal(t, "** Trade: TCS.NS (2024-01-10)", lines[0])
	assert.Equal(t, ":PROPERTIES:", lines[1])
	assert.Contains(t, result, ":SELL_DATE: 2024-01-15")
	assert.Contains(t, result, ":BUY_PRICE: 3500.00")
	assert.Contains(t, result, ":SELL_PRICE: 3450.50")
	assert.Contains(t, result, ":PNL: -49.50")
	assert.Contains(t, result, ":HELD_DAYS: 5")
	assert.Contains(t, result, ":END:")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatTradesOrg(nil))

	result := FormatTradesOrg([]reconcile.ClosedTrade{
		trade("A", 1, 2, "10", "11"),
		trade("B", 3, 4, "20", "19"),
	})
	assert.Equal(t, 2, strings.Count(result, "** Trade:"))
	assert.Less(t, strings.Index(result, "Trade: A"), strings.Index(result, "Trade: B"))
}

func TestFormatSummaryOrg(t *testing.T) {
	t.Parallel()

	trades := []reconcile.ClosedTrade{trade("A", 1, 2, "10", "11.25")}
	m := reconcile.Summarize(trades)
	gen := time.Date(2024, 6, 3, 18, 30, 0, 0, time.UTC)

	out, err := FormatSummaryOrg(reconcile.Summary{Trades: trades, Metrics: &m}, gen)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "* SUMMARY 2024-06-03\n"))
	assert.Contains(t, out, ":GENERATED:      [2024-06-03 Mon 18:30]")
	assert.Contains(t, out, ":TOTAL_TRADES:   1")
	assert.Contains(t, out, ":WIN_RATIO:      100.00")
	assert.Contains(t, out, ":TOTAL_PNL:      1.25")
	assert.Contains(t, out, "| 2024-01-01 | 2024-01-02 | A | 10.00 | 11.25 | 1.25 |")
	assert.Contains(t, out, "** Trade: A (2024-01-01)")
}

func TestFormatSummaryOrgWithoutMetrics(t *testing.T) {
	t.Parallel()

	out, err := FormatSummaryOrg(reconcile.Summary{}, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotContains(t, out, ":TOTAL_TRADES:")
	assert.NotContains(t, out, "** Trade:")
	assert.Contains(t, out, "| Buy Date |")
}
