package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rustyeddy/tradesheet/ledger"
)

var (
	// TradesHeader is the header row of the trades summary table.
	TradesHeader = []string{"Buy Date", "Sell Date", "Stock", "Buy Price", "Sell Price", "P&L"}
	// MetricsHeader is the header row of the metrics summary table.
	MetricsHeader = []string{"Total Trades", "Winning Trades", "Win Ratio (%)", "Total P&L"}
)

// TradeCells renders a trade in TradesHeader order. Prices are written with
// two decimals.
func TradeCells(t ClosedTrade) []string {
	return []string{
		t.BuyDate.Format(ledger.DateLayout),
		t.SellDate.Format(ledger.DateLayout),
		t.Instrument,
		t.BuyPrice.StringFixed(2),
		t.SellPrice.StringFixed(2),
		t.PnL.StringFixed(2),
	}
}

// MetricsCells renders metrics in MetricsHeader order.
func MetricsCells(m Metrics) []string {
	return []string{
		strconv.Itoa(m.TotalTrades),
		strconv.Itoa(m.WinningTrades),
		m.WinRatio.StringFixed(2),
		m.TotalPnL.StringFixed(2),
	}
}

// ParseTradeCells is the inverse of TradeCells.
func ParseTradeCells(cells []string) (ClosedTrade, error) {
	if len(cells) < len(TradesHeader) {
		return ClosedTrade{}, fmt.Errorf("trade row has %d cells, want %d", len(cells), len(TradesHeader))
	}
	var (
		t   ClosedTrade
		err error
	)
	if t.BuyDate, err = ledger.ParseDate(cells[0]); err != nil {
		return ClosedTrade{}, err
	}
	if t.SellDate, err = ledger.ParseDate(cells[1]); err != nil {
		return ClosedTrade{}, err
	}
	t.Instrument = strings.TrimSpace(cells[2])
	if t.BuyPrice, err = ledger.ParsePrice(cells[3]); err != nil {
		return ClosedTrade{}, err
	}
	if t.SellPrice, err = ledger.ParsePrice(cells[4]); err != nil {
		return ClosedTrade{}, err
	}
	if t.PnL, err = ledger.ParsePrice(cells[5]); err != nil {
		return ClosedTrade{}, err
	}
	return t, nil
}

// ParseMetricsCells is the inverse of MetricsCells.
func ParseMetricsCells(cells []string) (Metrics, error) {
	if len(cells) < len(MetricsHeader) {
		return Metrics{}, fmt.Errorf("metrics row has %d cells, want %d", len(cells), len(MetricsHeader))
	}
	var (
		m   Metrics
		err error
	)
	if m.TotalTrades, err = strconv.Atoi(strings.TrimSpace(cells[0])); err != nil {
		return Metrics{}, fmt.Errorf("total trades: %w", err)
	}
	if m.WinningTrades, err = strconv.Atoi(strings.TrimSpace(cells[1])); err != nil {
		return Metrics{}, fmt.Errorf("winning trades: %w", err)
	}
	if m.WinRatio, err = ledger.ParsePrice(cells[2]); err != nil {
		return Metrics{}, err
	}
	if m.TotalPnL, err = ledger.ParsePrice(cells[3]); err != nil {
		return Metrics{}, err
	}
	return m, nil
}
