package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var (
	SignalsAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_appended_total", Help: "Signal records appended to the ledger"},
		[]string{"instrument"},
	)
	AlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "alerts_total", Help: "Buy alerts attempted, by result"},
		[]string{"result"},
	)
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cycles_total", Help: "Run cycles completed, by result"},
		[]string{"result"},
	)
	InstrumentFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "instrument_failures_total", Help: "Per-instrument failures, by stage"},
		[]string{"stage"},
	)
	ClosedTrades = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "closed_trades", Help: "Closed trades in the last reconciliation"},
	)
	WinRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "win_ratio_percent", Help: "Win ratio of the last reconciliation"},
	)
	TotalPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "total_pnl", Help: "Total P&L of the last reconciliation"},
	)
)

func init() {
	prometheus.MustRegister(
		SignalsAppended,
		AlertsTotal,
		CyclesTotal,
		InstrumentFailures,
		ClosedTrades,
		WinRatio,
		TotalPnL,
	)
}

// ObserveSummary publishes the metrics row of a reconciliation.
func ObserveSummary(total int, winRatio, pnl decimal.Decimal) {
	ClosedTrades.Set(float64(total))
	WinRatio.Set(winRatio.InexactFloat64())
	TotalPnL.Set(pnl.InexactFloat64())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
