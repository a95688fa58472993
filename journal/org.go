package journal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/reconcile"
)

// FormatTradeOrg renders one closed trade as an Org heading with a
// properties drawer.
func FormatTradeOrg(t reconcile.ClosedTrade) string {
	var b strings.Builder

	fmt.Fprintf(&b, "** Trade: %s (%s)\n", t.Instrument, t.BuyDate.Format(ledger.DateLayout))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", t.Instrument)
	fmt.Fprintf(&b, ":BUY_DATE: %s\n", t.BuyDate.Format(ledger.DateLayout))
	fmt.Fprintf(&b, ":SELL_DATE: %s\n", t.SellDate.Format(ledger.DateLayout))
	fmt.Fprintf(&b, ":BUY_PRICE: %s\n", t.BuyPrice.StringFixed(2))
	fmt.Fprintf(&b, ":SELL_PRICE: %s\n", t.SellPrice.StringFixed(2))
	fmt.Fprintf(&b, ":PNL: %s\n", t.PnL.StringFixed(2))
	fmt.Fprintf(&b, ":HELD_DAYS: %d\n", int(t.SellDate.Sub(t.BuyDate).Hours()/24))
	b.WriteString(":END:\n")

	return b.String()
}

func FormatTradesOrg(trades []reconcile.ClosedTrade) string {
	parts := make([]string, 0, len(trades))
	for _, t := range trades {
		parts = append(parts, FormatTradeOrg(t))
	}
	return strings.Join(parts, "\n")
}

type summaryView struct {
	Generated time.Time
	Trades    []reconcile.ClosedTrade
	Metrics   reconcile.Metrics
	HasMetric bool
	Body      string
}

const summaryOrgTemplate = `* SUMMARY {{.Generated.Format "2006-01-02"}}
:PROPERTIES:
:GENERATED:      [{{.Generated.Format "2006-01-02 Mon 15:04"}}]
{{- if .HasMetric }}
:TOTAL_TRADES:   {{.Metrics.TotalTrades}}
:WINNING_TRADES: {{.Metrics.WinningTrades}}
:WIN_RATIO:      {{.Metrics.WinRatio.StringFixed 2}}
:TOTAL_PNL:      {{.Metrics.TotalPnL.StringFixed 2}}
{{- end }}
:END:

| Buy Date | Sell Date | Stock | Buy Price | Sell Price | P&L |
|----------+-----------+-------+-----------+------------+-----|
{{- range .Trades }}
| {{.BuyDate.Format "2006-01-02"}} | {{.SellDate.Format "2006-01-02"}} | {{.Instrument}} | {{.BuyPrice.StringFixed 2}} | {{.SellPrice.StringFixed 2}} | {{.PnL.StringFixed 2}} |
{{- end }}
{{ if .Body }}
{{.Body}}{{ end }}`

var summaryOrg = template.Must(template.New("summary").Parse(summaryOrgTemplate))

// FormatSummaryOrg renders the persisted summary as an Org document: a
// metrics drawer, a trades table and one heading per trade.
func FormatSummaryOrg(sum reconcile.Summary, generated time.Time) (string, error) {
	v := summaryView{
		Generated: generated,
		Trades:    sum.Trades,
		Body:      FormatTradesOrg(sum.Trades),
	}
	if sum.Metrics != nil {
		v.Metrics = *sum.Metrics
		v.HasMetric = true
	}

	buf := new(bytes.Buffer)
	if err := summaryOrg.Execute(buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
