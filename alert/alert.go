// Package alert notifies an outside channel about newly appended Buy signals.
package alert

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/market"
	"github.com/rustyeddy/tradesheet/metrics"
)

// Notifier delivers pre-formatted text.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type NotifierFunc func(ctx context.Context, text string) error

func (f NotifierFunc) Notify(ctx context.Context, text string) error { return f(ctx, text) }

// FormatBuy renders the alert text for one Buy record.
func FormatBuy(r ledger.Record) string {
	return fmt.Sprintf("📢 *Buy Signal Alert*\n\n📌 Stock: *%s*\n📅 Date: %s\n💰 Price: %s%s",
		r.Instrument,
		r.Date.Format(ledger.DateLayout),
		market.CurrencySymbol(r.Instrument),
		r.Price.StringFixed(2),
	)
}

// Dispatcher is a ledger.AppendHook that sends one notification per Buy.
// Delivery errors are logged and counted, never returned.
type Dispatcher struct {
	n   Notifier
	log zerolog.Logger
}

func NewDispatcher(n Notifier, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{n: n, log: log.With().Str("component", "alert").Logger()}
}

func (d *Dispatcher) OnAppend(ctx context.Context, recs []ledger.Record) {
	for _, r := range recs {
		if r.Action != ledger.Buy {
			continue
		}
		if err := d.n.Notify(ctx, FormatBuy(r)); err != nil {
			metrics.AlertsTotal.WithLabelValues("failed").Inc()
			d.log.Warn().Err(err).
				Str("instrument", r.Instrument).
				Str("date", r.Date.Format(ledger.DateLayout)).
				Msg("buy alert not delivered")
			continue
		}
		metrics.AlertsTotal.WithLabelValues("sent").Inc()
		d.log.Info().Str("instrument", r.Instrument).Msg("buy alert sent")
	}
}

// LogNotifier writes alerts to the logger instead of an outside channel.
type LogNotifier struct {
	Log zerolog.Logger
}

func (l LogNotifier) Notify(_ context.Context, text string) error {
	l.Log.Info().Str("alert", text).Msg("alert")
	return nil
}
