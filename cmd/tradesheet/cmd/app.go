package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradesheet/alert"
	"github.com/rustyeddy/tradesheet/config"
	"github.com/rustyeddy/tradesheet/feed"
	"github.com/rustyeddy/tradesheet/journal"
	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/logging"
	"github.com/rustyeddy/tradesheet/reconcile"
	"github.com/rustyeddy/tradesheet/runner"
	"github.com/rustyeddy/tradesheet/signals"
	"github.com/rustyeddy/tradesheet/store"
)

// app holds everything a command needs, built once from the config.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	backend store.Backend
	journal *journal.CSVJournal
	runner  *runner.Runner
}

// newApp opens the store and wires the ledger, alerts, engine and runner.
// withRunner=false skips the feed, notifier and journal for read-only commands.
func newApp(ctx context.Context, cfg *config.Config, withRunner bool) (*app, error) {
	log := logging.New(cfg.App.LogLevel, cfg.App.LogFormat).
		With().Str("app", cfg.App.Name).Logger()

	backend, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Type, err)
	}
	a := &app{cfg: cfg, log: log, backend: backend}
	if !withRunner {
		return a, nil
	}

	src, err := feed.New(cfg.Signals.Feed())
	if err != nil {
		a.Close()
		return nil, err
	}

	notifier, err := alert.New(ctx, cfg.Alerts, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("alerts: %w", err)
	}

	j, err := journal.OpenCSV(cfg.Journal.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.journal = j

	led := ledger.New(backend, alert.NewDispatcher(notifier, log))
	a.runner = &runner.Runner{
		Instruments: cfg.Instruments,
		Generator: &signals.StrategyGenerator{
			Source:   src,
			Strategy: cfg.Signals.StrategyConfig(),
			Lookback: cfg.Signals.Lookback(),
		},
		Ledger:  led,
		Engine:  reconcile.NewEngine(led, log, reconcile.WithRepeatBuy(cfg.Reconcile.RepeatBuyPolicy())),
		Summary: backend,
		Journal: j,
		Log:     log,
	}
	return a, nil
}

func (a *app) Close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close journal")
		}
	}
	if err := a.backend.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close store")
	}
}

// cycle runs one cycle and turns a failed summary write into an error.
// Per-instrument failures are logged by the runner and do not fail the command.
func (a *app) cycle(ctx context.Context) (runner.Report, error) {
	rep := a.runner.RunCycle(ctx)
	if rep.Err != nil {
		return rep, rep.Err
	}
	return rep, nil
}
