// Package runner drives one signal cycle: generate, append, journal, then
// reconcile and overwrite the summary.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradesheet/journal"
	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/metrics"
	"github.com/rustyeddy/tradesheet/pkg/id"
	"github.com/rustyeddy/tradesheet/reconcile"
	"github.com/rustyeddy/tradesheet/signals"
)

type Stage string

const (
	StageNone     Stage = ""
	StageGenerate Stage = "generate"
	StageAppend   Stage = "append"
	StageJournal  Stage = "journal"
)

// InstrumentResult records how far one instrument got. Err is set only when
// Stage names the step that failed.
type InstrumentResult struct {
	Instrument string
	Stage      Stage
	Err        error
	Signals    int
	Appended   int
	LatestBuy  bool
}

type Report struct {
	RunID       string
	Started     time.Time
	Finished    time.Time
	Instruments []InstrumentResult
	Result      reconcile.Result
	// Err is the reconcile or summary write failure, if any.
	Err error
}

// Failed reports the instruments that did not complete.
func (r Report) Failed() []InstrumentResult {
	var out []InstrumentResult
	for _, ir := range r.Instruments {
		if ir.Err != nil {
			out = append(out, ir)
		}
	}
	return out
}

type Runner struct {
	Instruments []string
	Generator   signals.Generator
	Ledger      *ledger.Ledger
	Engine      *reconcile.Engine
	Summary     reconcile.SummaryStore
	Journal     journal.TradeJournal
	Log         zerolog.Logger
	Now         func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// RunCycle processes every instrument in order, then reconciles once. It
// never returns early; failures are carried in the report.
func (r *Runner) RunCycle(ctx context.Context) Report {
	started := r.now()
	rep := Report{RunID: id.New(started), Started: started}
	log := r.Log.With().Str("run_id", rep.RunID).Logger()
	log.Info().Int("instruments", len(r.Instruments)).Msg("cycle started")

	latest, err := r.latestDates(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("ledger unreadable, appending every signal")
	}

	for _, inst := range r.Instruments {
		ir := r.processInstrument(ctx, log, inst, latest)
		if ir.Err != nil {
			metrics.InstrumentFailures.WithLabelValues(string(ir.Stage)).Inc()
			log.Error().Err(ir.Err).
				Str("instrument", inst).
				Str("stage", string(ir.Stage)).
				Msg("instrument failed")
		}
		rep.Instruments = append(rep.Instruments, ir)
	}

	rep.Result, rep.Err = r.summarize(ctx)
	if rep.Err != nil {
		log.Error().Err(rep.Err).Msg("summary not updated")
		metrics.CyclesTotal.WithLabelValues("failed").Inc()
	} else {
		metrics.CyclesTotal.WithLabelValues("ok").Inc()
	}

	rep.Finished = r.now()
	log.Info().
		Int("failed", len(rep.Failed())).
		Int("trades", rep.Result.Metrics.TotalTrades).
		Dur("took", rep.Finished.Sub(rep.Started)).
		Msg("cycle finished")
	return rep
}

func (r *Runner) latestDates(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.Ledger.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.LatestDates(rows), nil
}

func (r *Runner) processInstrument(ctx context.Context, log zerolog.Logger, inst string, latest map[string]time.Time) InstrumentResult {
	ir := InstrumentResult{Instrument: inst}

	series, err := r.Generator.Generate(ctx, inst)
	if err != nil {
		ir.Stage, ir.Err = StageGenerate, err
		return ir
	}
	ir.Signals = len(series)

	recs := newRecords(inst, series, latest[inst], r.now())
	n, err := r.Ledger.Append(ctx, recs)
	if err != nil {
		ir.Stage, ir.Err = StageAppend, err
		return ir
	}
	ir.Appended = n
	if n > 0 {
		metrics.SignalsAppended.WithLabelValues(inst).Add(float64(n))
	}
	log.Info().Str("instrument", inst).Int("signals", ir.Signals).Int("appended", n).Msg("signals appended")

	last, ok := signals.Latest(series)
	if !ok || last.Action() != ledger.Buy {
		return ir
	}
	ir.LatestBuy = true
	if r.Journal == nil {
		return ir
	}
	err = r.Journal.Record(journal.Entry{
		Date:       r.now(),
		Instrument: inst,
		Action:     ledger.Buy,
		EntryPrice: last.Close,
	})
	if err != nil {
		ir.Stage, ir.Err = StageJournal, err
	}
	return ir
}

// newRecords keeps Buy/Sell signals dated after since. A zero since keeps all.
func newRecords(inst string, series []signals.Signal, since, loggedAt time.Time) []ledger.Record {
	out := make([]ledger.Record, 0, len(series))
	for _, s := range series {
		a := s.Action()
		if a == ledger.None {
			continue
		}
		if !since.IsZero() && !s.Date.After(since) {
			continue
		}
		out = append(out, ledger.Record{
			LoggedAt:   loggedAt,
			Instrument: inst,
			Date:       s.Date,
			Action:     a,
			Price:      s.Close,
		})
	}
	return out
}

func (r *Runner) summarize(ctx context.Context) (reconcile.Result, error) {
	res, err := r.Engine.Run(ctx)
	if err != nil {
		return res, err
	}
	if err := r.Summary.Overwrite(ctx, res.Trades, res.Metrics); err != nil {
		return res, fmt.Errorf("write summary: %w", err)
	}
	metrics.ObserveSummary(res.Metrics.TotalTrades, res.Metrics.WinRatio, res.Metrics.TotalPnL)
	return res, nil
}
