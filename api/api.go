// Package api serves the read-only JSON view of the ledger and summary.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/metrics"
	"github.com/rustyeddy/tradesheet/reconcile"
)

type SignalReader interface {
	ReadAll(ctx context.Context) ([]ledger.Row, error)
}

type SummaryReader interface {
	ReadSummary(ctx context.Context) (reconcile.Summary, error)
}

// Handler serves the read surface. Store failures degrade to empty results.
type Handler struct {
	signals SignalReader
	summary SummaryReader
	log     zerolog.Logger
}

func NewHandler(signals SignalReader, summary SummaryReader, log zerolog.Logger) *Handler {
	return &Handler{signals: signals, summary: summary, log: log.With().Str("component", "api").Logger()}
}

// Routes returns the mux with every endpoint mounted.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/signals", h.Signals)
	mux.HandleFunc("/summary", h.Summary)
	mux.HandleFunc("/healthz", h.Health)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// Signals handles GET /signals[?instrument=X].
func (h *Handler) Signals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rows, err := h.signals.ReadAll(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("read signals")
		rows = nil
	}

	out := make([]ledger.Row, 0, len(rows))
	inst := strings.TrimSpace(r.URL.Query().Get("instrument"))
	for _, row := range rows {
		if inst != "" && !strings.EqualFold(row.Instrument, inst) {
			continue
		}
		out = append(out, row)
	}
	writeJSON(w, out)
}

// Summary handles GET /summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sum, err := h.summary.ReadSummary(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("read summary")
		sum = reconcile.Summary{}
	}
	if sum.Trades == nil {
		sum.Trades = []reconcile.ClosedTrade{}
	}
	writeJSON(w, sum)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// NewServer wraps h in an http.Server with conservative timeouts.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
}
