package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesheet/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a cycle, then serve the ledger and summary over HTTP",
	Long: `Run one signal cycle at startup and serve /signals, /summary, /healthz
and /metrics until interrupted. With --every, a cycle also runs on that interval.

Example:
  tradesheet serve -c tradesheet.yaml --every 24h`,
	RunE: runServe,
}

var (
	serveEvery   time.Duration
	serveNoCycle bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().DurationVar(&serveEvery, "every", 0, "repeat the cycle on this interval (0 runs it once)")
	serveCmd.Flags().BoolVar(&serveNoCycle, "no-cycle", false, "serve only, without running a cycle")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, !serveNoCycle)
	if err != nil {
		return err
	}
	defer a.Close()

	if !serveNoCycle {
		if _, err := a.cycle(ctx); err != nil {
			a.log.Error().Err(err).Msg("startup cycle failed")
		}
		if serveEvery > 0 {
			go a.loop(ctx, serveEvery)
		}
	}

	srv := api.NewServer(cfg.HTTP.Addr, api.NewHandler(a.backend, a.backend, a.log).Routes())
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", cfg.HTTP.Addr).Msg("http listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *app) loop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := a.cycle(ctx); err != nil {
				a.log.Error().Err(err).Msg("cycle failed")
			}
		}
	}
}
