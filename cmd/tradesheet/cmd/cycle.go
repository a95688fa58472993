package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run one signal cycle and exit",
	Long: `Generate signals for every configured instrument, append new Buy/Sell
signals to the ledger, journal the latest Buy, then reconcile the whole ledger
and overwrite the summary tables.

Example:
  tradesheet cycle -c tradesheet.yaml`,
	RunE: runCycle,
}

func init() {
	rootCmd.AddCommand(cycleCmd)
}

func runCycle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.cycle(ctx)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Cycle %s\n", rep.RunID)
	for _, ir := range rep.Instruments {
		status := "ok"
		if ir.Err != nil {
			status = fmt.Sprintf("failed at %s: %v", ir.Stage, ir.Err)
		}
		fmt.Fprintf(out, "  %-14s signals=%d appended=%d %s\n", ir.Instrument, ir.Signals, ir.Appended, status)
	}
	m := rep.Result.Metrics
	fmt.Fprintf(out, "  trades=%d wins=%d win_ratio=%s%% pnl=%s\n",
		m.TotalTrades, m.WinningTrades, m.WinRatio.StringFixed(2), m.TotalPnL.StringFixed(2))
	return err
}
