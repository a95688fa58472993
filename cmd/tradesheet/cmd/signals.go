package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "List the signal ledger",
	Long: `Print every row of the signal ledger in append order.

Examples:
  tradesheet signals
  tradesheet signals --instrument TCS.NS`,
	Args: cobra.NoArgs,
	RunE: runSignals,
}

var signalsInstrument string

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.Flags().StringVarP(&signalsInstrument, "instrument", "i", "", "only rows for this instrument")
}

func runSignals(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	rows, err := a.backend.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOGGED AT\tINSTRUMENT\tDATE\tSIGNAL\tCLOSE")
	for _, r := range rows {
		if signalsInstrument != "" && !strings.EqualFold(r.Instrument, signalsInstrument) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.LoggedAt, r.Instrument, r.Date, r.Signal, r.Close)
	}
	return tw.Flush()
}
