package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesheet/journal"
	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/reconcile"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the persisted trade summary",
	Long: `Print the closed trades and metrics written by the last cycle.

Examples:
  tradesheet summary
  tradesheet summary --format json
  tradesheet summary --closed-on 2024-01-15`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

var (
	summaryFormat   string
	summaryClosedOn string
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "o", "org", "output format: org or json")
	summaryCmd.Flags().StringVar(&summaryClosedOn, "closed-on", "", "only trades sold on this day (YYYY-MM-DD)")
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	sum, err := a.backend.ReadSummary(ctx)
	if err != nil {
		return fmt.Errorf("read summary: %w", err)
	}

	if summaryClosedOn != "" {
		day, err := time.Parse(ledger.DateLayout, summaryClosedOn)
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
		sum.Trades = closedOn(sum.Trades, day)
	}

	out := cmd.OutOrStdout()
	switch summaryFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	case "org":
		doc, err := journal.FormatSummaryOrg(sum, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, doc)
		return nil
	default:
		return fmt.Errorf("unknown format %q", summaryFormat)
	}
}

func closedOn(trades []reconcile.ClosedTrade, day time.Time) []reconcile.ClosedTrade {
	out := []reconcile.ClosedTrade{}
	for _, t := range trades {
		if t.SellDate.Equal(day) {
			out = append(out, t)
		}
	}
	return out
}
