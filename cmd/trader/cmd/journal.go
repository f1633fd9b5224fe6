package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/trendcross/journal"
)

func newJournalCmd() *cobra.Command {
	var dbPath string

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Query the SQLite run journal",
		Long: `Query and display backtest runs and trades from the SQLite journal.

Subcommands:
  runs    - List recent runs
  trades  - List the trades of a run
  trade   - Show a single trade
  day     - List trades closed on a specific day
  report  - Print or write an Org-mode report for a run

Examples:
  trader journal runs --limit 5
  trader journal trades 01HZX3K9...
  trader journal day 2024-03-15
  trader journal report 01HZX3K9... -o run.org`,
	}
	journalCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "./trendcross.sqlite", "path to SQLite journal DB")

	// withDB opens the journal around fn.
	withDB := func(fn func(cmd *cobra.Command, j *journal.SQLite, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()
			return fn(cmd, j, args)
		}
	}

	var limit int
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: withDB(func(cmd *cobra.Command, j *journal.SQLite, args []string) error {
			runs, err := j.ListRuns(limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				printf(cmd, "no runs\n")
				return nil
			}
			printf(cmd, "%-26s  %-6s  %-10s  %-10s  %6s  %9s\n", "RUN_ID", "SYMBOL", "FROM", "TO", "TRADES", "RETURN")
			for _, r := range runs {
				printf(cmd, "%-26s  %-6s  %-10s  %-10s  %6d  %8.2f%%\n",
					r.RunID, r.Symbol, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly),
					r.NumTrades, r.TotalReturnPct*100)
			}
			return nil
		}),
	}
	runsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list (0 = all)")

	tradesCmd := &cobra.Command{
		Use:   "trades <run-id>",
		Short: "List the trades of a run",
		Args:  cobra.ExactArgs(1),
		RunE: withDB(func(cmd *cobra.Command, j *journal.SQLite, args []string) error {
			recs, err := j.ListTradesByRun(args[0])
			if err != nil {
				return fmt.Errorf("query trades: %w", err)
			}
			printf(cmd, "%s", journal.FormatTradesOrg(recs))
			return nil
		}),
	}

	tradeCmd := &cobra.Command{
		Use:   "trade <trade-id>",
		Short: "Get details of a specific trade",
		Args:  cobra.ExactArgs(1),
		RunE: withDB(func(cmd *cobra.Command, j *journal.SQLite, args []string) error {
			rec, err := j.GetTrade(args[0])
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			printf(cmd, "%s", journal.FormatTradeOrg(rec))
			return nil
		}),
	}

	dayCmd := &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List trades closed on a specific day (UTC)",
		Args:  cobra.ExactArgs(1),
		RunE: withDB(func(cmd *cobra.Command, j *journal.SQLite, args []string) error {
			start, end, err := dayBounds(time.UTC, args[0])
			if err != nil {
				return fmt.Errorf("date: %w", err)
			}
			recs, err := j.ListTradesClosedBetween(start, end)
			if err != nil {
				return fmt.Errorf("query trades: %w", err)
			}
			printf(cmd, "%s", journal.FormatTradesOrg(recs))
			return nil
		}),
	}

	var output string
	reportCmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Print an Org-mode report for a run",
		Args:  cobra.ExactArgs(1),
		RunE: withDB(func(cmd *cobra.Command, j *journal.SQLite, args []string) error {
			run, err := j.GetRun(args[0])
			if err != nil {
				return err
			}
			trades, err := j.ListTradesByRun(run.RunID)
			if err != nil {
				return fmt.Errorf("query trades: %w", err)
			}
			if output != "" {
				if err := journal.WriteRunOrg(output, run, trades); err != nil {
					return err
				}
				printf(cmd, "✓ Wrote %s\n", output)
				return nil
			}
			s, err := journal.FormatRunOrg(run, trades)
			if err != nil {
				return err
			}
			printf(cmd, "%s", s)
			return nil
		}),
	}
	reportCmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file")

	journalCmd.AddCommand(runsCmd, tradesCmd, tradeCmd, dayCmd, reportCmd)
	return journalCmd
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1), nil
}
