package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/trendcross/config"
	"github.com/rustyeddy/trendcross/internal/logx"
	"github.com/rustyeddy/trendcross/yahoo"
)

// newFetcher is swapped out by tests.
var newFetcher = func() yahoo.Fetcher { return yahoo.NewClient("") }

type rootOptions struct {
	configFile string
	logLevel   string
}

// NewRootCmd builds the trader command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "trader",
		Short: "Backtest a trend-filtered SMA crossover strategy",
		Long: `Trader backtests a long-only SMA crossover on intraday bars, gated by a
daily SMA trend filter.

It provides tools for:
  - Running backtests from CSV, Parquet or Yahoo Finance data
  - Downloading daily and intraday bars for offline runs
  - Journaling runs and trades to CSV or SQLite
  - Exporting run reports as Org-mode documents`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newBacktestCmd(opts),
		newFetchCmd(opts),
		newDataCmd(),
		newConfigCmd(),
		newJournalCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load returns the file config (or defaults plus environment overrides) with
// the --log-level flag applied on top.
func (o *rootOptions) load() (*config.Config, error) {
	var cfg *config.Config
	if o.configFile != "" {
		c, err := config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.Default()
		cfg.ApplyEnv()
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

func (o *rootOptions) logger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logx.New(cmd.ErrOrStderr(), cfg.Log.Level)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
