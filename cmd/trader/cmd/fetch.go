package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/trendcross/market"
)

type fetchOptions struct {
	symbol    string
	from      string
	to        string
	intervals []string
	format    string
	outDir    string
}

func newFetchCmd(root *rootOptions) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download daily and intraday bars from Yahoo Finance",
		Long: `Fetch downloads bars for a symbol and writes one file per interval,
named SYMBOL_INTERVAL.csv or SYMBOL_INTERVAL.parquet.

Examples:
  trader fetch --symbol AAPL --from 2024-01-01 --to 2024-12-31
  trader fetch --symbol MSFT --interval 1d --format parquet --out data/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.symbol, "symbol", "s", "", "ticker symbol (default from config)")
	f.StringVar(&opts.from, "from", "", "first day (YYYY-MM-DD)")
	f.StringVar(&opts.to, "to", "", "last day, inclusive (YYYY-MM-DD)")
	f.StringSliceVarP(&opts.intervals, "interval", "i", []string{"1d", "15m"}, "bar intervals to download")
	f.StringVar(&opts.format, "format", "csv", "output format (csv, parquet)")
	f.StringVarP(&opts.outDir, "out", "o", ".", "output directory")

	return cmd
}

func runFetch(cmd *cobra.Command, root *rootOptions, opts *fetchOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	if opts.symbol != "" {
		cfg.Symbol = opts.symbol
	}
	if opts.from != "" {
		cfg.From = opts.from
	}
	if opts.to != "" {
		cfg.To = opts.to
	}
	from, to, err := cfg.Range()
	if err != nil {
		return err
	}
	switch opts.format {
	case "csv", "parquet":
	default:
		return fmt.Errorf("unsupported format %q (want csv or parquet)", opts.format)
	}
	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return err
	}

	log := root.logger(cmd, cfg)
	fetcher := newFetcher()

	for _, interval := range opts.intervals {
		interval = strings.TrimSpace(interval)
		s, err := fetcher.FetchBars(cmd.Context(), cfg.Symbol, from, to, interval)
		if err != nil {
			return fmt.Errorf("fetch %s %s: %w", cfg.Symbol, interval, err)
		}

		name := fmt.Sprintf("%s_%s%s", strings.ToUpper(cfg.Symbol), interval, market.Extension(opts.format))
		path := filepath.Join(opts.outDir, name)
		if err := market.Save(path, opts.format, s); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}

		log.Debug("fetched bars", "symbol", cfg.Symbol, "interval", interval, "bars", s.Len())
		printf(cmd, "%-6s %5d bars -> %s\n", interval, s.Len(), path)
	}
	return nil
}
