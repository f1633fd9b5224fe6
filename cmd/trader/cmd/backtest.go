package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/trendcross/backtest"
	"github.com/rustyeddy/trendcross/config"
	"github.com/rustyeddy/trendcross/internal/feed"
	"github.com/rustyeddy/trendcross/journal"
)

type backtestOptions struct {
	symbol   string
	from     string
	to       string
	source   string
	daily    string
	intraday string
	interval string

	fastFine   int
	slowFine   int
	fastCoarse int
	slowCoarse int

	journalType string
	dbPath      string
	tradesFile  string
	runsFile    string

	json   bool
	trades bool
	org    string
}

func newBacktestCmd(root *rootOptions) *cobra.Command {
	opts := &backtestOptions{}

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run the trend-filtered SMA crossover backtest",
		Long: `Backtest evaluates a long-only strategy: enter when the daily SMA trend is
up and the intraday fast SMA is above the slow SMA, exit when either stops
being true.

Flags override values from --config.

Examples:
  trader backtest --symbol AAPL --from 2024-01-01 --to 2024-12-31
  trader backtest --source csv --daily aapl_1d.csv --intraday aapl_15m.csv --json
  trader backtest --config backtest.yaml --journal sqlite --db runs.sqlite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return runBacktest(cmd, root, opts, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.symbol, "symbol", "s", "", "ticker symbol")
	f.StringVar(&opts.from, "from", "", "first day (YYYY-MM-DD)")
	f.StringVar(&opts.to, "to", "", "last day, inclusive (YYYY-MM-DD)")
	f.StringVar(&opts.source, "source", "", "data source (csv, parquet, yahoo)")
	f.StringVar(&opts.daily, "daily", "", "daily bar file (.csv or .parquet)")
	f.StringVar(&opts.intraday, "intraday", "", "intraday bar file (.csv or .parquet)")
	f.StringVar(&opts.interval, "interval", "", "intraday interval (default 15m)")

	f.IntVar(&opts.fastFine, "fast-fine", 0, "intraday fast SMA period")
	f.IntVar(&opts.slowFine, "slow-fine", 0, "intraday slow SMA period")
	f.IntVar(&opts.fastCoarse, "fast-coarse", 0, "daily fast SMA period")
	f.IntVar(&opts.slowCoarse, "slow-coarse", 0, "daily slow SMA period")

	f.StringVarP(&opts.journalType, "journal", "j", "", "journal type (none, csv, sqlite)")
	f.StringVarP(&opts.dbPath, "db", "d", "", "SQLite journal path")
	f.StringVar(&opts.tradesFile, "trades-file", "", "CSV journal trades file")
	f.StringVar(&opts.runsFile, "runs-file", "", "CSV journal runs file")

	f.BoolVar(&opts.json, "json", false, "print the summary as JSON")
	f.BoolVar(&opts.trades, "trades", false, "list every trade")
	f.StringVar(&opts.org, "org", "", "write an Org-mode report to this path")

	return cmd
}

// apply copies explicitly set flags onto cfg.
func (o *backtestOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if f.Changed(name) {
			*dst = v
		}
	}
	setInt := func(name string, dst *int, v int) {
		if f.Changed(name) {
			*dst = v
		}
	}

	set("symbol", &cfg.Symbol, o.symbol)
	set("from", &cfg.From, o.from)
	set("to", &cfg.To, o.to)
	set("source", &cfg.Data.Source, o.source)
	set("daily", &cfg.Data.Daily, o.daily)
	set("intraday", &cfg.Data.Intraday, o.intraday)
	set("interval", &cfg.Data.Interval, o.interval)

	setInt("fast-fine", &cfg.Strategy.FastFine, o.fastFine)
	setInt("slow-fine", &cfg.Strategy.SlowFine, o.slowFine)
	setInt("fast-coarse", &cfg.Strategy.FastCoarse, o.fastCoarse)
	setInt("slow-coarse", &cfg.Strategy.SlowCoarse, o.slowCoarse)

	set("journal", &cfg.Journal.Type, o.journalType)
	set("db", &cfg.Journal.DBPath, o.dbPath)
	set("trades-file", &cfg.Journal.TradesFile, o.tradesFile)
	set("runs-file", &cfg.Journal.RunsFile, o.runsFile)
}

func runBacktest(cmd *cobra.Command, root *rootOptions, opts *backtestOptions, cfg *config.Config) error {
	ctx := cmd.Context()
	log := root.logger(cmd, cfg)

	from, to, err := cfg.Range()
	if err != nil {
		return err
	}

	src, err := feed.FromConfig(cfg, newFetcher())
	if err != nil {
		return err
	}

	log.Debug("loading bars", "symbol", cfg.Symbol, "source", src.String(), "from", cfg.From, "to", cfg.To)
	coarse, fine, err := src.Load(ctx, cfg.Symbol, from, to)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	engine := backtest.NewEngine(cfg.Strategy)
	engine.Logger = log

	res, err := engine.Run(ctx, backtest.Input{
		Symbol: cfg.Symbol,
		From:   from,
		To:     to,
		Coarse: coarse,
		Fine:   fine,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Summary); err != nil {
			return err
		}
	} else {
		backtest.PrintResult(out, res)
	}
	if opts.trades {
		backtest.PrintTrades(out, res.Trades)
	}

	run, trades := journal.Records(src.String(), res)

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
		if err := journal.Write(j, run, trades); err != nil {
			return err
		}
		log.Info("journaled run", "run_id", run.RunID, "trades", len(trades), "journal", cfg.Journal.Type)
	}

	if opts.org != "" {
		if err := journal.WriteRunOrg(opts.org, run, trades); err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
		log.Info("wrote org report", "path", opts.org)
	}
	return nil
}

// openJournal returns nil when journaling is off.
func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return nil, nil
	case "csv":
		j, err := journal.NewCSV(jc.TradesFile, jc.RunsFile)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		return j, nil
	case "sqlite":
		j, err := journal.NewSQLite(jc.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}
