package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/trendcross/market"
)

func newDataCmd() *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect and convert bar files",
		Long: `Tools for local bar files (.csv or .parquet).

Subcommands:
  stats     - Report bar count and gaps
  resample  - Aggregate bars into a coarser timeframe

Examples:
  trader data stats AAPL_15m.csv
  trader data resample AAPL_15m.parquet AAPL_1d.csv --timeframe 1d`,
	}

	var statsTF string
	statsCmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Report bar count and gaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tf := statsTF
			if tf == "" {
				tf = timeframeFromName(args[0])
			}
			step, err := market.Step(tf)
			if err != nil {
				return err
			}
			s, err := market.Load(args[0], "", tf)
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return err
			}
			market.PrintStats(cmd.OutOrStdout(), s, step)
			return nil
		},
	}
	statsCmd.Flags().StringVarP(&statsTF, "timeframe", "t", "", "bar timeframe (default from file name, else 15m)")

	var resampleTF string
	resampleCmd := &cobra.Command{
		Use:   "resample <in> <out>",
		Short: "Aggregate bars into a coarser timeframe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := market.FormatOf(args[1])
			if err != nil {
				return err
			}
			in, err := market.Load(args[0], "", timeframeFromName(args[0]))
			if err != nil {
				return err
			}
			out, err := market.Resample(in, resampleTF)
			if err != nil {
				return err
			}
			if err := market.Save(args[1], format, out); err != nil {
				return err
			}
			printf(cmd, "%d bars -> %d %s bars: %s\n", in.Len(), out.Len(), resampleTF, args[1])
			return nil
		},
	}
	resampleCmd.Flags().StringVarP(&resampleTF, "timeframe", "t", "1d", "target timeframe")

	dataCmd.AddCommand(statsCmd, resampleCmd)
	return dataCmd
}

// timeframeFromName picks the interval out of names like AAPL_15m.csv.
func timeframeFromName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.LastIndexByte(base, '_'); i >= 0 {
		if _, err := market.Step(base[i+1:]); err == nil {
			return base[i+1:]
		}
	}
	return "15m"
}
