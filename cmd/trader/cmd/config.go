package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/trendcross/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage backtest configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  trader config init -o backtest.yaml
  trader config validate -f backtest.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			printf(cmd, "✓ Created default configuration: %s\n", output)
			printf(cmd, "\nEdit the file and run with:\n")
			printf(cmd, "  trader backtest --config %s\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "backtest.yaml", "output config file path")

	var file string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(file)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			printf(cmd, "✓ Configuration valid: %s\n", file)
			printf(cmd, "  Symbol:   %s (%s .. %s)\n", cfg.Symbol, cfg.From, cfg.To)
			printf(cmd, "  Strategy: %s\n", cfg.Strategy)
			printf(cmd, "  Data:     %s\n", cfg.Data.Source)
			printf(cmd, "  Journal:  %s\n", journalType(cfg.Journal.Type))
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&file, "file", "f", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("file")

	configCmd.AddCommand(initCmd, validateCmd)
	return configCmd
}

func journalType(t string) string {
	if t == "" {
		return "none"
	}
	return t
}
