package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/trendcross/strategy"
)

// DateLayout is the layout of From and To.
const DateLayout = time.DateOnly

// Environment variables that override values loaded from a file.
const (
	EnvSymbol   = "TRENDCROSS_SYMBOL"
	EnvLogLevel = "TRENDCROSS_LOG_LEVEL"
)

// Config represents the complete backtest configuration
type Config struct {
	Symbol   string          `json:"symbol" yaml:"symbol"`
	From     string          `json:"from" yaml:"from"`
	To       string          `json:"to" yaml:"to"`
	Strategy strategy.Config `json:"strategy" yaml:"strategy"`
	Data     DataConfig      `json:"data" yaml:"data"`
	Journal  JournalConfig   `json:"journal" yaml:"journal"`
	Log      LogConfig       `json:"log" yaml:"log"`
}

// DataConfig says where the coarse and fine series come from.
type DataConfig struct {
	Source   string `json:"source" yaml:"source"` // "csv", "parquet" or "yahoo"
	Daily    string `json:"daily,omitempty" yaml:"daily,omitempty"` // empty: resample intraday
	Intraday string `json:"intraday,omitempty" yaml:"intraday,omitempty"`
	Interval string `json:"interval,omitempty" yaml:"interval,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Load reads a configuration file (YAML or JSON) over the defaults and
// applies environment overrides. The result is not validated, so callers
// can layer flags on top before calling Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFromFile is Load followed by Validate.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from TRENDCROSS_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvSymbol)); v != "" {
		c.Symbol = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	from, to, err := c.Range()
	if err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("to (%s) is before from (%s)", c.To, c.From)
	}
	if err := c.Strategy.Validate(); err != nil {
		return err
	}

	switch c.Data.Source {
	case "csv", "parquet":
		if c.Data.Intraday == "" {
			return fmt.Errorf("data.intraday required for %s source", c.Data.Source)
		}
	case "yahoo":
	default:
		return fmt.Errorf("data.source must be 'csv', 'parquet' or 'yahoo'")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.RunsFile == "" {
			return fmt.Errorf("journal trades_file and runs_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	return nil
}

// Range parses From and To as UTC calendar days.
func (c *Config) Range() (from, to time.Time, err error) {
	from, err = time.Parse(DateLayout, c.From)
	if err != nil {
		return from, to, fmt.Errorf("from: %w", err)
	}
	to, err = time.Parse(DateLayout, c.To)
	if err != nil {
		return from, to, fmt.Errorf("to: %w", err)
	}
	return from, to, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Symbol:   "AAPL",
		From:     "2024-01-01",
		To:       "2024-12-31",
		Strategy: strategy.Defaults(),
		Data: DataConfig{
			Source:   "yahoo",
			Interval: "15m",
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
