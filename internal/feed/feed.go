// Package feed loads the coarse (daily) and fine (intraday) series a
// backtest consumes, either from local bar files or from a remote fetcher.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/trendcross/config"
	"github.com/rustyeddy/trendcross/market"
	"github.com/rustyeddy/trendcross/yahoo"
)

const (
	CoarseTimeframe = "1d"
	FineTimeframe   = "15m"
)

// Source produces both series for a symbol over the calendar days from..to.
type Source interface {
	Load(ctx context.Context, symbol string, from, to time.Time) (coarse, fine *market.Series, err error)
	String() string
}

// Files reads bar files (.csv or .parquet) and keeps bars in [from, to+1day).
// With no Daily file the coarse series is resampled from the intraday bars.
type Files struct {
	Daily    string
	Intraday string
	Interval string
}

func (f Files) Load(ctx context.Context, symbol string, from, to time.Time) (*market.Series, *market.Series, error) {
	fine, err := market.Load(f.Intraday, symbol, orFine(f.Interval))
	if err != nil {
		return nil, nil, fmt.Errorf("intraday bars: %w", err)
	}
	fine = fine.Between(from, to)

	if f.Daily == "" {
		coarse, err := market.Resample(fine, CoarseTimeframe)
		if err != nil {
			return nil, nil, fmt.Errorf("resample daily bars: %w", err)
		}
		return coarse, fine, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	coarse, err := market.Load(f.Daily, symbol, CoarseTimeframe)
	if err != nil {
		return nil, nil, fmt.Errorf("daily bars: %w", err)
	}
	return coarse.Between(from, to), fine, nil
}

func (f Files) String() string {
	if f.Daily == "" {
		return f.Intraday + " (daily resampled)"
	}
	return f.Daily + "+" + f.Intraday
}

// Remote downloads both series through a Fetcher.
type Remote struct {
	Fetcher  yahoo.Fetcher
	Interval string
}

func (r Remote) Load(ctx context.Context, symbol string, from, to time.Time) (*market.Series, *market.Series, error) {
	coarse, err := r.Fetcher.FetchBars(ctx, symbol, from, to, CoarseTimeframe)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s %s: %w", symbol, CoarseTimeframe, err)
	}
	interval := orFine(r.Interval)
	fine, err := r.Fetcher.FetchBars(ctx, symbol, from, to, interval)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s %s: %w", symbol, interval, err)
	}
	return coarse, fine, nil
}

func (r Remote) String() string {
	return "yahoo"
}

// FromConfig picks the Source named by cfg.Data.Source. fetcher is only used
// for the yahoo source; nil selects a default client.
func FromConfig(cfg *config.Config, fetcher yahoo.Fetcher) (Source, error) {
	switch cfg.Data.Source {
	case "csv", "parquet":
		return Files{Daily: cfg.Data.Daily, Intraday: cfg.Data.Intraday, Interval: cfg.Data.Interval}, nil
	case "yahoo":
		if fetcher == nil {
			fetcher = yahoo.NewClient("")
		}
		return Remote{Fetcher: fetcher, Interval: cfg.Data.Interval}, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

func orFine(interval string) string {
	if interval == "" {
		return FineTimeframe
	}
	return interval
}
