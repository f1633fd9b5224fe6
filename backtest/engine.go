// Package backtest runs the trend-filtered SMA crossover strategy over a
// coarse and a fine price series and summarises the result.
package backtest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/trendcross/indicators"
	"github.com/rustyeddy/trendcross/internal/logx"
	"github.com/rustyeddy/trendcross/market"
	"github.com/rustyeddy/trendcross/strategy"
)

// cancelCheckEvery is how many fine samples run between context checks.
const cancelCheckEvery = 1024

// Input is everything a run consumes. Both series must already be sorted
// ascending with naive (UTC) timestamps.
type Input struct {
	Symbol string
	From   time.Time
	To     time.Time
	Coarse *market.Series
	Fine   *market.Series
}

// Summary is the aggregate outcome of a run.
type Summary struct {
	Symbol         string    `json:"symbol"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	NumTrades      int       `json:"numTrades"`
	TotalReturnPct float64   `json:"totalReturnPct"`
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Symbol         string  `json:"symbol"`
		From           string  `json:"from"`
		To             string  `json:"to"`
		NumTrades      int     `json:"numTrades"`
		TotalReturnPct float64 `json:"totalReturnPct"`
	}{s.Symbol, dateStr(s.From), dateStr(s.To), s.NumTrades, s.TotalReturnPct})
}

// Result is the Summary plus the full trade history and derived metrics.
type Result struct {
	Summary Summary         `json:"summary"`
	Config  strategy.Config `json:"config"`
	Trades  []Trade         `json:"trades"`
	Open    *Position       `json:"open,omitempty"`
	Equity  float64         `json:"equity"`
	Metrics Metrics         `json:"metrics"`

	// First and last fine bar times.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Samples is the number of fine bars with both indicators defined.
	Samples int `json:"samples"`
}

// Engine runs backtests for one strategy configuration. An Engine holds no
// per-run state and may be reused.
type Engine struct {
	Config strategy.Config
	Logger *slog.Logger

	// OnTrade, if set, is called for every open and close as it happens.
	OnTrade func(Transition, Trade)
}

func NewEngine(cfg strategy.Config) *Engine {
	return &Engine{Config: cfg}
}

// Run executes a backtest with the given configuration.
func Run(ctx context.Context, cfg strategy.Config, in Input) (*Result, error) {
	return NewEngine(cfg).Run(ctx, in)
}

// Run validates the input, computes indicators for both series and walks the
// fine series in order. It either returns a complete Result or an error.
func (e *Engine) Run(ctx context.Context, in Input) (*Result, error) {
	log := e.Logger
	if log == nil {
		log = logx.Discard()
	}

	if err := e.Config.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	if in.Coarse.Len() == 0 || in.Fine.Len() == 0 {
		return nil, fmt.Errorf("%w: coarse=%d fine=%d bars", ErrNoData, in.Coarse.Len(), in.Fine.Len())
	}
	if err := in.Coarse.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: coarse: %w", err)
	}
	if err := in.Fine.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: fine: %w", err)
	}

	trend, err := strategy.NewTrend(in.Coarse, e.Config.FastCoarse, e.Config.SlowCoarse)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	closes := in.Fine.Closes()
	fast, err := indicators.SMA(closes, e.Config.FastFine)
	if err != nil {
		return nil, fmt.Errorf("backtest: fine fast SMA: %w", err)
	}
	slow, err := indicators.SMA(closes, e.Config.SlowFine)
	if err != nil {
		return nil, fmt.Errorf("backtest: fine slow SMA: %w", err)
	}

	tracker := NewTracker()
	samples := 0
	for i, b := range in.Fine.Bars {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		bullish, ok := strategy.Crossover(fast, slow, i)
		if !ok {
			continue
		}
		samples++

		uptrend := trend.Bullish(b.Time)
		tr := tracker.Step(b.Time, b.Close, uptrend, bullish)
		if tr == Hold {
			continue
		}

		last, _ := tracker.Last()
		if tr == Opened {
			log.Debug("open", "symbol", in.Symbol, "time", b.Time, "price", b.Close)
		} else {
			log.Debug("close", "symbol", in.Symbol, "time", b.Time, "price", b.Close,
				"pnl", last.PnLPct, "equity", tracker.Equity())
		}
		if e.OnTrade != nil {
			e.OnTrade(tr, last)
		}
	}

	closed := tracker.ClosedTrades()
	res := &Result{
		Summary: Summary{
			Symbol:         in.Symbol,
			From:           in.From,
			To:             in.To,
			NumTrades:      len(closed),
			TotalReturnPct: tracker.Equity() - 1,
		},
		Config:  e.Config,
		Trades:  tracker.Trades(),
		Equity:  tracker.Equity(),
		Samples: samples,
	}
	res.Start, res.End = in.Fine.Span()
	if pos, ok := tracker.Open(); ok {
		res.Open = &pos
	}
	res.Metrics = ComputeMetrics(closed, res.Start, res.End)

	log.Info("backtest complete",
		"symbol", in.Symbol,
		"trades", res.Summary.NumTrades,
		"return", res.Summary.TotalReturnPct,
		"open", res.Open != nil,
	)
	return res, nil
}

func dateStr(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
