// Package journal persists backtest runs and their closed trades.
package journal

import (
	"fmt"
	"time"

	"github.com/rustyeddy/trendcross/backtest"
	"github.com/rustyeddy/trendcross/pkg/id"
)

// RunRecord is one backtest run with its configuration and results.
type RunRecord struct {
	RunID   string
	Created time.Time
	Symbol  string
	Dataset string
	From    time.Time
	To      time.Time

	FastFine   int
	SlowFine   int
	FastCoarse int
	SlowCoarse int

	NumTrades      int
	TotalReturnPct float64
	CAGRPct        float64
	WinRatePct     float64
	MaxDrawdownPct float64
	OpenPosition   bool
}

// TradeRecord is a closed trade belonging to a run.
type TradeRecord struct {
	TradeID    string
	RunID      string
	Symbol     string
	Side       string
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	PnLPct     float64
}

// Journal is a sink for runs and trades.
type Journal interface {
	RecordRun(RunRecord) error
	RecordTrade(TradeRecord) error
	Close() error
}

// NewRunRecord flattens a backtest result into a RunRecord.
func NewRunRecord(runID string, created time.Time, dataset string, res *backtest.Result) RunRecord {
	s := res.Summary
	return RunRecord{
		RunID:          runID,
		Created:        created,
		Symbol:         s.Symbol,
		Dataset:        dataset,
		From:           s.From,
		To:             s.To,
		FastFine:       res.Config.FastFine,
		SlowFine:       res.Config.SlowFine,
		FastCoarse:     res.Config.FastCoarse,
		SlowCoarse:     res.Config.SlowCoarse,
		NumTrades:      s.NumTrades,
		TotalReturnPct: s.TotalReturnPct,
		CAGRPct:        res.Metrics.CAGRPct,
		WinRatePct:     res.Metrics.WinRatePct,
		MaxDrawdownPct: res.Metrics.MaxDrawdownPct,
		OpenPosition:   res.Open != nil,
	}
}

// NewTradeRecord converts a closed backtest trade.
func NewTradeRecord(tradeID, runID, symbol string, t backtest.Trade) TradeRecord {
	return TradeRecord{
		TradeID:    tradeID,
		RunID:      runID,
		Symbol:     symbol,
		Side:       string(t.Side),
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		OpenTime:   t.EntryTime,
		CloseTime:  t.ExitTime,
		PnLPct:     t.PnLPct,
	}
}

// Records builds the run record and the closed trade records of res under a
// new run ID. The still-open trade, if any, is left out.
func Records(dataset string, res *backtest.Result) (RunRecord, []TradeRecord) {
	run := NewRunRecord(id.New(), time.Now().UTC(), dataset, res)
	var trades []TradeRecord
	for _, t := range res.Trades {
		if !t.Closed {
			continue
		}
		trades = append(trades, NewTradeRecord(id.New(), run.RunID, run.Symbol, t))
	}
	return run, trades
}

// Write stores a run and its trades in j.
func Write(j Journal, run RunRecord, trades []TradeRecord) error {
	if err := j.RecordRun(run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	for _, t := range trades {
		if err := j.RecordTrade(t); err != nil {
			return fmt.Errorf("record trade: %w", err)
		}
	}
	return nil
}

// Record writes the run and its closed trades to j and returns the new run ID.
func Record(j Journal, dataset string, res *backtest.Result) (string, error) {
	run, trades := Records(dataset, res)
	return run.RunID, Write(j, run, trades)
}
