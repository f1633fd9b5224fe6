package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/rustyeddy/trendcross/backtest"
	"github.com/rustyeddy/trendcross/pkg/id"
	"github.com/rustyeddy/trendcross/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memJournal struct {
	runs     []RunRecord
	trades   []TradeRecord
	tradeErr error
}

func (m *memJournal) RecordRun(r RunRecord) error {
	m.runs = append(m.runs, r)
	return nil
}

func (m *memJournal) RecordTrade(t TradeRecord) error {
	if m.tradeErr != nil {
		return m.tradeErr
	}
	m.trades = append(m.trades, t)
	return nil
}

func (m *memJournal) Close() error { return nil }

func testResult() *backtest.Result {
	entry := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	return &backtest.Result{
		Summary: backtest.Summary{
			Symbol:         "AAPL",
			From:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:             time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			NumTrades:      1,
			TotalReturnPct: 0.02,
		},
		Config: strategy.Defaults(),
		Trades: []backtest.Trade{
			{EntryTime: entry, Side: backtest.Long, EntryPrice: 100, ExitTime: entry.Add(time.Hour), ExitPrice: 102, PnLPct: 0.02, Closed: true},
			{EntryTime: entry.Add(2 * time.Hour), Side: backtest.Long, EntryPrice: 101},
		},
		Open:    &backtest.Position{EntryTime: entry.Add(2 * time.Hour), EntryPrice: 101},
		Metrics: backtest.Metrics{WinRatePct: 1, CAGRPct: 0.3},
	}
}

func TestRecord(t *testing.T) {
	t.Parallel()

	j := &memJournal{}
	runID, err := Record(j, "testdata", testResult())
	require.NoError(t, err)

	_, err = id.Time(runID)
	assert.NoError(t, err, "run IDs are ULIDs")

	require.Len(t, j.runs, 1)
	r := j.runs[0]
	assert.Equal(t, runID, r.RunID)
	assert.Equal(t, "AAPL", r.Symbol)
	assert.Equal(t, "testdata", r.Dataset)
	assert.Equal(t, 1, r.NumTrades)
	assert.Equal(t, 10, r.FastFine)
	assert.Equal(t, 50, r.SlowCoarse)
	assert.Equal(t, 1.0, r.WinRatePct)
	assert.True(t, r.OpenPosition)
	assert.False(t, r.Created.IsZero())

	// Only the closed trade is journaled.
	require.Len(t, j.trades, 1)
	tr := j.trades[0]
	assert.Equal(t, runID, tr.RunID)
	assert.Equal(t, "long", tr.Side)
	assert.Equal(t, 102.0, tr.ExitPrice)
	assert.NotEqual(t, runID, tr.TradeID)
}

func TestRecordTradeError(t *testing.T) {
	t.Parallel()

	j := &memJournal{tradeErr: errors.New("disk full")}
	_, err := Record(j, "", testResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record trade: disk full")
}

func TestRecordIntoSQLite(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	runID, err := Record(j, "csv", testResult())
	require.NoError(t, err)

	run, err := j.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", run.Symbol)

	trades, err := j.ListTradesByRun(runID)
	require.NoError(t, err)
	assert.Len(t, trades, 1)
}

func TestRecordsSkipsOpenTrade(t *testing.T) {
	t.Parallel()

	run, trades := Records("yahoo", testResult())
	require.Len(t, trades, 1)
	assert.Equal(t, run.RunID, trades[0].RunID)
	assert.Equal(t, "AAPL", trades[0].Symbol)
	assert.Equal(t, "yahoo", run.Dataset)
	assert.True(t, trades[0].CloseTime.After(trades[0].OpenTime))
}
