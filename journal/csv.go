package journal

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"time"
)

var (
	tradesHeader = []string{"trade_id", "run_id", "symbol", "side", "entry_price", "exit_price", "open_time", "close_time", "pnl_pct"}
	runsHeader   = []string{"run_id", "created", "symbol", "dataset", "from", "to", "fast_fine", "slow_fine", "fast_coarse", "slow_coarse", "num_trades", "total_return", "cagr", "win_rate", "max_drawdown", "open_position"}
)

type CSVJournal struct {
	trades *csv.Writer
	runs   *csv.Writer
	tf, rf io.WriteCloser
}

func NewCSV(tradesPath, runsPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	rf, err := os.Create(runsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}
	return newCSVJournal(tf, rf)
}

// newCSVJournal writes both headers. On failure tf and rf are closed.
func newCSVJournal(tf, rf io.WriteCloser) (*CSVJournal, error) {
	j := &CSVJournal{trades: csv.NewWriter(tf), runs: csv.NewWriter(rf), tf: tf, rf: rf}
	if err := j.writeHeaders(); err != nil {
		tf.Close()
		rf.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) writeHeaders() error {
	if err := j.trades.Write(tradesHeader); err != nil {
		return err
	}
	if err := j.runs.Write(runsHeader); err != nil {
		return err
	}
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.RunID,
		t.Symbol,
		t.Side,
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.OpenTime.Format(time.RFC3339),
		t.CloseTime.Format(time.RFC3339),
		f(t.PnLPct),
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordRun(r RunRecord) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Symbol,
		r.Dataset,
		r.From.Format(time.DateOnly),
		r.To.Format(time.DateOnly),
		strconv.Itoa(r.FastFine),
		strconv.Itoa(r.SlowFine),
		strconv.Itoa(r.FastCoarse),
		strconv.Itoa(r.SlowCoarse),
		strconv.Itoa(r.NumTrades),
		f(r.TotalReturnPct),
		f(r.CAGRPct),
		f(r.WinRatePct),
		f(r.MaxDrawdownPct),
		strconv.FormatBool(r.OpenPosition),
	})
	if err != nil {
		return err
	}

	j.runs.Flush()
	return j.runs.Error()
}

// Close flushes both writers and always closes both files.
func (j *CSVJournal) Close() error {
	j.trades.Flush()
	j.runs.Flush()
	return errors.Join(j.trades.Error(), j.runs.Error(), j.tf.Close(), j.rf.Close())
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
