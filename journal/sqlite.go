package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, symbol, dataset, from_date, to_date,
		 fast_fine, slow_fine, fast_coarse, slow_coarse,
		 num_trades, total_return, cagr, win_rate, max_drawdown, open_position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Symbol, r.Dataset, r.From, r.To,
		r.FastFine, r.SlowFine, r.FastCoarse, r.SlowCoarse,
		r.NumTrades, r.TotalReturnPct, r.CAGRPct, r.WinRatePct, r.MaxDrawdownPct, r.OpenPosition,
	)
	return err
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, side, entry_price, exit_price, open_time, close_time, pnl_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Symbol, t.Side, t.EntryPrice,
		t.ExitPrice, t.OpenTime, t.CloseTime, t.PnLPct,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
