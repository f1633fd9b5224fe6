// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	dataset TEXT NOT NULL,
	from_date DATETIME NOT NULL,
	to_date DATETIME NOT NULL,
	fast_fine INTEGER NOT NULL,
	slow_fine INTEGER NOT NULL,
	fast_coarse INTEGER NOT NULL,
	slow_coarse INTEGER NOT NULL,
	num_trades INTEGER NOT NULL,
	total_return REAL NOT NULL,
	cagr REAL NOT NULL,
	win_rate REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	open_position BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	pnl_pct REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, open_time);
CREATE INDEX IF NOT EXISTS idx_trades_close ON trades(close_time);
`
