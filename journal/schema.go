package journal

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	start_time INTEGER NOT NULL,
	end_time INTEGER NOT NULL,
	initial_capital REAL NOT NULL,
	final_capital REAL NOT NULL,
	total_return REAL NOT NULL,
	total_pnl REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	winning_trades INTEGER NOT NULL,
	losing_trades INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	profit_factor TEXT NOT NULL,
	max_drawdown REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	entry_time INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	side TEXT NOT NULL,
	position_size REAL NOT NULL,
	stop_loss_price REAL NOT NULL,
	take_profit_price REAL NOT NULL,
	risk_amount REAL NOT NULL,
	exit_time INTEGER NOT NULL,
	exit_price REAL NOT NULL,
	exit_reason TEXT NOT NULL,
	pnl REAL NOT NULL,
	pnl_percent REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
`
