package journal

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/solhart/momentum/backtest"
	"github.com/solhart/momentum/pkg/id"
)

// SQLite stores runs and their trades in a local database file.
type SQLite struct {
	db *sql.DB
}

var _ Journal = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(runID string, res *backtest.Result) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, symbol, timeframe, start_time, end_time,
		 initial_capital, final_capital, total_return, total_pnl,
		 total_trades, winning_trades, losing_trades, win_rate,
		 profit_factor, max_drawdown)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), res.Symbol, res.Timeframe,
		res.StartTime, res.EndTime,
		res.InitialCapital, res.FinalCapital, res.TotalReturn, res.TotalPnL,
		res.TotalTrades, res.WinningTrades, res.LosingTrades, res.WinRate,
		formatRatio(res.ProfitFactor), res.MaxDrawdown,
	)
	return err
}

func (j *SQLite) RecordTrades(runID string, trades []*backtest.Trade) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trades
		(trade_id, run_id, entry_time, entry_price, side, position_size,
		 stop_loss_price, take_profit_price, risk_amount,
		 exit_time, exit_price, exit_reason, pnl, pnl_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.Exec(
			id.New(), runID, t.EntryTime, t.EntryPrice,
			string(t.Side), t.PositionSize,
			t.StopLossPrice, t.TakeProfitPrice, t.RiskAmount,
			t.ExitTime, t.ExitPrice, string(t.ExitReason),
			t.PnL, t.PnLPercent,
		)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// formatRatio keeps the infinite profit-factor sentinel readable in the
// database, matching the "inf" token used in the JSON artifact.
func formatRatio(r backtest.Ratio) string {
	if r.IsInf() {
		return "inf"
	}
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

func parseRatio(s string) backtest.Ratio {
	if s == "inf" {
		return backtest.Ratio(math.Inf(1))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return backtest.Ratio(f)
}
