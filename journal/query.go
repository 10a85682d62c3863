package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/solhart/momentum/backtest"
)

// RunRow is one row of the runs table, the queryable summary of a
// recorded backtest.
type RunRow struct {
	RunID          string
	Created        time.Time
	Symbol         string
	Timeframe      string
	StartTime      int64
	EndTime        int64
	InitialCapital float64
	FinalCapital   float64
	TotalReturn    float64
	TotalPnL       float64
	TotalTrades    int
	WinningTrades  int
	LosingTrades   int
	WinRate        float64
	ProfitFactor   backtest.Ratio
	MaxDrawdown    float64
}

const runColumns = `run_id, created, symbol, timeframe, start_time, end_time,
	initial_capital, final_capital, total_return, total_pnl,
	total_trades, winning_trades, losing_trades, win_rate,
	profit_factor, max_drawdown`

func scanRun(row interface{ Scan(...any) error }) (RunRow, error) {
	var (
		r  RunRow
		pf string
	)
	err := row.Scan(
		&r.RunID, &r.Created, &r.Symbol, &r.Timeframe,
		&r.StartTime, &r.EndTime,
		&r.InitialCapital, &r.FinalCapital, &r.TotalReturn, &r.TotalPnL,
		&r.TotalTrades, &r.WinningTrades, &r.LosingTrades, &r.WinRate,
		&pf, &r.MaxDrawdown,
	)
	if err != nil {
		return RunRow{}, err
	}
	r.ProfitFactor = parseRatio(pf)
	return r, nil
}

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(runID string) (RunRow, error) {
	row := j.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return RunRow{}, fmt.Errorf("run %q not found", runID)
	}
	return r, err
}

// ListRuns returns all recorded runs, newest first.
func (j *SQLite) ListRuns() ([]RunRow, error) {
	rows, err := j.db.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListTradesByRun returns the closed trades of a run in entry order.
func (j *SQLite) ListTradesByRun(runID string) ([]backtest.Trade, error) {
	rows, err := j.db.Query(`
		SELECT entry_time, entry_price, side, position_size,
		       stop_loss_price, take_profit_price, risk_amount,
		       exit_time, exit_price, exit_reason, pnl, pnl_percent
		FROM trades
		WHERE run_id = ?
		ORDER BY entry_time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.Trade
	for rows.Next() {
		var (
			t      backtest.Trade
			side   string
			reason string
		)
		if err := rows.Scan(
			&t.EntryTime, &t.EntryPrice, &side, &t.PositionSize,
			&t.StopLossPrice, &t.TakeProfitPrice, &t.RiskAmount,
			&t.ExitTime, &t.ExitPrice, &reason, &t.PnL, &t.PnLPercent,
		); err != nil {
			return nil, err
		}
		t.Side = backtest.Side(side)
		t.ExitReason = backtest.ExitReason(reason)
		out = append(out, t)
	}
	return out, rows.Err()
}
