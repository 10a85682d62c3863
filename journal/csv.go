package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/solhart/momentum/backtest"
)

var csvHeader = []string{
	"entry_time", "entry_price", "side", "position_size",
	"stop_loss_price", "take_profit_price", "risk_amount",
	"exit_time", "exit_price", "exit_reason", "pnl", "pnl_percent",
}

// WriteTradesCSV exports closed trades for spreadsheet analysis. The
// column names match the JSON field names on Trade.
func WriteTradesCSV(path string, trades []*backtest.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range trades {
		rec := []string{
			strconv.FormatInt(t.EntryTime, 10),
			fs(t.EntryPrice),
			string(t.Side),
			fs(t.PositionSize),
			fs(t.StopLossPrice),
			fs(t.TakeProfitPrice),
			fs(t.RiskAmount),
			strconv.FormatInt(t.ExitTime, 10),
			fs(t.ExitPrice),
			string(t.ExitReason),
			fs(t.PnL),
			fs(t.PnLPercent),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func fs(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
