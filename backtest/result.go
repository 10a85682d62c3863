package backtest

import (
	"encoding/json"
	"fmt"
	"math"
)

// Ratio is a float64 whose +Inf sentinel survives JSON encoding as the
// string "inf". Profit factor is infinite when a run has no losing
// trades.
type Ratio float64

// IsInf reports whether the ratio carries the infinite sentinel.
func (r Ratio) IsInf() bool {
	return math.IsInf(float64(r), 1)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.IsInf() {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(r))
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == `"inf"` {
		*r = Ratio(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("ratio: %w", err)
	}
	*r = Ratio(f)
	return nil
}

// Result is the immutable artifact of one backtest run: run metadata,
// aggregate metrics, and the ordered closed-trade list. JSON field
// names and casing are frozen for downstream tooling.
//
// Success is false for two distinct recoverable outcomes, told apart by
// Error: a run aborted up front (insufficient or malformed data) and a
// completed run that produced no trades.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`

	InitialCapital float64 `json:"initial_capital"`
	FinalCapital   float64 `json:"final_capital"`
	TotalReturn    float64 `json:"total_return"`
	TotalPnL       float64 `json:"total_pnl"`

	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`

	AvgWin        float64 `json:"avg_win"`
	AvgLoss       float64 `json:"avg_loss"`
	ProfitFactor  Ratio   `json:"profit_factor"`
	AvgRiskReward float64 `json:"avg_risk_reward"`
	MaxDrawdown   float64 `json:"max_drawdown"`

	TPTrades     int     `json:"tp_trades"`
	SLTrades     int     `json:"sl_trades"`
	BestTrade    float64 `json:"best_trade"`
	WorstTrade   float64 `json:"worst_trade"`
	LongTrades   int     `json:"long_trades"`
	ShortTrades  int     `json:"short_trades"`
	LongWinRate  float64 `json:"long_win_rate"`
	ShortWinRate float64 `json:"short_win_rate"`

	Trades []*Trade `json:"trades"`
}

// ErrNoTrades is the reason string for a completed run with an empty
// closed-trade set.
const ErrNoTrades = "no trades executed"
