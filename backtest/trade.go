package backtest

// Side marks trade direction. The wire values ("B" long, "A" short)
// match the order side tokens used by the execution gateway, and must
// stay stable for downstream tooling that parses result artifacts.
type Side string

const (
	Long  Side = "B"
	Short Side = "A"
)

func (s Side) String() string {
	if s == Short {
		return "SHORT"
	}
	return "LONG"
}

// ExitReason records why a trade closed. Exactly one reason is set per
// trade, at close time.
type ExitReason string

const (
	ExitTakeProfit     ExitReason = "TP"
	ExitStopLoss       ExitReason = "SL"
	ExitOppositeSignal ExitReason = "OPPOSITE_SIGNAL"
	ExitEndOfData      ExitReason = "END"
)

// Trade is one simulated position. Entry fields are set at creation and
// never change; exit fields are set exactly once by close. Field names
// and casing in the JSON form are frozen for downstream tooling.
type Trade struct {
	EntryTime       int64   `json:"entry_time"`
	EntryPrice      float64 `json:"entry_price"`
	Side            Side    `json:"side"`
	PositionSize    float64 `json:"position_size"`
	StopLossPrice   float64 `json:"stop_loss_price"`
	TakeProfitPrice float64 `json:"take_profit_price"`
	RiskAmount      float64 `json:"risk_amount"`

	ExitTime   int64      `json:"exit_time"`
	ExitPrice  float64    `json:"exit_price"`
	ExitReason ExitReason `json:"exit_reason"`
	PnL        float64    `json:"pnl"`
	PnLPercent float64    `json:"pnl_percent"`
}

// IsOpen reports whether the trade has not yet closed.
func (t *Trade) IsOpen() bool {
	return t.ExitReason == ""
}

// close fills the exit fields and realizes PnL. A second call is a
// no-op; the engine owns trade lifecycle and never closes twice.
func (t *Trade) close(exitTime int64, exitPrice float64, reason ExitReason) {
	if !t.IsOpen() {
		return
	}

	t.ExitTime = exitTime
	t.ExitPrice = exitPrice
	t.ExitReason = reason

	if t.Side == Long {
		t.PnL = (exitPrice - t.EntryPrice) * t.PositionSize
	} else {
		t.PnL = (t.EntryPrice - exitPrice) * t.PositionSize
	}

	notional := t.EntryPrice * t.PositionSize
	if notional > 0 {
		t.PnLPercent = t.PnL / notional * 100
	}
}
