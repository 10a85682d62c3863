// Package broker defines the execution gateway used by the live
// poller. The backtest engine never touches it; simulated fills happen
// inside the engine itself.
package broker

import "context"

// OrderResult is the fill report for a market order.
type OrderResult struct {
	OrderID       string
	ClientOrderID string
	Symbol        string
	IsBuy         bool
	Size          float64
	AvgPrice      float64
}

// TriggerResult reports a placed take-profit or stop-loss trigger.
type TriggerResult struct {
	OrderID      string
	TriggerPrice float64
}

// Gateway places orders against an exchange. TP and SL triggers are
// reduce-only and priced as a percent offset from entry, above entry
// for a long TP and below for a long SL, mirrored for shorts.
type Gateway interface {
	OpenMarketOrder(ctx context.Context, symbol string, isBuy bool, size float64) (OrderResult, error)
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	SetTakeProfit(ctx context.Context, symbol string, entry, size, percent float64, isLong bool) (TriggerResult, error)
	SetStopLoss(ctx context.Context, symbol string, entry, size, percent float64, isLong bool) (TriggerResult, error)
}
