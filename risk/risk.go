// Package risk derives stop-loss, take-profit, and risk-based position
// size for a candidate entry. It is pure math: no account state, no
// I/O, and rejection is a value, not an error.
package risk

// Side of a candidate entry.
type Side int

const (
	Long Side = iota
	Short
)

func (s Side) String() string {
	if s == Short {
		return "SHORT"
	}
	return "LONG"
}

// Params are the risk-management knobs of the strategy.
type Params struct {
	ATRStopMultiplier   float64 // stop distance beyond the trigger bar, in ATRs
	RiskRewardRatio     float64 // target distance as a multiple of risk per unit
	RiskPerTradePercent float64 // percent of capital risked per trade
}

// DefaultParams mirror the strategy's shipped configuration.
func DefaultParams() Params {
	return Params{
		ATRStopMultiplier:   0.5,
		RiskRewardRatio:     3.0,
		RiskPerTradePercent: 1.5,
	}
}

// Inputs describe one candidate entry at the decision bar.
type Inputs struct {
	Side        Side
	Entry       float64 // fill price (confirmation bar close)
	ATR         float64 // ATR at the decision bar
	TriggerHigh float64 // crossover bar high
	TriggerLow  float64 // crossover bar low
	Capital     float64 // account capital at decision time
	Params      Params
}

// Plan is a fully-sized entry: stop, target, and position size.
type Plan struct {
	Stop        float64
	Target      float64
	RiskPerUnit float64
	RiskAmount  float64 // capital * risk percent
	Size        float64 // RiskAmount / RiskPerUnit
}

// Build computes the plan for the candidate entry. The second return is
// false when risk per unit is not positive (stop at or beyond entry):
// the candidate is rejected and no trade should open. This is a normal
// outcome, not an error.
func Build(in Inputs) (Plan, bool) {
	var stop, riskPerUnit, target float64

	switch in.Side {
	case Long:
		stop = in.TriggerLow - in.Params.ATRStopMultiplier*in.ATR
		riskPerUnit = in.Entry - stop
		target = in.Entry + in.Params.RiskRewardRatio*riskPerUnit
	case Short:
		stop = in.TriggerHigh + in.Params.ATRStopMultiplier*in.ATR
		riskPerUnit = stop - in.Entry
		target = in.Entry - in.Params.RiskRewardRatio*riskPerUnit
	}

	if riskPerUnit <= 0 {
		return Plan{}, false
	}

	riskAmount := in.Capital * in.Params.RiskPerTradePercent / 100

	return Plan{
		Stop:        stop,
		Target:      target,
		RiskPerUnit: riskPerUnit,
		RiskAmount:  riskAmount,
		Size:        riskAmount / riskPerUnit,
	}, true
}
