package backtest

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/solhart/momentum/indicators"
	"github.com/solhart/momentum/market"
	"github.com/solhart/momentum/risk"
	"github.com/solhart/momentum/signal"
)

// Engine replays a candle series through the momentum-crossover
// strategy. It is single-threaded and strictly sequential: identical
// input and configuration yield a bit-identical trade list.
//
// Capital is mutated only when a trade closes; open positions do not
// reserve margin or notional.
type Engine struct {
	symbol         string
	initialCapital float64
	cfg            Config

	capital     float64
	peakCapital float64
	maxDrawdown float64

	open   []*Trade
	closed []*Trade

	totalTrades   int
	winningTrades int
	losingTrades  int
}

// NewEngine validates the configuration and returns a ready engine.
// Configuration errors fail here, before any simulation starts.
func NewEngine(symbol string, initialCapital float64, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if initialCapital <= 0 {
		return nil, fmt.Errorf("engine: initial capital must be positive, got %v", initialCapital)
	}

	return &Engine{
		symbol:         symbol,
		initialCapital: initialCapital,
		cfg:            cfg,
		capital:        initialCapital,
		peakCapital:    initialCapital,
	}, nil
}

// Run simulates the strategy over the candle series and returns a
// structured result. It never panics on well-formed input: data
// problems and empty trade sets are reported in the result, not as
// errors.
func (e *Engine) Run(candles []market.Candle) *Result {
	res := &Result{
		Symbol:         e.symbol,
		Timeframe:      e.cfg.Timeframe,
		InitialCapital: e.initialCapital,
	}

	if len(candles) < e.cfg.MinCandles {
		res.Error = fmt.Sprintf("insufficient historical data: %d candles", len(candles))
		return res
	}
	for _, c := range candles {
		if err := c.Validate(); err != nil {
			res.Error = fmt.Sprintf("malformed candle data: %v", err)
			return res
		}
	}

	// Providers do not all guarantee ordering.
	market.SortByTime(candles)

	res.StartTime = candles[0].Time
	res.EndTime = candles[len(candles)-1].Time

	closes := market.Closes(candles)
	highs := market.Highs(candles)
	lows := market.Lows(candles)

	// Periods were validated in NewEngine; these cannot fail.
	fast, _ := indicators.EMA(closes, e.cfg.FastEMAPeriod)
	slow, _ := indicators.EMA(closes, e.cfg.SlowEMAPeriod)
	atr, _ := indicators.ATR(highs, lows, closes, e.cfg.ATRPeriod)

	log.WithFields(log.Fields{
		"symbol":  e.symbol,
		"candles": len(candles),
		"fast":    e.cfg.FastEMAPeriod,
		"slow":    e.cfg.SlowEMAPeriod,
	}).Debug("backtest: simulating")

	last := len(candles) - 1
	for i := range candles {
		e.exitPass(candles[i], fast, slow, i)

		if len(e.open) < e.cfg.MaxOpenTrades && i >= 2 {
			e.entryPass(candles, closes, highs, lows, fast, slow, atr, i)
		}

		if i == last {
			e.closeAll(candles[i], ExitEndOfData)
		}
	}

	e.fillResult(res)

	log.WithFields(log.Fields{
		"symbol": e.symbol,
		"trades": res.TotalTrades,
		"pnl":    res.TotalPnL,
	}).Debug("backtest: complete")

	return res
}

// exitPass evaluates every open trade against bar i and swaps in the
// surviving open-set. Exit checks run in fixed priority and stop at the
// first match: opposite crossover, then stop loss, then take profit.
// Fills always use the bar close, regardless of where the threshold was
// touched intrabar.
func (e *Engine) exitPass(c market.Candle, fast, slow indicators.Series, i int) {
	if len(e.open) == 0 {
		return
	}

	cross := signal.CrossoverAt(fast, slow, i)

	surviving := make([]*Trade, 0, len(e.open))
	for _, t := range e.open {
		if reason, hit := exitReason(t, c, cross); hit {
			e.closeTrade(t, c.Time, c.Close, reason)
		} else {
			surviving = append(surviving, t)
		}
	}
	e.open = surviving
}

func exitReason(t *Trade, c market.Candle, cross signal.Signal) (ExitReason, bool) {
	if t.Side == Long {
		if cross == signal.Sell {
			return ExitOppositeSignal, true
		}
		if c.Low <= t.StopLossPrice {
			return ExitStopLoss, true
		}
		if c.High >= t.TakeProfitPrice {
			return ExitTakeProfit, true
		}
		return "", false
	}

	if cross == signal.Buy {
		return ExitOppositeSignal, true
	}
	if c.High >= t.StopLossPrice {
		return ExitStopLoss, true
	}
	if c.Low <= t.TakeProfitPrice {
		return ExitTakeProfit, true
	}
	return "", false
}

// entryPass checks for a confirmed crossover entry at bar i. The
// crossover bar is i-1 (the last bar before the confirmation bar where
// the strict inequality flipped); bar i confirms with its close against
// the crossover bar's range, and the fast EMA slope over the lookback
// window must clear the threshold. A candidate whose risk per unit is
// not positive is silently discarded.
func (e *Engine) entryPass(candles []market.Candle, closes, highs, lows []float64,
	fast, slow, atr indicators.Series, i int) {

	cross := signal.CrossoverAt(fast, slow, i-1)
	if cross == signal.None {
		return
	}

	atrHere := atr.At(i)
	if !atrHere.Valid {
		return
	}

	slope := indicators.Slope(fast[:i+1], e.cfg.SlopeLookback)
	if !slope.Valid {
		return
	}

	confirmClose := closes[i]
	triggerHigh := highs[i-1]
	triggerLow := lows[i-1]

	var side risk.Side
	switch cross {
	case signal.Buy:
		if slope.Float64 <= e.cfg.SlopeThreshold {
			return
		}
		if confirmClose <= triggerHigh {
			return
		}
		side = risk.Long
	case signal.Sell:
		if slope.Float64 >= -e.cfg.SlopeThreshold {
			return
		}
		if confirmClose >= triggerLow {
			return
		}
		side = risk.Short
	}

	plan, ok := risk.Build(risk.Inputs{
		Side:        side,
		Entry:       confirmClose,
		ATR:         atrHere.Float64,
		TriggerHigh: triggerHigh,
		TriggerLow:  triggerLow,
		Capital:     e.capital,
		Params:      e.cfg.riskParams(),
	})
	if !ok {
		// Stop at or beyond entry: candidate rejected, not an error.
		return
	}

	tradeSide := Long
	if side == risk.Short {
		tradeSide = Short
	}

	e.open = append(e.open, &Trade{
		EntryTime:       candles[i].Time,
		EntryPrice:      confirmClose,
		Side:            tradeSide,
		PositionSize:    plan.Size,
		StopLossPrice:   plan.Stop,
		TakeProfitPrice: plan.Target,
		RiskAmount:      plan.RiskAmount,
	})
}

// closeAll force-closes every remaining open trade at the bar close.
// Used only at the final candle; a trade opened on that bar closes
// immediately with zero PnL.
func (e *Engine) closeAll(c market.Candle, reason ExitReason) {
	for _, t := range e.open {
		e.closeTrade(t, c.Time, c.Close, reason)
	}
	e.open = nil
}

// closeTrade realizes the trade and updates capital, the capital
// high-water mark, drawdown, and the win/loss counters. Bookkeeping is
// identical for every close, including forced end-of-data closes.
func (e *Engine) closeTrade(t *Trade, exitTime int64, exitPrice float64, reason ExitReason) {
	t.close(exitTime, exitPrice, reason)
	e.closed = append(e.closed, t)

	e.capital += t.PnL
	if e.capital > e.peakCapital {
		e.peakCapital = e.capital
	}
	drawdown := (e.peakCapital - e.capital) / e.peakCapital * 100
	if drawdown > e.maxDrawdown {
		e.maxDrawdown = drawdown
	}

	e.totalTrades++
	if t.PnL > 0 {
		e.winningTrades++
	} else {
		e.losingTrades++
	}
}
