package backtest

import (
	"math"

	"github.com/montanaflynn/stats"
)

// fillResult aggregates the closed-trade set into the result. Called
// once, at the end of the run. An empty closed-trade set is a terminal
// no-trades outcome, not an error.
func (e *Engine) fillResult(res *Result) {
	res.FinalCapital = e.capital
	res.MaxDrawdown = e.maxDrawdown

	if len(e.closed) == 0 {
		res.Error = ErrNoTrades
		return
	}

	res.Success = true
	res.Trades = e.closed
	res.TotalTrades = e.totalTrades
	res.WinningTrades = e.winningTrades
	res.LosingTrades = e.losingTrades
	res.TotalReturn = (e.capital - e.initialCapital) / e.initialCapital * 100
	res.WinRate = float64(e.winningTrades) / float64(e.totalTrades) * 100

	var winning, losing []float64
	var longs, shorts, longWins, shortWins int

	res.BestTrade = math.Inf(-1)
	res.WorstTrade = math.Inf(1)

	for _, t := range e.closed {
		res.TotalPnL += t.PnL

		if t.PnL > 0 {
			winning = append(winning, t.PnL)
		} else if t.PnL < 0 {
			losing = append(losing, t.PnL)
		}

		switch t.ExitReason {
		case ExitTakeProfit:
			res.TPTrades++
		case ExitStopLoss:
			res.SLTrades++
		}

		if t.PnL > res.BestTrade {
			res.BestTrade = t.PnL
		}
		if t.PnL < res.WorstTrade {
			res.WorstTrade = t.PnL
		}

		if t.Side == Long {
			longs++
			if t.PnL > 0 {
				longWins++
			}
		} else {
			shorts++
			if t.PnL > 0 {
				shortWins++
			}
		}
	}

	res.AvgWin = meanOrZero(winning)
	res.AvgLoss = meanOrZero(losing)

	var totalWins, totalLosses float64
	for _, v := range winning {
		totalWins += v
	}
	for _, v := range losing {
		totalLosses += -v
	}
	if totalLosses > 0 {
		res.ProfitFactor = Ratio(totalWins / totalLosses)
	} else {
		res.ProfitFactor = Ratio(math.Inf(1))
	}

	if res.AvgLoss != 0 {
		res.AvgRiskReward = math.Abs(res.AvgWin / res.AvgLoss)
	}

	res.LongTrades = longs
	res.ShortTrades = shorts
	if longs > 0 {
		res.LongWinRate = float64(longWins) / float64(longs) * 100
	}
	if shorts > 0 {
		res.ShortWinRate = float64(shortWins) / float64(shorts) * 100
	}
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}
