package indicators

import "fmt"

// RSI calculates the Relative Strength Index over closing prices.
//
// Average gain/loss are seeded from the first period deltas and then
// Wilder-smoothed. When the average loss is zero the RSI is 100.
// Entries through index period-1 are undefined, as is the whole series
// when fewer than period+1 prices are supplied.
func RSI(prices []float64, period int) (Series, error) {
	if period <= 0 {
		return nil, fmt.Errorf("rsi: period must be positive, got %d", period)
	}
	if len(prices) < period+1 {
		return undefined(len(prices)), nil
	}

	gains := make([]float64, len(prices)-1)
	losses := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out := undefined(len(prices))
	out[period] = Defined(rsiFrom(avgGain, avgLoss))

	for i := period + 1; i < len(prices); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i-1]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i-1]) / float64(period)
		out[i] = Defined(rsiFrom(avgGain, avgLoss))
	}

	return out, nil
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
