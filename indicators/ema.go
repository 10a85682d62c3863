package indicators

import "fmt"

// EMA calculates the Exponential Moving Average over closing prices.
//
// The first period-1 entries are undefined. The seed at index period-1
// is the arithmetic mean of the first period prices; subsequent values
// follow ema[i] = price[i]*k + ema[i-1]*(1-k) with k = 2/(period+1).
// When len(prices) < period every entry is undefined.
func EMA(prices []float64, period int) (Series, error) {
	if period <= 0 {
		return nil, fmt.Errorf("ema: period must be positive, got %d", period)
	}
	if len(prices) < period {
		return undefined(len(prices)), nil
	}

	out := undefined(len(prices))
	k := 2.0 / float64(period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)
	out[period-1] = Defined(ema)

	for i := period; i < len(prices); i++ {
		ema = prices[i]*k + ema*(1-k)
		out[i] = Defined(ema)
	}

	return out, nil
}

// Slope returns the normalized rate of change of a series over the
// last lookback bars: (last - last-lookback) / lookback. It is
// undefined when the series is too short or either endpoint is
// undefined.
func Slope(s Series, lookback int) Value {
	if lookback <= 0 || len(s) < lookback+1 {
		return Value{}
	}

	current := s[len(s)-1]
	past := s[len(s)-1-lookback]
	if !current.Valid || !past.Valid {
		return Value{}
	}

	return Defined((current.Float64 - past.Float64) / float64(lookback))
}
