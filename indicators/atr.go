package indicators

import (
	"fmt"
	"math"
)

// ATR calculates the Average True Range from high/low/close columns.
//
// True range at bar 0 is high-low; at later bars it is
// max(high-low, |high-prevClose|, |low-prevClose|). The seed at index
// period is the mean of the first period true ranges; later bars use
// Wilder smoothing: atr[i] = (atr[i-1]*(period-1) + tr[i]) / period.
// Entries before the seed index are undefined, as is the whole series
// when fewer than period+1 bars are supplied.
func ATR(highs, lows, closes []float64, period int) (Series, error) {
	if period <= 0 {
		return nil, fmt.Errorf("atr: period must be positive, got %d", period)
	}
	if len(highs) != len(lows) || len(highs) != len(closes) {
		return nil, fmt.Errorf("atr: column lengths differ: %d/%d/%d",
			len(highs), len(lows), len(closes))
	}
	if len(highs) < period+1 {
		return undefined(len(highs)), nil
	}

	tr := make([]float64, len(highs))
	tr[0] = highs[0] - lows[0]
	for i := 1; i < len(highs); i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	out := undefined(len(highs))

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += tr[i]
	}
	atr := sum / float64(period)
	out[period] = Defined(atr)

	for i := period + 1; i < len(tr); i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out[i] = Defined(atr)
	}

	return out, nil
}
