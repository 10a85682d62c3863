package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMARecurrence(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}

	ema, err := EMA(prices, 3)
	require.NoError(t, err)
	require.Len(t, ema, len(prices))

	// First period-1 entries undefined.
	assert.False(t, ema[0].Valid)
	assert.False(t, ema[1].Valid)

	// Seed = mean(10,11,12) = 11 at index 2; k = 0.5 afterwards.
	require.True(t, ema[2].Valid)
	assert.InDelta(t, 11.0, ema[2].Float64, 1e-9)
	assert.InDelta(t, 12.0, ema[3].Float64, 1e-9)
	assert.InDelta(t, 13.0, ema[4].Float64, 1e-9)
	assert.InDelta(t, 18.0, ema[9].Float64, 1e-9)
}

func TestEMAShortInput(t *testing.T) {
	ema, err := EMA([]float64{10, 11}, 5)
	require.NoError(t, err)
	require.Len(t, ema, 2)
	assert.False(t, ema[0].Valid)
	assert.False(t, ema[1].Valid)
}

func TestEMABadPeriod(t *testing.T) {
	_, err := EMA([]float64{1, 2, 3}, 0)
	assert.Error(t, err)
	_, err = EMA([]float64{1, 2, 3}, -1)
	assert.Error(t, err)
}

func TestATRWilderSmoothing(t *testing.T) {
	highs := []float64{10, 11, 12, 11, 12, 13}
	lows := []float64{8, 9, 10, 9, 10, 11}
	closes := []float64{9, 10, 11, 10, 11, 12}

	atr, err := ATR(highs, lows, closes, 3)
	require.NoError(t, err)
	require.Len(t, atr, 6)

	for i := 0; i < 3; i++ {
		assert.False(t, atr[i].Valid, "index %d", i)
	}
	// Every true range in this series is 2.
	for i := 3; i < 6; i++ {
		require.True(t, atr[i].Valid, "index %d", i)
		assert.InDelta(t, 2.0, atr[i].Float64, 1e-9)
	}
}

func TestATRGapTrueRange(t *testing.T) {
	// Second bar gaps far above the first close; TR must use
	// |high - prevClose| rather than the bar range.
	highs := []float64{10, 20, 21, 22}
	lows := []float64{8, 19, 20, 21}
	closes := []float64{9, 19.5, 20.5, 21.5}

	atr, err := ATR(highs, lows, closes, 2)
	require.NoError(t, err)

	// tr = [2, 11, 1.5, 1.5]; seed at index 2 = (2+11)/2 = 6.5.
	require.True(t, atr[2].Valid)
	assert.InDelta(t, 6.5, atr[2].Float64, 1e-9)
	// Wilder: (6.5*1 + 1.5) / 2 = 4.
	assert.InDelta(t, 4.0, atr[3].Float64, 1e-9)
}

func TestATRColumnMismatch(t *testing.T) {
	_, err := ATR([]float64{1, 2}, []float64{1}, []float64{1, 2}, 1)
	assert.Error(t, err)
}

func TestATRShortInput(t *testing.T) {
	atr, err := ATR([]float64{1, 2}, []float64{1, 2}, []float64{1, 2}, 5)
	require.NoError(t, err)
	require.Len(t, atr, 2)
	assert.False(t, atr[0].Valid)
	assert.False(t, atr[1].Valid)
}

func TestRSI(t *testing.T) {
	prices := []float64{1, 2, 3, 2, 3, 4}

	rsi, err := RSI(prices, 2)
	require.NoError(t, err)
	require.Len(t, rsi, 6)

	assert.False(t, rsi[0].Valid)
	assert.False(t, rsi[1].Valid)

	// Seed window has no losses.
	require.True(t, rsi[2].Valid)
	assert.InDelta(t, 100.0, rsi[2].Float64, 1e-9)
	assert.InDelta(t, 50.0, rsi[3].Float64, 1e-9)
	assert.InDelta(t, 75.0, rsi[4].Float64, 1e-9)
	assert.InDelta(t, 87.5, rsi[5].Float64, 1e-9)
}

func TestRSIAllGains(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6, 7}

	rsi, err := RSI(prices, 3)
	require.NoError(t, err)
	for i := 3; i < len(rsi); i++ {
		require.True(t, rsi[i].Valid)
		assert.InDelta(t, 100.0, rsi[i].Float64, 1e-9)
	}
}

func TestVolumeMA(t *testing.T) {
	volumes := []float64{10, 20, 30, 40, 50}

	ma, err := VolumeMA(volumes, 3)
	require.NoError(t, err)
	require.Len(t, ma, 5)

	assert.False(t, ma[0].Valid)
	assert.False(t, ma[1].Valid)
	assert.InDelta(t, 20.0, ma[2].Float64, 1e-9)
	assert.InDelta(t, 30.0, ma[3].Float64, 1e-9)
	assert.InDelta(t, 40.0, ma[4].Float64, 1e-9)
}

func TestSlope(t *testing.T) {
	s := Series{Defined(10), Defined(11), Defined(12), Defined(13), Defined(14)}

	v := Slope(s, 4)
	require.True(t, v.Valid)
	assert.InDelta(t, 1.0, v.Float64, 1e-9)

	v = Slope(s, 2)
	require.True(t, v.Valid)
	assert.InDelta(t, 1.0, v.Float64, 1e-9)
}

func TestSlopeUndefined(t *testing.T) {
	// Too short.
	assert.False(t, Slope(Series{Defined(1), Defined(2)}, 4).Valid)

	// Undefined endpoint inside the lookback window.
	s := Series{{}, Defined(2), Defined(3), Defined(4), Defined(5)}
	assert.False(t, Slope(s, 4).Valid)

	// Undefined current value.
	s = Series{Defined(1), Defined(2), Defined(3), Defined(4), {}}
	assert.False(t, Slope(s, 4).Valid)

	// Non-positive lookback.
	assert.False(t, Slope(s, 0).Valid)
}

func TestSeriesAccessors(t *testing.T) {
	s := Series{Defined(1), {}, Defined(3)}

	assert.True(t, s.At(0).Valid)
	assert.False(t, s.At(1).Valid)
	assert.False(t, s.At(-1).Valid)
	assert.False(t, s.At(3).Valid)
	assert.Equal(t, 3.0, s.Last().Float64)
	assert.False(t, Series{}.Last().Valid)
}
