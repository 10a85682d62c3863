package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortByTime(t *testing.T) {
	candles := []Candle{
		{Time: 3000, Close: 3},
		{Time: 1000, Close: 1},
		{Time: 2000, Close: 2},
	}

	SortByTime(candles)

	assert.Equal(t, int64(1000), candles[0].Time)
	assert.Equal(t, int64(2000), candles[1].Time)
	assert.Equal(t, int64(3000), candles[2].Time)
}

func TestColumns(t *testing.T) {
	candles := []Candle{
		{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 20},
	}

	assert.Equal(t, []float64{1.5, 2.5}, Closes(candles))
	assert.Equal(t, []float64{2, 3}, Highs(candles))
	assert.Equal(t, []float64{0.5, 1}, Lows(candles))
	assert.Equal(t, []float64{10, 20}, Volumes(candles))
}

func TestValidate(t *testing.T) {
	good := Candle{Time: 1, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100}
	assert.NoError(t, good.Validate())

	bad := good
	bad.Close = 0
	assert.Error(t, bad.Validate())

	inverted := good
	inverted.High, inverted.Low = inverted.Low, inverted.High
	assert.Error(t, inverted.Validate())

	negVol := good
	negVol.Volume = -1
	assert.Error(t, negVol.Validate())
}

func TestTimeframeMillis(t *testing.T) {
	tests := []struct {
		token string
		want  int64
	}{
		{"5m", 300_000},
		{"15m", 900_000},
		{"30m", 1_800_000},
		{"1h", 3_600_000},
		{"4h", 14_400_000},
		{"1d", 86_400_000},
		{"7m", 900_000}, // unknown falls back to 15m
		{"", 900_000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeframeMillis(tt.token), "token %q", tt.token)
	}
}

func TestTimeframeDuration(t *testing.T) {
	assert.Equal(t, 15*time.Minute, TimeframeDuration("15m"))
	assert.Equal(t, time.Hour, TimeframeDuration("1h"))
}

func TestOpenTime(t *testing.T) {
	c := Candle{Time: 1_700_000_000_000}
	assert.Equal(t, time.UnixMilli(1_700_000_000_000).UTC(), c.OpenTime())
}
