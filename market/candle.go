// Package market defines the candle model shared by the feed, the
// backtest engine, and the live poller.
package market

import (
	"fmt"
	"sort"
	"time"
)

// Candle represents OHLC (Open, High, Low, Close) candlestick data for
// one bar. Time is the bar open time in epoch milliseconds, matching
// the provider wire format.
type Candle struct {
	Time   int64   `json:"t"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
}

// OpenTime returns the bar open time as a time.Time in UTC.
func (c Candle) OpenTime() time.Time {
	return time.UnixMilli(c.Time).UTC()
}

// Validate reports malformed OHLC fields. High/low consistency with
// open/close is assumed upstream and not enforced here.
func (c Candle) Validate() error {
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return fmt.Errorf("candle at %d: non-positive OHLC field", c.Time)
	}
	if c.High < c.Low {
		return fmt.Errorf("candle at %d: high %.6f below low %.6f", c.Time, c.High, c.Low)
	}
	if c.Volume < 0 {
		return fmt.Errorf("candle at %d: negative volume", c.Time)
	}
	return nil
}

// SortByTime orders candles oldest-first. Providers do not all
// guarantee ordering.
func SortByTime(candles []Candle) {
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time < candles[j].Time
	})
}

// Closes extracts the close column, index-aligned with candles.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Highs extracts the high column, index-aligned with candles.
func Highs(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

// Lows extracts the low column, index-aligned with candles.
func Lows(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}
	return out
}

// Volumes extracts the volume column, index-aligned with candles.
func Volumes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Volume
	}
	return out
}
