package market

import "time"

// DefaultTimeframe is used when a timeframe token is not recognized.
const DefaultTimeframe = "15m"

// timeframeMillis maps timeframe tokens to fixed bar durations in
// milliseconds, matching the provider's candle intervals.
var timeframeMillis = map[string]int64{
	"5m":  300_000,
	"15m": 900_000,
	"30m": 1_800_000,
	"1h":  3_600_000,
	"4h":  14_400_000,
	"1d":  86_400_000,
}

// TimeframeMillis returns the bar duration in milliseconds for the
// given token. Unrecognized tokens fall back to the 15-minute bar.
func TimeframeMillis(timeframe string) int64 {
	if ms, ok := timeframeMillis[timeframe]; ok {
		return ms
	}
	return timeframeMillis[DefaultTimeframe]
}

// TimeframeDuration is TimeframeMillis as a time.Duration.
func TimeframeDuration(timeframe string) time.Duration {
	return time.Duration(TimeframeMillis(timeframe)) * time.Millisecond
}
