// Package signal classifies the relationship between two index-aligned
// indicator series: strict-inequality crossovers and the current trend.
package signal

import "github.com/solhart/momentum/indicators"

// Signal is the outcome of a crossover check.
type Signal int

const (
	None Signal = iota
	Buy
	Sell
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "NONE"
	}
}

// Trend is the latest fast/slow relationship, independent of any cross.
type Trend int

const (
	Undefined Trend = iota
	Bullish
	Bearish
	Neutral
)

func (t Trend) String() string {
	switch t {
	case Bullish:
		return "BULLISH"
	case Bearish:
		return "BEARISH"
	case Neutral:
		return "NEUTRAL"
	default:
		return "UNDEFINED"
	}
}

// Crossover compares the last two aligned pairs of fast and slow.
// It returns Buy when the prior pair had fast <= slow and the current
// pair has fast > slow, Sell for the symmetric downward flip, and None
// when any compared value is undefined or no strict flip occurred.
// Equality at the prior pair does not fire by itself; it arms the next
// bar's strict inequality.
func Crossover(fast, slow indicators.Series) Signal {
	return CrossoverAt(fast, slow, len(fast)-1)
}

// CrossoverAt applies the crossover rule anchored at index i, comparing
// bars i-1 and i. The crossover bar is always the bar where the strict
// inequality first holds; callers that confirm on a later bar pass that
// bar's predecessor here.
func CrossoverAt(fast, slow indicators.Series, i int) Signal {
	if i < 1 || i >= len(fast) || i >= len(slow) {
		return None
	}

	prevFast := fast[i-1]
	prevSlow := slow[i-1]
	currFast := fast[i]
	currSlow := slow[i]

	if !prevFast.Valid || !prevSlow.Valid || !currFast.Valid || !currSlow.Valid {
		return None
	}

	if prevFast.Float64 <= prevSlow.Float64 && currFast.Float64 > currSlow.Float64 {
		return Buy
	}
	if prevFast.Float64 >= prevSlow.Float64 && currFast.Float64 < currSlow.Float64 {
		return Sell
	}
	return None
}

// TrendOf classifies the most recent fast/slow relationship.
func TrendOf(fast, slow indicators.Series) Trend {
	f := fast.Last()
	s := slow.Last()
	if !f.Valid || !s.Valid {
		return Undefined
	}

	switch {
	case f.Float64 > s.Float64:
		return Bullish
	case f.Float64 < s.Float64:
		return Bearish
	default:
		return Neutral
	}
}
