// Package feed supplies historical candles, either from the exchange
// HTTP API or from a local CSV file for offline runs.
package feed

import (
	"context"

	"github.com/solhart/momentum/market"
)

// Provider returns candles for a symbol over [startMS, endMS), oldest
// first. Implementations must not return candles with missing fields.
type Provider interface {
	Candles(ctx context.Context, symbol, timeframe string, startMS, endMS int64) ([]market.Candle, error)
}
