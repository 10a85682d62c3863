package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/solhart/momentum/market"
)

// CSVFeed serves candles from a local file so backtests can run
// offline. The file needs a header row with time, open, high, low,
// close, volume columns; time is epoch milliseconds.
type CSVFeed struct {
	path string
}

var _ Provider = (*CSVFeed)(nil)

func NewCSVFeed(path string) *CSVFeed {
	return &CSVFeed{path: path}
}

// Candles loads the file and returns candles within [startMS, endMS),
// oldest first. Symbol and timeframe are ignored; the file is the
// dataset. Zero bounds disable the time filter.
func (f *CSVFeed) Candles(_ context.Context, _, _ string, startMS, endMS int64) ([]market.Candle, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open candle file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read candle file %s: %w", f.path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("candle file %s has no data rows", f.path)
	}

	candles := make([]market.Candle, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 6 {
			return nil, fmt.Errorf("row %d: want 6 columns, got %d", i+2, len(rec))
		}

		ts, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse time %q: %w", i+2, rec[0], err)
		}
		if startMS != 0 && ts < startMS {
			continue
		}
		if endMS != 0 && ts >= endMS {
			continue
		}

		var vals [5]float64
		for j, s := range rec[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse %q: %w", i+2, s, err)
			}
			vals[j] = v
		}

		candles = append(candles, market.Candle{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}

	market.SortByTime(candles)
	return candles, nil
}
