// Package journal persists backtest results: SQLite rows for querying
// across runs, a JSON artifact per run, and a plain-text report.
package journal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/solhart/momentum/backtest"
)

// Journal records completed backtest runs. Implementations must accept
// the same run ID for RecordRun and RecordTrades.
type Journal interface {
	RecordRun(runID string, res *backtest.Result) error
	RecordTrades(runID string, trades []*backtest.Trade) error
	Close() error
}

// WriteJSON writes the result as an indented JSON artifact. The field
// names in the file are the frozen wire names on Result and Trade.
func WriteJSON(path string, res *backtest.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// ReadJSON loads a result artifact previously written by WriteJSON.
func ReadJSON(path string) (*backtest.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result: %w", err)
	}
	var res backtest.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &res, nil
}
