package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/solhart/momentum/backtest"
	"github.com/solhart/momentum/feed"
	"github.com/solhart/momentum/journal"
	"github.com/solhart/momentum/pkg/id"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the strategy against historical candles",
	Long: `Backtest fetches historical candles and simulates the EMA
crossover strategy over them, printing a summary report and
journaling the run.

Candles come from the exchange API by default; pass --candles to use
a local CSV file instead.

Example:
  momentum backtest --symbol SOL --days 365 --capital 1000`,
	RunE: runBacktestCmd,
}

var (
	btSymbol  string
	btDays    int
	btCapital float64
	btCandles string
	btDBPath  string
	btJSONOut string
	btCSVOut  string
	btAPIURL  string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "SOL", "symbol to backtest")
	backtestCmd.Flags().IntVarP(&btDays, "days", "d", 365, "days of history to fetch")
	backtestCmd.Flags().Float64VarP(&btCapital, "capital", "c", 1000.0, "initial capital")
	backtestCmd.Flags().StringVar(&btCandles, "candles", "", "path to candle CSV file (skips the API)")
	backtestCmd.Flags().StringVar(&btDBPath, "db", "", "path to SQLite journal DB")
	backtestCmd.Flags().StringVar(&btJSONOut, "json-out", "", "write the result JSON artifact here")
	backtestCmd.Flags().StringVar(&btCSVOut, "csv-out", "", "write the closed trades CSV here")
	backtestCmd.Flags().StringVar(&btAPIURL, "api-url", "", "exchange API base URL")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flags beat file and environment.
	if cmd.Flags().Changed("symbol") || cfg.Backtest.Symbol == "" {
		cfg.Backtest.Symbol = btSymbol
	}
	if cmd.Flags().Changed("days") {
		cfg.Backtest.Days = btDays
	}
	if cmd.Flags().Changed("capital") {
		cfg.Backtest.InitialCapital = btCapital
	}
	if btCandles != "" {
		cfg.Backtest.CandleFile = btCandles
	}
	if btAPIURL != "" {
		cfg.Backtest.APIURL = btAPIURL
	}
	if btDBPath != "" {
		cfg.Journal.DBPath = btDBPath
	}
	if btJSONOut != "" {
		cfg.Journal.JSONPath = btJSONOut
	}
	if btCSVOut != "" {
		cfg.Journal.CSVPath = btCSVOut
	}

	var provider feed.Provider
	if cfg.Backtest.CandleFile != "" {
		provider = feed.NewCSVFeed(cfg.Backtest.CandleFile)
	} else {
		provider = feed.NewClient(cfg.Backtest.APIURL)
	}

	endMS := time.Now().UnixMilli()
	startMS := endMS - int64(cfg.Backtest.Days)*24*time.Hour.Milliseconds()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	candles, err := provider.Candles(ctx, cfg.Backtest.Symbol, cfg.Strategy.Timeframe, startMS, endMS)
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}

	engine, err := backtest.NewEngine(cfg.Backtest.Symbol, cfg.Backtest.InitialCapital, cfg.EngineConfig())
	if err != nil {
		return err
	}
	res := engine.Run(candles)

	runID := id.New()
	if cfg.Journal.DBPath != "" {
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return err
		}
		defer j.Close()

		if err := j.RecordRun(runID, res); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		if err := j.RecordTrades(runID, res.Trades); err != nil {
			return fmt.Errorf("record trades: %w", err)
		}
	}

	if cfg.Journal.JSONPath != "" {
		if err := journal.WriteJSON(cfg.Journal.JSONPath, res); err != nil {
			return err
		}
	}
	if cfg.Journal.CSVPath != "" {
		if err := journal.WriteTradesCSV(cfg.Journal.CSVPath, res.Trades); err != nil {
			return err
		}
	}

	fmt.Printf("Run ID: %s\n\n", runID)
	return journal.WriteReport(os.Stdout, res)
}
