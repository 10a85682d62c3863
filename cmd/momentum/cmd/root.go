package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solhart/momentum/config"
)

var rootCmd = &cobra.Command{
	Use:   "momentum",
	Short: "EMA momentum crossover backtester and live signal scanner",
	Long: `Momentum backtests and runs an EMA crossover strategy with
ATR-based stops and risk-based position sizing.

It provides tools for:
  - Backtesting the strategy against historical candle data
  - Fetching candles from the exchange API or a local CSV file
  - Journaling runs and trades to SQLite, JSON, and CSV
  - Continuous polling mode with a paper execution gateway`,
}

var (
	cfgFile string
	envFile string
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file (default ./.env)")
}

// loadConfig reads the env file and config file behind the persistent
// flags.
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	return config.Load(cfgFile)
}
