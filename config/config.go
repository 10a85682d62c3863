// Package config loads the strategy, backtest, and journal settings
// from a YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/solhart/momentum/backtest"
	"github.com/solhart/momentum/market"
)

// Config is the complete application configuration.
type Config struct {
	Strategy StrategyConfig `yaml:"strategy"`
	Risk     RiskConfig     `yaml:"risk"`
	Backtest BacktestConfig `yaml:"backtest"`
	Journal  JournalConfig  `yaml:"journal"`
	Live     LiveConfig     `yaml:"live"`
}

// StrategyConfig holds the indicator and confirmation parameters.
type StrategyConfig struct {
	FastEMAPeriod  int     `yaml:"fast_ema_period"`
	SlowEMAPeriod  int     `yaml:"slow_ema_period"`
	ATRPeriod      int     `yaml:"atr_period"`
	SlopeLookback  int     `yaml:"slope_lookback"`
	SlopeThreshold float64 `yaml:"slope_threshold"`
	Timeframe      string  `yaml:"timeframe"`
}

// RiskConfig holds position sizing parameters.
type RiskConfig struct {
	ATRStopMultiplier   float64 `yaml:"atr_stop_multiplier"`
	RiskRewardRatio     float64 `yaml:"risk_reward_ratio"`
	RiskPerTradePercent float64 `yaml:"risk_per_trade_percent"`
	MaxOpenTrades       int     `yaml:"max_open_trades"`
}

// BacktestConfig holds run parameters for the backtest command.
type BacktestConfig struct {
	Symbol         string  `yaml:"symbol"`
	Days           int     `yaml:"days"`
	InitialCapital float64 `yaml:"initial_capital"`
	APIURL         string  `yaml:"api_url"`
	CandleFile     string  `yaml:"candle_file,omitempty"`
}

// JournalConfig selects where run results are persisted.
type JournalConfig struct {
	DBPath   string `yaml:"db_path,omitempty"`
	JSONPath string `yaml:"json_path,omitempty"`
	CSVPath  string `yaml:"csv_path,omitempty"`
}

// LiveConfig holds polling mode parameters.
type LiveConfig struct {
	Symbols    []string `yaml:"symbols"`
	Leverage   int      `yaml:"leverage"`
	HealthPort int      `yaml:"health_port"`
}

// Default returns a configuration with the standard strategy defaults.
func Default() *Config {
	return &Config{
		Strategy: StrategyConfig{
			FastEMAPeriod:  9,
			SlowEMAPeriod:  15,
			ATRPeriod:      14,
			SlopeLookback:  4,
			SlopeThreshold: 0.10,
			Timeframe:      market.DefaultTimeframe,
		},
		Risk: RiskConfig{
			ATRStopMultiplier:   0.5,
			RiskRewardRatio:     3.0,
			RiskPerTradePercent: 1.5,
			MaxOpenTrades:       3,
		},
		Backtest: BacktestConfig{
			Symbol:         "SOL",
			Days:           365,
			InitialCapital: 1000.0,
		},
		Journal: JournalConfig{
			DBPath: "./momentum.db",
		},
		Live: LiveConfig{
			Symbols:    []string{"ETH", "SOL", "BTC"},
			Leverage:   1,
			HealthPort: 8080,
		},
	}
}

// Load reads a YAML config file on top of the defaults, then applies
// environment overrides. An empty path skips the file and uses only
// defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnvFile loads a .env file into the process environment if one
// exists. Missing files are not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// applyEnv overlays the environment variables the deployment sets.
func (c *Config) applyEnv() {
	if v := envString("API_URL"); v != "" {
		c.Backtest.APIURL = v
	}
	if v := envString("TIMEFRAME"); v != "" {
		c.Strategy.Timeframe = v
	}
	if v := envString("SYMBOLS"); v != "" {
		parts := strings.Split(v, ",")
		symbols := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				symbols = append(symbols, s)
			}
		}
		if len(symbols) > 0 {
			c.Live.Symbols = symbols
		}
	}
	if v, ok := envInt("HEALTH_CHECK_PORT"); ok {
		c.Live.HealthPort = v
	} else if v, ok := envInt("PORT"); ok {
		c.Live.HealthPort = v
	}
	if v, ok := envFloat("RISK_PER_TRADE_PERCENT"); ok {
		c.Risk.RiskPerTradePercent = v
	}
	if v, ok := envFloat("INITIAL_CAPITAL"); ok {
		c.Backtest.InitialCapital = v
	}
}

// envString reads a variable and strips quotes some deployment tools
// leave around values.
func envString(key string) string {
	return strings.Trim(os.Getenv(key), `"'`)
}

func envInt(key string) (int, bool) {
	v, err := strconv.Atoi(envString(key))
	if err != nil {
		return 0, false
	}
	return v, true
}

func envFloat(key string) (float64, bool) {
	v, err := strconv.ParseFloat(envString(key), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate checks the configuration before a run.
func (c *Config) Validate() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return err
	}
	if c.Backtest.Symbol == "" {
		return fmt.Errorf("backtest.symbol is required")
	}
	if c.Backtest.Days <= 0 {
		return fmt.Errorf("backtest.days must be positive")
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive")
	}
	if c.Live.HealthPort <= 0 || c.Live.HealthPort > 65535 {
		return fmt.Errorf("live.health_port must be a valid port")
	}
	if c.Live.Leverage < 1 {
		return fmt.Errorf("live.leverage must be at least 1")
	}
	return nil
}

// EngineConfig maps the file sections onto the engine's parameter set.
func (c *Config) EngineConfig() backtest.Config {
	return backtest.Config{
		FastEMAPeriod:       c.Strategy.FastEMAPeriod,
		SlowEMAPeriod:       c.Strategy.SlowEMAPeriod,
		ATRPeriod:           c.Strategy.ATRPeriod,
		SlopeLookback:       c.Strategy.SlopeLookback,
		SlopeThreshold:      c.Strategy.SlopeThreshold,
		ATRStopMultiplier:   c.Risk.ATRStopMultiplier,
		RiskRewardRatio:     c.Risk.RiskRewardRatio,
		RiskPerTradePercent: c.Risk.RiskPerTradePercent,
		MaxOpenTrades:       c.Risk.MaxOpenTrades,
		MinCandles:          backtest.MinCandlesDefault,
		Timeframe:           c.Strategy.Timeframe,
	}
}
