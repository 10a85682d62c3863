package backtest

import (
	"fmt"

	"github.com/solhart/momentum/risk"
)

// MinCandlesDefault is the minimum candle count for a meaningful run.
// Shorter inputs abort immediately with an insufficient-data result.
const MinCandlesDefault = 100

// Config holds every strategy and simulation parameter. Zero values
// are invalid; use DefaultConfig and override.
type Config struct {
	FastEMAPeriod  int     `json:"fast_ema_period" yaml:"fast_ema_period"`
	SlowEMAPeriod  int     `json:"slow_ema_period" yaml:"slow_ema_period"`
	ATRPeriod      int     `json:"atr_period" yaml:"atr_period"`
	SlopeLookback  int     `json:"slope_lookback" yaml:"slope_lookback"`
	SlopeThreshold float64 `json:"slope_threshold" yaml:"slope_threshold"`

	ATRStopMultiplier   float64 `json:"atr_stop_multiplier" yaml:"atr_stop_multiplier"`
	RiskRewardRatio     float64 `json:"risk_reward_ratio" yaml:"risk_reward_ratio"`
	RiskPerTradePercent float64 `json:"risk_per_trade_percent" yaml:"risk_per_trade_percent"`

	MaxOpenTrades int    `json:"max_open_trades" yaml:"max_open_trades"`
	MinCandles    int    `json:"min_candles" yaml:"min_candles"`
	Timeframe     string `json:"timeframe" yaml:"timeframe"`
}

// DefaultConfig returns the shipped strategy parameters: EMA 9/15 on
// the 15-minute timeframe with ATR(14) stops.
func DefaultConfig() Config {
	return Config{
		FastEMAPeriod:       9,
		SlowEMAPeriod:       15,
		ATRPeriod:           14,
		SlopeLookback:       4,
		SlopeThreshold:      0.10,
		ATRStopMultiplier:   0.5,
		RiskRewardRatio:     3.0,
		RiskPerTradePercent: 1.5,
		MaxOpenTrades:       3,
		MinCandles:          MinCandlesDefault,
		Timeframe:           "15m",
	}
}

// Validate rejects invalid parameters before any simulation starts.
func (c Config) Validate() error {
	if c.FastEMAPeriod <= 0 {
		return fmt.Errorf("config: fast_ema_period must be positive, got %d", c.FastEMAPeriod)
	}
	if c.SlowEMAPeriod <= 0 {
		return fmt.Errorf("config: slow_ema_period must be positive, got %d", c.SlowEMAPeriod)
	}
	if c.FastEMAPeriod >= c.SlowEMAPeriod {
		return fmt.Errorf("config: fast_ema_period %d must be below slow_ema_period %d",
			c.FastEMAPeriod, c.SlowEMAPeriod)
	}
	if c.ATRPeriod <= 0 {
		return fmt.Errorf("config: atr_period must be positive, got %d", c.ATRPeriod)
	}
	if c.SlopeLookback <= 0 {
		return fmt.Errorf("config: slope_lookback must be positive, got %d", c.SlopeLookback)
	}
	if c.SlopeThreshold < 0 {
		return fmt.Errorf("config: slope_threshold must not be negative, got %v", c.SlopeThreshold)
	}
	if c.ATRStopMultiplier <= 0 {
		return fmt.Errorf("config: atr_stop_multiplier must be positive, got %v", c.ATRStopMultiplier)
	}
	if c.RiskRewardRatio <= 0 {
		return fmt.Errorf("config: risk_reward_ratio must be positive, got %v", c.RiskRewardRatio)
	}
	if c.RiskPerTradePercent <= 0 {
		return fmt.Errorf("config: risk_per_trade_percent must be positive, got %v", c.RiskPerTradePercent)
	}
	if c.MaxOpenTrades <= 0 {
		return fmt.Errorf("config: max_open_trades must be positive, got %d", c.MaxOpenTrades)
	}
	if c.MinCandles <= 0 {
		return fmt.Errorf("config: min_candles must be positive, got %d", c.MinCandles)
	}
	return nil
}

// riskParams projects the risk-management knobs for the risk package.
func (c Config) riskParams() risk.Params {
	return risk.Params{
		ATRStopMultiplier:   c.ATRStopMultiplier,
		RiskRewardRatio:     c.RiskRewardRatio,
		RiskPerTradePercent: c.RiskPerTradePercent,
	}
}
