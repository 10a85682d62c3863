// Package live runs the strategy continuously: fetch recent candles
// per symbol each interval, evaluate the entry conditions on the
// latest bar, and drive the execution gateway when a signal confirms.
package live

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/solhart/momentum/broker"
	"github.com/solhart/momentum/config"
	"github.com/solhart/momentum/feed"
	"github.com/solhart/momentum/indicators"
	"github.com/solhart/momentum/market"
	"github.com/solhart/momentum/risk"
	"github.com/solhart/momentum/signal"
)

// DefaultLookback is how many candles each poll fetches. Enough for
// the slow EMA and ATR to settle well before the decision bar.
const DefaultLookback = 100

// Clock lets tests pin the poll window.
type Clock func() time.Time

// Poller evaluates every configured symbol once per timeframe
// interval.
type Poller struct {
	cfg      *config.Config
	provider feed.Provider
	gateway  broker.Gateway
	capital  float64
	lookback int
	now      Clock

	// Checked is called after every completed cycle, if set. The
	// health server hangs off this.
	Checked func()
}

func NewPoller(cfg *config.Config, provider feed.Provider, gateway broker.Gateway) *Poller {
	return &Poller{
		cfg:      cfg,
		provider: provider,
		gateway:  gateway,
		capital:  cfg.Backtest.InitialCapital,
		lookback: DefaultLookback,
		now:      time.Now,
	}
}

// Run polls until the context is cancelled. The first cycle runs
// immediately, then once per timeframe interval.
func (p *Poller) Run(ctx context.Context) error {
	interval := market.TimeframeDuration(p.cfg.Strategy.Timeframe)

	log.WithFields(log.Fields{
		"symbols":  p.cfg.Live.Symbols,
		"interval": interval,
	}).Info("poller started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.Cycle(ctx)

		select {
		case <-ctx.Done():
			log.Info("poller stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Cycle evaluates every symbol once.
func (p *Poller) Cycle(ctx context.Context) {
	for _, symbol := range p.cfg.Live.Symbols {
		if err := p.check(ctx, symbol); err != nil {
			log.WithError(err).WithField("symbol", symbol).Warn("symbol check failed")
		}
	}
	if p.Checked != nil {
		p.Checked()
	}
}

func (p *Poller) check(ctx context.Context, symbol string) error {
	tf := p.cfg.Strategy.Timeframe
	endMS := p.now().UnixMilli()
	startMS := endMS - int64(p.lookback)*market.TimeframeMillis(tf)

	candles, err := p.provider.Candles(ctx, symbol, tf, startMS, endMS)
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}

	st := p.cfg.Strategy
	need := st.SlowEMAPeriod
	if st.ATRPeriod > need {
		need = st.ATRPeriod
	}
	need += st.SlopeLookback + 1
	if len(candles) < need {
		return fmt.Errorf("insufficient candles: have %d, need %d", len(candles), need)
	}

	market.SortByTime(candles)
	closes := market.Closes(candles)
	highs := market.Highs(candles)
	lows := market.Lows(candles)

	fast, err := indicators.EMA(closes, st.FastEMAPeriod)
	if err != nil {
		return err
	}
	slow, err := indicators.EMA(closes, st.SlowEMAPeriod)
	if err != nil {
		return err
	}
	atr, err := indicators.ATR(highs, lows, closes, st.ATRPeriod)
	if err != nil {
		return err
	}

	last := len(candles) - 1
	price := closes[last]
	cross := signal.Crossover(fast, slow)
	trend := signal.TrendOf(fast, slow)
	slope := indicators.Slope(fast, st.SlopeLookback)

	fields := log.Fields{
		"symbol": symbol,
		"price":  price,
		"trend":  trend.String(),
		"signal": cross.String(),
	}
	if slope.Valid {
		fields["slope"] = slope.Float64
	}
	log.WithFields(fields).Info("symbol checked")

	if cross == signal.None || !slope.Valid {
		return nil
	}

	// The crossover fired between the last two bars; the bar before
	// the latest is the trigger bar.
	trigger := candles[last-1]

	var side risk.Side
	switch cross {
	case signal.Buy:
		if slope.Float64 <= st.SlopeThreshold || price <= trigger.High {
			return nil
		}
		side = risk.Long
	case signal.Sell:
		if slope.Float64 >= -st.SlopeThreshold || price >= trigger.Low {
			return nil
		}
		side = risk.Short
	}

	atrNow := atr.At(last)
	if !atrNow.Valid {
		return nil
	}

	plan, ok := risk.Build(risk.Inputs{
		Side:        side,
		Entry:       price,
		ATR:         atrNow.Float64,
		TriggerHigh: trigger.High,
		TriggerLow:  trigger.Low,
		Capital:     p.capital,
		Params: risk.Params{
			ATRStopMultiplier:   p.cfg.Risk.ATRStopMultiplier,
			RiskRewardRatio:     p.cfg.Risk.RiskRewardRatio,
			RiskPerTradePercent: p.cfg.Risk.RiskPerTradePercent,
		},
	})
	if !ok {
		log.WithField("symbol", symbol).Debug("entry rejected: non-positive risk")
		return nil
	}

	return p.place(ctx, symbol, side, price, plan)
}

func (p *Poller) place(ctx context.Context, symbol string, side risk.Side, price float64, plan risk.Plan) error {
	isLong := side == risk.Long

	// Paper gateways fill at a mark price the caller maintains.
	if m, ok := p.gateway.(interface{ SetMark(string, float64) }); ok {
		m.SetMark(symbol, price)
	}

	if err := p.gateway.SetLeverage(ctx, symbol, p.cfg.Live.Leverage); err != nil {
		return fmt.Errorf("set leverage: %w", err)
	}

	order, err := p.gateway.OpenMarketOrder(ctx, symbol, isLong, plan.Size)
	if err != nil {
		return fmt.Errorf("open order: %w", err)
	}

	entry := order.AvgPrice
	if entry <= 0 {
		entry = price
	}

	tpPct := math.Abs(plan.Target-entry) / entry * 100
	slPct := math.Abs(entry-plan.Stop) / entry * 100

	if _, err := p.gateway.SetTakeProfit(ctx, symbol, entry, plan.Size, tpPct, isLong); err != nil {
		return fmt.Errorf("set take profit: %w", err)
	}
	if _, err := p.gateway.SetStopLoss(ctx, symbol, entry, plan.Size, slPct, isLong); err != nil {
		return fmt.Errorf("set stop loss: %w", err)
	}

	log.WithFields(log.Fields{
		"symbol": symbol,
		"side":   side,
		"size":   plan.Size,
		"entry":  entry,
		"stop":   plan.Stop,
		"target": plan.Target,
		"order":  order.OrderID,
	}).Info("position opened")

	return nil
}
