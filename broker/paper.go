package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/solhart/momentum/pkg/id"
)

// Paper is an in-memory Gateway for dry runs. Market orders fill at
// the current mark price, which the caller keeps updated from the
// candle feed.
type Paper struct {
	mu       sync.Mutex
	marks    map[string]float64
	leverage map[string]int
	orders   []OrderResult
	triggers []TriggerResult
}

var _ Gateway = (*Paper)(nil)

func NewPaper() *Paper {
	return &Paper{
		marks:    make(map[string]float64),
		leverage: make(map[string]int),
	}
}

// SetMark updates the fill price for a symbol.
func (p *Paper) SetMark(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.marks[symbol] = price
}

func (p *Paper) OpenMarketOrder(_ context.Context, symbol string, isBuy bool, size float64) (OrderResult, error) {
	if size <= 0 {
		return OrderResult{}, fmt.Errorf("order size must be positive, got %v", size)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	mark, ok := p.marks[symbol]
	if !ok {
		return OrderResult{}, fmt.Errorf("no mark price for %s", symbol)
	}

	res := OrderResult{
		OrderID:       id.New(),
		ClientOrderID: uuid.NewString(),
		Symbol:        symbol,
		IsBuy:         isBuy,
		Size:          size,
		AvgPrice:      mark,
	}
	p.orders = append(p.orders, res)
	return res, nil
}

func (p *Paper) SetLeverage(_ context.Context, symbol string, leverage int) error {
	if leverage < 1 {
		return fmt.Errorf("leverage must be at least 1, got %d", leverage)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.leverage[symbol] = leverage
	return nil
}

func (p *Paper) SetTakeProfit(_ context.Context, symbol string, entry, size, percent float64, isLong bool) (TriggerResult, error) {
	price := entry * (1 + percent/100)
	if !isLong {
		price = entry * (1 - percent/100)
	}
	return p.placeTrigger(symbol, size, price)
}

func (p *Paper) SetStopLoss(_ context.Context, symbol string, entry, size, percent float64, isLong bool) (TriggerResult, error) {
	price := entry * (1 - percent/100)
	if !isLong {
		price = entry * (1 + percent/100)
	}
	return p.placeTrigger(symbol, size, price)
}

func (p *Paper) placeTrigger(symbol string, size, price float64) (TriggerResult, error) {
	if size <= 0 {
		return TriggerResult{}, fmt.Errorf("trigger size must be positive, got %v", size)
	}
	if price <= 0 {
		return TriggerResult{}, fmt.Errorf("trigger price must be positive, got %v", price)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	res := TriggerResult{
		OrderID:      id.New(),
		TriggerPrice: price,
	}
	p.triggers = append(p.triggers, res)
	return res, nil
}

// Orders returns a copy of the fills so far, in placement order.
func (p *Paper) Orders() []OrderResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]OrderResult, len(p.orders))
	copy(out, p.orders)
	return out
}

// Triggers returns a copy of the placed TP/SL triggers.
func (p *Paper) Triggers() []TriggerResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]TriggerResult, len(p.triggers))
	copy(out, p.triggers)
	return out
}

// Leverage returns the configured leverage for a symbol, default 1.
func (p *Paper) Leverage(symbol string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.leverage[symbol]; ok {
		return l
	}
	return 1
}
