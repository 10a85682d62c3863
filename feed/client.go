package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/solhart/momentum/market"
)

// MainnetURL is the default exchange API endpoint.
const MainnetURL = "https://api.hyperliquid.xyz"

// Client fetches candle snapshots from the exchange info endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient returns a Client against the given base URL. An empty URL
// selects mainnet.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = MainnetURL
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// snapshotRequest is the POST /info body for a candle snapshot.
type snapshotRequest struct {
	Type string      `json:"type"`
	Req  snapshotReq `json:"req"`
}

type snapshotReq struct {
	Coin      string `json:"coin"`
	Interval  string `json:"interval"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

// wireCandle is one candle as the API returns it. Prices and volume
// arrive as decimal strings.
type wireCandle struct {
	Time   int64  `json:"t"`
	Open   string `json:"o"`
	High   string `json:"h"`
	Low    string `json:"l"`
	Close  string `json:"c"`
	Volume string `json:"v"`
}

// Candles fetches the candle snapshot for [startMS, endMS) and returns
// parsed candles sorted oldest first.
func (c *Client) Candles(ctx context.Context, symbol, timeframe string, startMS, endMS int64) ([]market.Candle, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	body, err := json.Marshal(snapshotRequest{
		Type: "candleSnapshot",
		Req: snapshotReq{
			Coin:      symbol,
			Interval:  timeframe,
			StartTime: startMS,
			EndTime:   endMS,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/info", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(msg))
	}

	var wire []wireCandle
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candles := make([]market.Candle, 0, len(wire))
	for _, wc := range wire {
		open, err := parsePrice("open", wc.Open)
		if err != nil {
			return nil, err
		}
		high, err := parsePrice("high", wc.High)
		if err != nil {
			return nil, err
		}
		low, err := parsePrice("low", wc.Low)
		if err != nil {
			return nil, err
		}
		cls, err := parsePrice("close", wc.Close)
		if err != nil {
			return nil, err
		}
		vol, err := parsePrice("volume", wc.Volume)
		if err != nil {
			return nil, err
		}

		candles = append(candles, market.Candle{
			Time:   wc.Time,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cls,
			Volume: vol,
		})
	}

	market.SortByTime(candles)
	return candles, nil
}

func parsePrice(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return f, nil
}
