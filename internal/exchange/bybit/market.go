package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/levanduc/crypto-signal-bot/pkg/types"
)

// GetKlines fetches candlestick data. Bybit returns newest-first; the
// result is re-sorted to ascending time, which the indicator kernels
// require.
func (c *Client) GetKlines(ctx context.Context, category, symbol, interval string, limit int) ([]types.Candle, error) {
	if category == "" {
		category = "linear"
	}
	if limit <= 0 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}

	params := map[string]interface{}{
		"category": category,
		"symbol":   symbol,
		"interval": interval,
		"limit":    limit,
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	return parseKlineResponse(result)
}

func parseKlineResponse(response interface{}) ([]types.Candle, error) {
	serverResp, err := checkResponse(response)
	if err != nil {
		return nil, err
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var klineResult struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kline result: %w", err)
	}

	candles := make([]types.Candle, 0, len(klineResult.List))
	for _, item := range klineResult.List {
		if len(item) < 6 {
			continue
		}
		// Bybit kline format: [startTime, open, high, low, close, volume, turnover]
		candles = append(candles, types.Candle{
			Timestamp: time.UnixMilli(parseInt64(item[0])),
			Open:      parseFloat64(item[1]),
			High:      parseFloat64(item[2]),
			Low:       parseFloat64(item[3]),
			Close:     parseFloat64(item[4]),
			Volume:    parseFloat64(item[5]),
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	return candles, nil
}

// GetLatestPrice fetches the last traded price for a symbol.
func (c *Client) GetLatestPrice(ctx context.Context, category, symbol string) (float64, error) {
	if category == "" {
		category = "linear"
	}

	params := map[string]interface{}{
		"category": category,
		"symbol":   symbol,
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketTickers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get tickers: %w", err)
	}

	serverResp, err := checkResponse(result)
	if err != nil {
		return 0, err
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal result: %w", err)
	}

	var tickerResult struct {
		List []struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &tickerResult); err != nil {
		return 0, fmt.Errorf("failed to unmarshal ticker result: %w", err)
	}

	for _, t := range tickerResult.List {
		if t.Symbol == symbol {
			return parseFloat64(t.LastPrice), nil
		}
	}

	return 0, fmt.Errorf("symbol %s not found in ticker response", symbol)
}
