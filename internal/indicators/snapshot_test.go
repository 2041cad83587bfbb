package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levanduc/crypto-signal-bot/pkg/types"
)

func candlesFromCloses(closes []float64) []types.Candle {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, len(closes))
	for i, c := range closes {
		candles[i] = types.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

func TestRSI_AllGains(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	// Monotonic rise means zero average loss.
	assert.Equal(t, 100.0, RSI(prices, 14))
}

func TestRSI_InsufficientData(t *testing.T) {
	assert.Equal(t, 0.0, RSI([]float64{100, 101}, 14))
}

func TestRSI_Oversold(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 - float64(i)*2
	}
	rsi := RSI(prices, 14)
	assert.Less(t, rsi, 30.0)
}

func TestSMA(t *testing.T) {
	assert.Equal(t, 20.0, SMA([]float64{10, 10, 20, 30}, 3))
	assert.Equal(t, 0.0, SMA([]float64{10}, 3))
}

func TestEMA_SeedsWithSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	series := EMA(values, 3)
	require.NotEmpty(t, series)
	assert.Equal(t, 2.0, series[0])
	assert.Len(t, series, 3)
}

func TestMACD_TrendingUp(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i)*0.5
	}
	macd, signal := MACD(prices, 12, 26, 9)
	// Steady uptrend keeps the fast EMA above the slow EMA.
	assert.Greater(t, macd, 0.0)
	assert.Greater(t, signal, 0.0)
}

func TestBollinger_FlatPrices(t *testing.T) {
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 50
	}
	upper, middle, lower := Bollinger(prices, 20, 2.0)
	assert.Equal(t, 50.0, middle)
	assert.Equal(t, upper, lower)
}

func TestCompute_InsufficientData(t *testing.T) {
	candles := candlesFromCloses([]float64{100, 101, 102})
	_, err := Compute("BTCUSDT", candles, DefaultParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient candle data")
}

func TestCompute_Snapshot(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	candles := candlesFromCloses(closes)

	snapshot, err := Compute("BTCUSDT", candles, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", snapshot.Symbol)
	assert.Equal(t, closes[len(closes)-1], snapshot.Price)
	assert.Greater(t, snapshot.BollingerUpper, snapshot.BollingerMiddle)
	assert.Greater(t, snapshot.BollingerMiddle, snapshot.BollingerLower)
	assert.Equal(t, 1000.0, snapshot.VolumeSMA)
	assert.Equal(t, candles[len(candles)-1].Timestamp, snapshot.Timestamp)
}

func TestDefaultParams_RequiredCandles(t *testing.T) {
	// MACD slow + signal dominates the default windows.
	assert.Equal(t, 35, DefaultParams().RequiredCandles())
}
