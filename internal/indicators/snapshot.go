package indicators

import (
	"fmt"
	"time"

	"github.com/levanduc/crypto-signal-bot/pkg/types"
)

// Params holds the indicator window configuration.
type Params struct {
	RSIPeriod        int
	MACDFast         int
	MACDSlow         int
	MACDSignal       int
	BollingerPeriod  int
	BollingerStdDevs float64
	VolumeSMAPeriod  int
}

// DefaultParams returns the standard indicator windows.
func DefaultParams() Params {
	return Params{
		RSIPeriod:        14,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		BollingerPeriod:  20,
		BollingerStdDevs: 2.0,
		VolumeSMAPeriod:  20,
	}
}

// RequiredCandles returns the minimum candle count needed to compute every
// indicator in the snapshot.
func (p Params) RequiredCandles() int {
	required := p.RSIPeriod + 1
	if n := p.MACDSlow + p.MACDSignal; n > required {
		required = n
	}
	if p.BollingerPeriod > required {
		required = p.BollingerPeriod
	}
	if p.VolumeSMAPeriod > required {
		required = p.VolumeSMAPeriod
	}
	return required
}

// Snapshot holds the latest scalar indicator values for one symbol.
// Immutable; recomputed from scratch every analysis cycle.
type Snapshot struct {
	Symbol          string
	Price           float64
	RSI             float64
	MACD            float64
	MACDSignal      float64
	BollingerUpper  float64
	BollingerMiddle float64
	BollingerLower  float64
	VolumeSMA       float64
	Timestamp       time.Time
}

// Compute derives a Snapshot from an ascending candle sequence.
// Too few candles for the configured windows is an insufficient-data
// condition; the caller skips the symbol for this cycle.
func Compute(symbol string, candles []types.Candle, params Params) (*Snapshot, error) {
	if required := params.RequiredCandles(); len(candles) < required {
		return nil, fmt.Errorf("%s: insufficient candle data: have %d, need %d", symbol, len(candles), required)
	}

	closes := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		volumes[i] = c.Volume
	}

	macdLine, signalLine := MACD(closes, params.MACDFast, params.MACDSlow, params.MACDSignal)
	upper, middle, lower := Bollinger(closes, params.BollingerPeriod, params.BollingerStdDevs)
	last := candles[len(candles)-1]

	return &Snapshot{
		Symbol:          symbol,
		Price:           last.Close,
		RSI:             RSI(closes, params.RSIPeriod),
		MACD:            macdLine,
		MACDSignal:      signalLine,
		BollingerUpper:  upper,
		BollingerMiddle: middle,
		BollingerLower:  lower,
		VolumeSMA:       SMA(volumes, params.VolumeSMAPeriod),
		Timestamp:       last.Timestamp,
	}, nil
}
