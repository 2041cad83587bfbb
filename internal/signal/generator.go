package signal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/levanduc/crypto-signal-bot/internal/indicators"
)

// RSI and Bollinger thresholds for the generator rules.
const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
)

// Generator turns an indicator snapshot into zero or more signals.
// Pure with respect to market state: same snapshot, same rules fired.
type Generator struct {
	ttl time.Duration
	now func() time.Time
}

// NewGenerator creates a Generator whose signals carry the given TTL.
func NewGenerator(ttl time.Duration) *Generator {
	return &Generator{ttl: ttl, now: time.Now}
}

// Generate evaluates every rule independently against the snapshot, so a
// single snapshot can yield multiple signals. Returns an empty slice when
// no threshold is crossed.
func (g *Generator) Generate(snapshot *indicators.Snapshot) []Signal {
	var signals []Signal

	if snapshot.RSI < rsiOversold {
		signals = append(signals, g.newSignal(snapshot, DirectionBuy, StrengthStrong,
			fmt.Sprintf("RSI oversold (%.1f)", snapshot.RSI)))
	} else if snapshot.RSI > rsiOverbought {
		signals = append(signals, g.newSignal(snapshot, DirectionSell, StrengthStrong,
			fmt.Sprintf("RSI overbought (%.1f)", snapshot.RSI)))
	}

	if snapshot.MACD > snapshot.MACDSignal {
		signals = append(signals, g.newSignal(snapshot, DirectionBuy, StrengthModerate,
			fmt.Sprintf("MACD above signal line (%.4f > %.4f)", snapshot.MACD, snapshot.MACDSignal)))
	} else if snapshot.MACD < snapshot.MACDSignal {
		signals = append(signals, g.newSignal(snapshot, DirectionSell, StrengthModerate,
			fmt.Sprintf("MACD below signal line (%.4f < %.4f)", snapshot.MACD, snapshot.MACDSignal)))
	}

	if snapshot.Price <= snapshot.BollingerLower {
		signals = append(signals, g.newSignal(snapshot, DirectionBuy, StrengthStrong,
			fmt.Sprintf("price %.2f at or below lower Bollinger band %.2f", snapshot.Price, snapshot.BollingerLower)))
	} else if snapshot.Price >= snapshot.BollingerUpper {
		signals = append(signals, g.newSignal(snapshot, DirectionSell, StrengthStrong,
			fmt.Sprintf("price %.2f at or above upper Bollinger band %.2f", snapshot.Price, snapshot.BollingerUpper)))
	}

	return signals
}

func (g *Generator) newSignal(snapshot *indicators.Snapshot, direction Direction, strength Strength, reason string) Signal {
	createdAt := g.now()
	return Signal{
		ID:               uuid.NewString(),
		Symbol:           snapshot.Symbol,
		Direction:        direction,
		Strength:         strength,
		Price:            snapshot.Price,
		SourceIndicators: []string{reason},
		CreatedAt:        createdAt,
		ExpiresAt:        createdAt.Add(g.ttl),
	}
}
