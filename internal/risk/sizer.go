package risk

import (
	"fmt"
	"math"

	"github.com/levanduc/crypto-signal-bot/pkg/types"
)

// Sizer converts (entry, stop, risk budget) into a quantity and a safe
// leverage. Stateless: every call re-evaluates against the snapshot it is
// given, since equity may have changed between calls.
type Sizer struct {
	budget Budget
}

// NewSizer creates a Sizer bound to the process risk budget.
func NewSizer(budget Budget) *Sizer {
	return &Sizer{budget: budget}
}

// SafeLeverage returns the maximum leverage such that a stop-loss hit does
// not exceed the full position margin: floor(1 / relative stop distance),
// capped at the configured maximum. A zero stop distance is an input
// validation error, never silently clamped.
func (s *Sizer) SafeLeverage(entryPrice, stopLossPrice float64) (int, error) {
	if entryPrice <= 0 {
		return 0, fmt.Errorf("entry price must be positive, got %v", entryPrice)
	}
	distance := math.Abs(entryPrice - stopLossPrice)
	if distance == 0 {
		return 0, fmt.Errorf("stop distance is zero: entry %v equals stop loss", entryPrice)
	}

	relativeDistance := distance / entryPrice
	leverage := int(math.Floor(1 / relativeDistance))
	if leverage > s.budget.MaxLeverage {
		leverage = s.budget.MaxLeverage
	}
	if leverage < 1 {
		leverage = 1
	}
	return leverage, nil
}

// Size computes the order quantity from the per-trade risk amount and the
// stop distance, hard-capped by MaxPositionSizePct of equity regardless of
// how tight the stop is.
func (s *Sizer) Size(account types.AccountSnapshot, entryPrice, stopLossPrice float64) (SizeResult, error) {
	if entryPrice <= 0 {
		return SizeResult{}, fmt.Errorf("entry price must be positive, got %v", entryPrice)
	}
	distance := math.Abs(entryPrice - stopLossPrice)
	if distance == 0 {
		return SizeResult{}, fmt.Errorf("stop distance is zero: entry %v equals stop loss", entryPrice)
	}

	riskAmount := account.Equity * s.budget.RiskPerTradePct
	quantity := riskAmount / distance

	maxQuantity := (account.Equity * s.budget.MaxPositionSizePct) / entryPrice
	if quantity > maxQuantity {
		quantity = maxQuantity
	}

	return SizeResult{Quantity: quantity, RiskAmount: riskAmount}, nil
}
