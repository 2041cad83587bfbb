package execution

import (
	"context"
	"fmt"
	"strconv"

	"github.com/levanduc/crypto-signal-bot/internal/exchange"
	"github.com/levanduc/crypto-signal-bot/internal/risk"
	"github.com/levanduc/crypto-signal-bot/internal/signal"
	"github.com/levanduc/crypto-signal-bot/pkg/types"
)

// OrderIntent is the concrete order derived from an approved signal. It is
// consumed exactly once by the submission transport.
type OrderIntent struct {
	Symbol          string
	Side            string
	Category        string
	Profile         string
	Quantity        float64
	Leverage        int
	EntryPrice      float64
	StopLossPrice   float64
	TakeProfitPrice float64
	RiskAmount      float64
}

// SubmitError carries the original intent with the submission failure so
// the orchestrator can re-notify the operator without rebuilding it.
type SubmitError struct {
	Intent OrderIntent
	Err    error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("order submission failed for %s %s: %v", e.Intent.Side, e.Intent.Symbol, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Engine builds and submits orders from approved signals.
type Engine struct {
	exchange exchange.Exchange
	sizer    *risk.Sizer
	router   RoutingPolicy
}

// NewEngine wires the execution engine.
func NewEngine(exch exchange.Exchange, sizer *risk.Sizer, router RoutingPolicy) *Engine {
	return &Engine{exchange: exch, sizer: sizer, router: router}
}

// BuildOrder computes stop, target, leverage and quantity for the signal
// under the routed profile. Pure computation; no I/O.
func (e *Engine) BuildOrder(sig signal.Signal, account types.AccountSnapshot) (OrderIntent, error) {
	profile := e.router.Route(sig)
	entry := sig.Price
	if entry <= 0 {
		return OrderIntent{}, fmt.Errorf("signal %s has no reference price", sig.ID)
	}

	stopDistance := entry * profile.StopDistancePct
	rewardDistance := stopDistance * profile.RewardMultiplier

	var side string
	var stop, target float64
	switch sig.Direction {
	case signal.DirectionBuy:
		side = "Buy"
		stop = entry - stopDistance
		target = entry + rewardDistance
	case signal.DirectionSell:
		side = "Sell"
		stop = entry + stopDistance
		target = entry - rewardDistance
	default:
		return OrderIntent{}, fmt.Errorf("signal %s has unknown direction %q", sig.ID, sig.Direction)
	}

	leverage := 1
	if profile.UseLeverage {
		safe, err := e.sizer.SafeLeverage(entry, stop)
		if err != nil {
			return OrderIntent{}, err
		}
		leverage = safe
	}

	size, err := e.sizer.Size(account, entry, stop)
	if err != nil {
		return OrderIntent{}, err
	}

	return OrderIntent{
		Symbol:          sig.Symbol,
		Side:            side,
		Category:        profile.Category,
		Profile:         profile.Name,
		Quantity:        size.Quantity,
		Leverage:        leverage,
		EntryPrice:      entry,
		StopLossPrice:   stop,
		TakeProfitPrice: target,
		RiskAmount:      size.RiskAmount,
	}, nil
}

// Submit places the order. No automatic retry: a failure surfaces with the
// intent attached and the decision to re-notify stays with the caller.
func (e *Engine) Submit(ctx context.Context, intent OrderIntent) (*exchange.OrderResult, error) {
	if intent.Leverage > 1 && intent.Category == "linear" {
		if err := e.exchange.SetLeverage(ctx, intent.Category, intent.Symbol, intent.Leverage); err != nil {
			return nil, &SubmitError{Intent: intent, Err: err}
		}
	}

	result, err := e.exchange.PlaceMarketOrder(ctx, exchange.OrderRequest{
		Category:   intent.Category,
		Symbol:     intent.Symbol,
		Side:       intent.Side,
		Qty:        formatQty(intent.Quantity),
		TakeProfit: formatPrice(intent.TakeProfitPrice),
		StopLoss:   formatPrice(intent.StopLossPrice),
	})
	if err != nil {
		return nil, &SubmitError{Intent: intent, Err: err}
	}
	return result, nil
}

func formatQty(qty float64) string {
	return strconv.FormatFloat(qty, 'f', 6, 64)
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}
