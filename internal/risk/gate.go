package risk

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/levanduc/crypto-signal-bot/pkg/types"
)

// Margin utilization thresholds, in percent of equity.
const (
	marginFailPct = 80.0
	marginWarnPct = 75.0
)

// BalanceSource provides fresh account snapshots. Transport failures
// propagate to the caller as retryable errors; the gate never retries.
type BalanceSource interface {
	AccountSnapshot(ctx context.Context) (types.AccountSnapshot, error)
}

// PnLSource reports the net realized PnL for the trading day containing
// the given instant, recomputed from the trade history each call.
type PnLSource interface {
	RealizedPnL(ctx context.Context, day time.Time) (float64, error)
}

// Alerter receives risk alerts. Satisfied by notifications.Notifier.
type Alerter interface {
	SendAlert(level, message string) error
}

// Gate computes account-level risk metrics and approves or rejects trade
// requests against the process risk budget.
type Gate struct {
	budget  Budget
	balance BalanceSource
	pnl     PnLSource
	sizer   *Sizer
	alerter Alerter
	now     func() time.Time
}

// NewGate wires the gate to its collaborators.
func NewGate(budget Budget, balance BalanceSource, pnl PnLSource, alerter Alerter) *Gate {
	return &Gate{
		budget:  budget,
		balance: balance,
		pnl:     pnl,
		sizer:   NewSizer(budget),
		alerter: alerter,
		now:     time.Now,
	}
}

// Snapshot fetches a fresh account snapshot and fills in the margin
// utilization. Never cached: equity moves between checks.
func (g *Gate) Snapshot(ctx context.Context) (types.AccountSnapshot, error) {
	snapshot, err := g.balance.AccountSnapshot(ctx)
	if err != nil {
		return types.AccountSnapshot{}, fmt.Errorf("failed to fetch account snapshot: %w", err)
	}
	if snapshot.Equity > 0 {
		snapshot.MarginUtilizationPct = snapshot.UsedMargin / snapshot.Equity * 100
	}
	return snapshot, nil
}

// CheckLimits evaluates the account against the hard limits. Utilization
// at or above 80% fails, as does an exhausted daily risk allowance.
func (g *Gate) CheckLimits(ctx context.Context, snapshot types.AccountSnapshot) (LimitsReport, error) {
	remaining, err := g.remainingDayRisk(ctx, snapshot.Equity)
	if err != nil {
		return LimitsReport{}, err
	}

	utilization := snapshot.MarginUtilizationPct
	if utilization == 0 && snapshot.Equity > 0 {
		utilization = snapshot.UsedMargin / snapshot.Equity * 100
	}

	return LimitsReport{
		WithinLimits:         utilization < marginFailPct && remaining > 0,
		HighUtilization:      utilization > marginWarnPct,
		MarginUtilizationPct: utilization,
		RemainingDayRisk:     remaining,
	}, nil
}

// Validate gates a trade request. Hard errors block execution; warnings
// accompany an otherwise valid result. Any hard error raises exactly one
// alert per validation call.
func (g *Gate) Validate(ctx context.Context, req TradeRequest) (ValidationResult, error) {
	snapshot, err := g.Snapshot(ctx)
	if err != nil {
		return ValidationResult{}, err
	}

	remaining, err := g.remainingDayRisk(ctx, snapshot.Equity)
	if err != nil {
		return ValidationResult{}, err
	}

	result := ValidationResult{}

	safeLeverage, err := g.sizer.SafeLeverage(req.EntryPrice, req.StopLossPrice)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
	} else if req.Leverage > safeLeverage {
		result.Errors = append(result.Errors,
			fmt.Sprintf("requested leverage %dx exceeds safe leverage %dx for this stop distance", req.Leverage, safeLeverage))
	}

	if snapshot.MarginUtilizationPct > marginWarnPct {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("margin utilization %.1f%% above %.0f%%", snapshot.MarginUtilizationPct, marginWarnPct))
	}

	if remaining < 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("daily loss limit exhausted: remaining day risk %.2f", remaining))
	}

	result.IsValid = len(result.Errors) == 0

	if !result.IsValid && g.alerter != nil {
		msg := fmt.Sprintf("Trade request for %s blocked by risk gate:", req.Symbol)
		for _, e := range result.Errors {
			msg += "\n- " + e
		}
		if err := g.alerter.SendAlert("error", msg); err != nil {
			// The validation verdict stands even when the alert channel is down.
			return result, nil
		}
	}

	return result, nil
}

// remainingDayRisk computes the daily loss headroom: the configured
// fraction of equity plus the day's net realized PnL. Gains widen the
// headroom, losses shrink it.
func (g *Gate) remainingDayRisk(ctx context.Context, equity float64) (float64, error) {
	netPnL, err := g.pnl.RealizedPnL(ctx, g.now())
	if err != nil {
		return 0, fmt.Errorf("failed to compute realized PnL: %w", err)
	}

	allowance := equity * g.budget.MaxDailyLossPct
	if netPnL >= 0 {
		return allowance + netPnL, nil
	}
	return allowance - math.Abs(netPnL), nil
}
