package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/levanduc/crypto-signal-bot/internal/config"
	boterrors "github.com/levanduc/crypto-signal-bot/internal/errors"
	"github.com/levanduc/crypto-signal-bot/internal/exchange"
	"github.com/levanduc/crypto-signal-bot/internal/execution"
	"github.com/levanduc/crypto-signal-bot/internal/history"
	"github.com/levanduc/crypto-signal-bot/internal/indicators"
	"github.com/levanduc/crypto-signal-bot/internal/logger"
	"github.com/levanduc/crypto-signal-bot/internal/monitoring"
	"github.com/levanduc/crypto-signal-bot/internal/notifications"
	"github.com/levanduc/crypto-signal-bot/internal/reporting"
	"github.com/levanduc/crypto-signal-bot/internal/risk"
	"github.com/levanduc/crypto-signal-bot/internal/signal"
)

// Deps bundles the collaborators the bot is wired with at startup.
type Deps struct {
	Config    *config.Config
	Exchange  exchange.Exchange
	Store     *signal.Store
	Generator *signal.Generator
	Gate      *risk.Gate
	Engine    *execution.Engine
	Notifier  notifications.Notifier
	Commands  <-chan notifications.Command
	History   history.Store
	Reporter  *reporting.DailyReporter
	Exporter  *reporting.ExcelExporter
	Logger    *logger.Logger
	Health    *monitoring.HealthChecker
	Params    indicators.Params
}

// SignalBot owns the signal lifecycle. All state transitions for pending
// signals happen on the single Run goroutine: analysis proposes, operator
// commands approve or reject, the sweeper expires. Blocking I/O during an
// approval happens with the store unlocked, and the terminal Remove is
// only committed after the order is accepted.
type SignalBot struct {
	config    *config.Config
	exchange  exchange.Exchange
	store     *signal.Store
	generator *signal.Generator
	gate      *risk.Gate
	engine    *execution.Engine
	notifier  notifications.Notifier
	commands  <-chan notifications.Command
	history   history.Store
	reporter  *reporting.DailyReporter
	exporter  *reporting.ExcelExporter
	log       *logger.Logger
	health    *monitoring.HealthChecker
	params    indicators.Params

	lastReportDay string
	now           func() time.Time
}

// New assembles the bot from its dependencies.
func New(deps Deps) *SignalBot {
	return &SignalBot{
		config:    deps.Config,
		exchange:  deps.Exchange,
		store:     deps.Store,
		generator: deps.Generator,
		gate:      deps.Gate,
		engine:    deps.Engine,
		notifier:  deps.Notifier,
		commands:  deps.Commands,
		history:   deps.History,
		reporter:  deps.Reporter,
		exporter:  deps.Exporter,
		log:       deps.Logger,
		health:    deps.Health,
		params:    deps.Params,
		now:       time.Now,
	}
}

// Run drives the bot until the context is cancelled. One goroutine serves
// analysis, risk checks, sweeps, reports and operator commands, so no two
// resolutions of the same signal can interleave.
func (bot *SignalBot) Run(ctx context.Context) error {
	bot.log.Info("Bot starting with symbols: %s", strings.Join(bot.config.Trading.Symbols, ", "))
	if err := bot.notifier.SendAlert("success", fmt.Sprintf(
		"Signal bot started\nSymbols: %s\nAnalysis every %s",
		strings.Join(bot.config.Trading.Symbols, ", "), bot.config.Trading.AnalysisEvery)); err != nil {
		bot.log.LogError("Startup alert failed", err)
	}

	// First cycle runs immediately so a restart does not wait a full
	// analysis interval before proposing anything.
	bot.runAnalysis(ctx)
	bot.runRiskCheck(ctx)

	analysisTicker := time.NewTicker(bot.config.Trading.AnalysisEvery)
	defer analysisTicker.Stop()
	riskTicker := time.NewTicker(bot.config.Trading.RiskCheckEvery)
	defer riskTicker.Stop()
	sweepTicker := time.NewTicker(bot.config.Trading.SweepEvery)
	defer sweepTicker.Stop()
	reportTicker := time.NewTicker(time.Minute)
	defer reportTicker.Stop()

	commands := bot.commands

	for {
		select {
		case <-ctx.Done():
			bot.log.Info("Shutdown requested - stopping bot")
			if err := bot.notifier.SendAlert("info", "Signal bot stopped"); err != nil {
				bot.log.LogError("Shutdown alert failed", err)
			}
			return nil

		case <-analysisTicker.C:
			bot.runAnalysis(ctx)

		case <-riskTicker.C:
			bot.runRiskCheck(ctx)

		case <-sweepTicker.C:
			bot.runSweep()

		case <-reportTicker.C:
			bot.maybeDailyReport(ctx)

		case cmd, ok := <-commands:
			if !ok {
				// Listener exited; keep trading on timers only.
				bot.log.Warning("Command channel closed - operator commands disabled")
				commands = nil
				continue
			}
			bot.handleCommand(ctx, cmd)
		}
	}
}

// runAnalysis fetches candles and proposes signals for every configured
// symbol. A failure on one symbol never blocks the others.
func (bot *SignalBot) runAnalysis(ctx context.Context) {
	for _, symbol := range bot.config.Trading.Symbols {
		if err := bot.analyzeSymbol(ctx, symbol); err != nil {
			if boterrors.IsInsufficientData(err) {
				bot.log.Warning("Skipping %s this cycle: %v", symbol, err)
				continue
			}
			monitoring.RecordError(string(boterrors.CategoryNetwork))
			bot.log.LogError(fmt.Sprintf("Analysis failed for %s", symbol), err)
			bot.health.NoteError(fmt.Sprintf("analysis %s: %v", symbol, err))
		}
	}
}

func (bot *SignalBot) analyzeSymbol(ctx context.Context, symbol string) error {
	candles, err := bot.exchange.GetKlines(ctx, "linear", symbol, bot.config.Trading.Interval, bot.config.Trading.CandleLimit)
	if err != nil {
		bot.health.SetConnected(false)
		return fmt.Errorf("failed to fetch candles: %w", err)
	}
	bot.health.SetConnected(true)

	snapshot, err := indicators.Compute(symbol, candles, bot.params)
	if err != nil {
		return boterrors.Wrap(err, boterrors.CategoryInsufficientData, "bot", "analyze")
	}

	monitoring.UpdatePrice(symbol, snapshot.Price)
	bot.health.NotePrice(snapshot.Price)

	for _, sig := range bot.generator.Generate(snapshot) {
		bot.proposeSignal(sig)
	}
	return nil
}

// proposeSignal stores the signal and asks the operator for a decision.
func (bot *SignalBot) proposeSignal(sig signal.Signal) {
	bot.store.Put(sig)
	monitoring.RecordSignalProposed(sig.Symbol, string(sig.Strength))
	bot.health.NoteSignal(sig.CreatedAt)
	bot.log.LogSignalProposed(sig.ID, sig.Symbol, string(sig.Direction), string(sig.Strength), sig.Price, sig.SourceIndicators)

	if err := bot.notifier.SendAlert("signal", formatProposal(sig)); err != nil {
		bot.log.LogError("Signal proposal alert failed", err)
	}
}

func formatProposal(sig signal.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s %s signal on %s*\n\n", sig.Strength, sig.Direction, sig.Symbol)
	fmt.Fprintf(&b, "Price: $%.2f\n", sig.Price)
	fmt.Fprintf(&b, "Reason: %s\n", strings.Join(sig.SourceIndicators, "; "))
	fmt.Fprintf(&b, "Expires: %s\n\n", sig.ExpiresAt.UTC().Format("15:04:05 MST"))
	fmt.Fprintf(&b, "Reply `/approve %s` or `/reject %s`", sig.ID, sig.ID)
	return b.String()
}

// runRiskCheck refreshes account metrics and alerts on limit breaches.
func (bot *SignalBot) runRiskCheck(ctx context.Context) {
	snapshot, err := bot.gate.Snapshot(ctx)
	if err != nil {
		monitoring.RecordError(string(boterrors.CategoryNetwork))
		bot.log.LogError("Risk check snapshot failed", err)
		bot.health.SetConnected(false)
		return
	}
	bot.health.SetConnected(true)

	report, err := bot.gate.CheckLimits(ctx, snapshot)
	if err != nil {
		monitoring.RecordError(string(boterrors.CategoryNetwork))
		bot.log.LogError("Risk limit check failed", err)
		return
	}

	monitoring.UpdateMarginUtilization(report.MarginUtilizationPct)
	monitoring.UpdateRemainingDayRisk(report.RemainingDayRisk)

	switch {
	case !report.WithinLimits:
		msg := fmt.Sprintf("Risk limits breached\nMargin utilization: %.1f%%\nRemaining day risk: $%.2f\nNew approvals will be blocked.",
			report.MarginUtilizationPct, report.RemainingDayRisk)
		bot.log.Warning("Risk limits breached: utilization %.1f%%, remaining $%.2f",
			report.MarginUtilizationPct, report.RemainingDayRisk)
		if err := bot.notifier.SendAlert("error", msg); err != nil {
			bot.log.LogError("Risk alert failed", err)
		}
	case report.HighUtilization:
		msg := fmt.Sprintf("Margin utilization elevated: %.1f%%", report.MarginUtilizationPct)
		if err := bot.notifier.SendAlert("warning", msg); err != nil {
			bot.log.LogError("Risk alert failed", err)
		}
	}
}

// runSweep expires stale signals. Expiry is logged and counted; the
// proposal message already told the operator when the signal lapses.
func (bot *SignalBot) runSweep() {
	for _, sig := range bot.store.Sweep(bot.now()) {
		monitoring.RecordSignalResolved("expired")
		bot.log.LogSignalResolved(sig.ID, "expired")
	}
}

func (bot *SignalBot) handleCommand(ctx context.Context, cmd notifications.Command) {
	switch cmd.Kind {
	case notifications.CommandApprove:
		bot.handleApprove(ctx, cmd.SignalID)
	case notifications.CommandReject:
		bot.handleReject(cmd.SignalID)
	case notifications.CommandTest:
		bot.handleTest(ctx)
	}
}

// handleApprove runs the full gate-and-execute path. The signal stays
// pending through every failure mode so the operator can retry; Remove is
// committed only after the venue accepted the order.
func (bot *SignalBot) handleApprove(ctx context.Context, id string) {
	sig, ok := bot.store.Get(id)
	if !ok {
		bot.notify("warning", fmt.Sprintf("Signal `%s` not found or already resolved.", id))
		return
	}
	if sig.Expired(bot.now()) {
		if bot.store.Remove(id) {
			monitoring.RecordSignalResolved("expired")
			bot.log.LogSignalResolved(id, "expired")
		}
		bot.notify("warning", fmt.Sprintf("Signal `%s` expired before approval.", id))
		return
	}

	snapshot, err := bot.gate.Snapshot(ctx)
	if err != nil {
		monitoring.RecordError(string(boterrors.CategoryNetwork))
		bot.log.LogError("Approval snapshot failed", err)
		bot.notify("error", fmt.Sprintf("Could not fetch account state for `%s`: %v\nSignal is still pending.", id, err))
		return
	}

	intent, err := bot.engine.BuildOrder(sig, snapshot)
	if err != nil {
		monitoring.RecordError(string(boterrors.CategoryValidation))
		bot.log.LogError("Order build failed", err)
		bot.notify("error", fmt.Sprintf("Could not build order for `%s`: %v\nSignal is still pending.", id, err))
		return
	}

	verdict, err := bot.gate.Validate(ctx, risk.TradeRequest{
		Symbol:        intent.Symbol,
		Side:          intent.Side,
		EntryPrice:    intent.EntryPrice,
		StopLossPrice: intent.StopLossPrice,
		Leverage:      intent.Leverage,
	})
	if err != nil {
		monitoring.RecordError(string(boterrors.CategoryNetwork))
		bot.log.LogError("Risk validation failed", err)
		bot.notify("error", fmt.Sprintf("Risk validation errored for `%s`: %v\nSignal is still pending.", id, err))
		return
	}
	if !verdict.IsValid {
		// The gate already alerted with the violation details.
		monitoring.RecordError(string(boterrors.CategoryValidation))
		bot.log.Warning("Approval of %s blocked: %s", id, strings.Join(verdict.Errors, "; "))
		return
	}
	for _, w := range verdict.Warnings {
		bot.notify("warning", w)
	}

	result, err := bot.engine.Submit(ctx, intent)
	if err != nil {
		monitoring.RecordError(string(boterrors.CategoryOrder))
		bot.log.LogError("Order submission failed", err)
		bot.notify("error", fmt.Sprintf("Order submission failed for `%s`: %v\nSignal is still pending, approve again to retry.", id, err))
		return
	}

	if !bot.store.Remove(id) {
		// Order is live but the signal was resolved underneath us.
		bot.log.Warning("Signal %s resolved during submission, order %s already placed", id, result.OrderID)
	}
	monitoring.RecordSignalResolved("approved")
	monitoring.RecordOrderSubmitted(intent.Symbol, intent.Side)
	bot.log.LogSignalResolved(id, "approved")
	bot.log.LogOrderExecution(result.OrderID, intent.Symbol, intent.Side, intent.Profile,
		intent.Quantity, intent.EntryPrice, intent.StopLossPrice, intent.TakeProfitPrice, intent.Leverage)

	executedAt := bot.now().UTC()
	if err := bot.history.Record(ctx, history.Trade{
		SignalID:   id,
		OrderID:    result.OrderID,
		Symbol:     intent.Symbol,
		Side:       intent.Side,
		Profile:    intent.Profile,
		Quantity:   intent.Quantity,
		Leverage:   intent.Leverage,
		EntryPrice: intent.EntryPrice,
		StopLoss:   intent.StopLossPrice,
		TakeProfit: intent.TakeProfitPrice,
		RiskAmount: intent.RiskAmount,
		ExecutedAt: executedAt,
	}); err != nil {
		bot.log.LogError("Trade history record failed", err)
	}

	bot.notify("success", fmt.Sprintf(
		"Order executed for `%s`\n%s %s (%s)\nQty: %.6f @ $%.2f\nStop: $%.2f | Target: $%.2f | Leverage: %dx\nRisk: $%.2f",
		id, intent.Side, intent.Symbol, intent.Profile,
		intent.Quantity, intent.EntryPrice, intent.StopLossPrice, intent.TakeProfitPrice,
		intent.Leverage, intent.RiskAmount))
}

// handleReject resolves the signal without trading. Rejecting twice, or
// rejecting an expired signal, reports not found.
func (bot *SignalBot) handleReject(id string) {
	if !bot.store.Remove(id) {
		bot.notify("warning", fmt.Sprintf("Signal `%s` not found or already resolved.", id))
		return
	}
	monitoring.RecordSignalResolved("rejected")
	bot.log.LogSignalResolved(id, "rejected")
	bot.notify("info", fmt.Sprintf("Signal `%s` rejected.", id))
}

// handleTest answers the operator's liveness probe with current state.
func (bot *SignalBot) handleTest(ctx context.Context) {
	msg := fmt.Sprintf("Bot is alive\nPending signals: %d", bot.store.Len())
	if snapshot, err := bot.gate.Snapshot(ctx); err == nil {
		msg += fmt.Sprintf("\nEquity: $%.2f\nMargin utilization: %.1f%%",
			snapshot.Equity, snapshot.MarginUtilizationPct)
	}
	bot.notify("info", msg)
}

// maybeDailyReport publishes the previous day's summary once per day at
// the configured UTC hour.
func (bot *SignalBot) maybeDailyReport(ctx context.Context) {
	now := bot.now().UTC()
	if now.Hour() != bot.config.Trading.DailyReportAt {
		return
	}
	day := now.Format("2006-01-02")
	if day == bot.lastReportDay {
		return
	}
	bot.lastReportDay = day

	reportFor := now.Add(-24 * time.Hour)
	summary, err := bot.reporter.Summarize(ctx, reportFor)
	if err != nil {
		bot.log.LogError("Daily report failed", err)
		return
	}
	bot.reporter.PrintConsole(summary)
	bot.notify("info", bot.reporter.FormatMessage(summary))

	if bot.exporter != nil {
		path := reporting.DefaultExportPath(reportFor)
		if err := bot.exporter.ExportDay(ctx, reportFor, path); err != nil {
			bot.log.LogError("Trade export failed", err)
		} else {
			bot.log.Info("Exported trades to %s", path)
		}
	}
}

func (bot *SignalBot) notify(level, message string) {
	if err := bot.notifier.SendAlert(level, message); err != nil {
		bot.log.LogError("Alert delivery failed", err)
	}
}
