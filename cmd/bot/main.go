package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/joho/godotenv"

	"github.com/levanduc/crypto-signal-bot/internal/bot"
	"github.com/levanduc/crypto-signal-bot/internal/config"
	"github.com/levanduc/crypto-signal-bot/internal/exchange"
	"github.com/levanduc/crypto-signal-bot/internal/exchange/bybit"
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

func main() {
	envFile := flag.String("env", ".env", "Environment file path (default: .env)")
	exportDay := flag.String("export", "", "Export trades for a day (YYYY-MM-DD) to xlsx and exit")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("Warning: Could not load %s (%v), using environment variables...", *envFile, err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *exportDay != "" {
		if err := runExport(cfg, *exportDay); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

	fmt.Println("🚀 Signal Bot Starting...")

	fileLogger, err := logger.NewLogger(cfg.Trading.Symbols)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer fileLogger.Close()

	exch := bybit.NewClient(bybit.Config{
		APIKey:    cfg.Exchange.APIKey,
		APISecret: cfg.Exchange.Secret,
		Testnet:   cfg.Exchange.Testnet,
		Demo:      cfg.Exchange.Demo,
	})

	hist, err := buildHistoryStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open trade history store: %v", err)
	}

	notifier := buildNotifier(cfg)

	budget := risk.Budget{
		MaxPositionSizePct: cfg.Risk.MaxPositionSizePct,
		MaxDailyLossPct:    cfg.Risk.MaxDailyLossPct,
		MaxLeverage:        cfg.Risk.MaxLeverage,
		RiskPerTradePct:    cfg.Risk.RiskPerTradePct,
	}

	health := monitoring.NewHealthChecker()
	startHTTPServers(cfg, health)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Inbound operator commands arrive over Telegram long polling. With no
	// token configured the channel stays open but silent, and the bot runs
	// on timers alone.
	var commands <-chan notifications.Command
	if cfg.Notifications.TelegramToken != "" {
		listener := notifications.NewCommandListener(
			cfg.Notifications.TelegramToken,
			cfg.Notifications.TelegramChatID,
			cfg.Notifications.PollTimeoutSec,
		)
		go listener.Run(ctx)
		commands = listener.Commands()
	} else {
		log.Println("No Telegram token configured: approvals are unavailable, signals will expire")
		commands = make(chan notifications.Command)
	}

	// Live price stream feeds the health endpoint and the price gauge
	// between analysis cycles.
	stream := exchange.NewPriceStream(cfg.Trading.Symbols, func(symbol string, price float64) {
		monitoring.UpdatePrice(symbol, price)
		health.NotePrice(price)
	})
	go stream.Run(ctx)

	signalBot := bot.New(bot.Deps{
		Config:    cfg,
		Exchange:  exch,
		Store:     signal.NewStore(),
		Generator: signal.NewGenerator(cfg.Trading.SignalTTL),
		Gate:      risk.NewGate(budget, exch, hist, notifier),
		Engine:    execution.NewEngine(exch, risk.NewSizer(budget), execution.NewStrengthRouter()),
		Notifier:  notifier,
		Commands:  commands,
		History:   hist,
		Reporter:  reporting.NewDailyReporter(hist),
		Exporter:  reporting.NewExcelExporter(hist),
		Logger:    fileLogger,
		Health:    health,
		Params:    indicators.DefaultParams(),
	})

	printStartupInfo(cfg, exch.GetName())

	done := make(chan error, 1)
	go func() {
		done <- signalBot.Run(ctx)
	}()

	fmt.Printf("📝 Activity logs: %s\n", fileLogger.GetLogPath())
	fmt.Println("🔄 Bot is running... (Ctrl+C to stop)")

	sigChan := make(chan os.Signal, 1)
	ossignal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		fmt.Println("\n🛑 Shutdown signal received...")
		cancel()
		select {
		case <-done:
		case <-time.After(15 * time.Second):
			fmt.Println("⚠️ Shutdown timed out - forcing exit")
		}
	case err := <-done:
		if err != nil {
			log.Fatalf("Bot exited with error: %v", err)
		}
	}

	fmt.Println("✅ Bot stopped")
}

// printStartupInfo prints the effective configuration
func printStartupInfo(cfg *config.Config, exchangeName string) {
	environment := "mainnet (live trading)"
	switch {
	case cfg.Exchange.Demo:
		environment = "demo (paper trading)"
	case cfg.Exchange.Testnet:
		environment = "testnet"
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BOT CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📊 Symbols", strings.Join(cfg.Trading.Symbols, ", ")},
		{"⏰ Interval", cfg.Trading.Interval},
		{"🏪 Exchange", exchangeName},
		{"🔧 Environment", environment},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"🎯 Risk / Trade", fmt.Sprintf("%.2f%%", cfg.Risk.RiskPerTradePct*100)},
		{"📉 Max Daily Loss", fmt.Sprintf("%.2f%%", cfg.Risk.MaxDailyLossPct*100)},
		{"📏 Max Position", fmt.Sprintf("%.2f%%", cfg.Risk.MaxPositionSizePct*100)},
		{"⚖️ Max Leverage", fmt.Sprintf("%dx", cfg.Risk.MaxLeverage)},
		{"⏳ Signal TTL", cfg.Trading.SignalTTL.String()},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// runExport writes one day's trades to xlsx without starting the bot.
func runExport(cfg *config.Config, day string) error {
	parsed, err := time.Parse("2006-01-02", day)
	if err != nil {
		return fmt.Errorf("invalid export day %q: %w", day, err)
	}

	hist, err := buildHistoryStore(cfg)
	if err != nil {
		return err
	}

	path := reporting.DefaultExportPath(parsed)
	if err := reporting.NewExcelExporter(hist).ExportDay(context.Background(), parsed, path); err != nil {
		return err
	}
	fmt.Printf("✅ Trades exported to %s\n", path)
	return nil
}

func buildHistoryStore(cfg *config.Config) (history.Store, error) {
	if cfg.History.PostgresDSN == "" {
		log.Println("No POSTGRES_DSN configured: trade history is in-memory only")
		return history.NewMemoryStore(), nil
	}
	return history.NewPostgresStore(cfg.History.PostgresDSN)
}

func buildNotifier(cfg *config.Config) notifications.Notifier {
	if cfg.Notifications.TelegramToken == "" || cfg.Notifications.TelegramChatID == "" {
		log.Println("No Telegram credentials configured: alerts go to the process log")
		return &notifications.LogNotifier{Printf: log.Printf}
	}
	return notifications.NewTelegramNotifier(cfg.Notifications.TelegramToken, cfg.Notifications.TelegramChatID)
}

func startHTTPServers(cfg *config.Config, health *monitoring.HealthChecker) {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", monitoring.NewMetricsHandler())
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
		if err := http.ListenAndServe(addr, metricsMux); err != nil {
			log.Printf("Metrics server stopped: %v", err)
		}
	}()

	healthMux := http.NewServeMux()
	healthMux.Handle("/health", health)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Monitoring.HealthPort)
		if err := http.ListenAndServe(addr, healthMux); err != nil {
			log.Printf("Health server stopped: %v", err)
		}
	}()
}
