package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment string
	LogLevel    string

	Exchange struct {
		APIKey  string
		Secret  string
		Testnet bool
		Demo    bool
	}

	Trading struct {
		Symbols         []string
		Interval        string
		CandleLimit     int
		AnalysisEvery   time.Duration
		RiskCheckEvery  time.Duration
		SweepEvery      time.Duration
		DailyReportAt   int // UTC hour
		SignalTTL       time.Duration
	}

	Risk struct {
		MaxPositionSizePct float64
		MaxDailyLossPct    float64
		MaxLeverage        int
		RiskPerTradePct    float64
	}

	Monitoring struct {
		PrometheusPort int
		HealthPort     int
	}

	Notifications struct {
		TelegramToken  string
		TelegramChatID string
		PollTimeoutSec int
	}

	History struct {
		PostgresDSN string
	}
}

func Load() *Config {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	cfg.Exchange.APIKey = getEnv("BYBIT_API_KEY", "")
	cfg.Exchange.Secret = getEnv("BYBIT_API_SECRET", "")
	cfg.Exchange.Testnet = getEnvBool("BYBIT_TESTNET", false)
	cfg.Exchange.Demo = getEnvBool("BYBIT_DEMO", true)

	cfg.Trading.Symbols = getEnvList("TRADING_SYMBOLS", []string{"BTCUSDT"})
	cfg.Trading.Interval = getEnv("TRADING_INTERVAL", "60")
	cfg.Trading.CandleLimit = getEnvInt("CANDLE_LIMIT", 100)
	cfg.Trading.AnalysisEvery = getEnvDuration("ANALYSIS_EVERY", time.Hour)
	cfg.Trading.RiskCheckEvery = getEnvDuration("RISK_CHECK_EVERY", 15*time.Minute)
	cfg.Trading.SweepEvery = getEnvDuration("SWEEP_EVERY", time.Minute)
	cfg.Trading.DailyReportAt = getEnvInt("DAILY_REPORT_HOUR_UTC", 0)
	// Unresolved signals live for one analysis cycle by default.
	cfg.Trading.SignalTTL = getEnvDuration("SIGNAL_TTL", cfg.Trading.AnalysisEvery)

	cfg.Risk.MaxPositionSizePct = getEnvFloat("MAX_POSITION_SIZE_PCT", 0.10)
	cfg.Risk.MaxDailyLossPct = getEnvFloat("MAX_DAILY_LOSS_PCT", 0.05)
	cfg.Risk.MaxLeverage = getEnvInt("MAX_LEVERAGE", 10)
	cfg.Risk.RiskPerTradePct = getEnvFloat("RISK_PER_TRADE_PCT", 0.02)

	cfg.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 8080)
	cfg.Monitoring.HealthPort = getEnvInt("HEALTH_PORT", 8081)

	cfg.Notifications.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Notifications.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", "")
	cfg.Notifications.PollTimeoutSec = getEnvInt("TELEGRAM_POLL_TIMEOUT", 30)

	cfg.History.PostgresDSN = getEnv("POSTGRES_DSN", "")

	return cfg
}

// Validate checks the parts of the configuration that would otherwise fail
// deep inside a trading cycle.
func (c *Config) Validate() error {
	if len(c.Trading.Symbols) == 0 {
		return fmt.Errorf("at least one trading symbol is required")
	}
	if c.Risk.MaxLeverage < 1 {
		return fmt.Errorf("MAX_LEVERAGE must be >= 1, got %d", c.Risk.MaxLeverage)
	}
	if c.Risk.RiskPerTradePct <= 0 || c.Risk.RiskPerTradePct >= 1 {
		return fmt.Errorf("RISK_PER_TRADE_PCT must be in (0, 1), got %v", c.Risk.RiskPerTradePct)
	}
	if c.Risk.MaxPositionSizePct <= 0 || c.Risk.MaxPositionSizePct > 1 {
		return fmt.Errorf("MAX_POSITION_SIZE_PCT must be in (0, 1], got %v", c.Risk.MaxPositionSizePct)
	}
	if c.Risk.MaxDailyLossPct <= 0 || c.Risk.MaxDailyLossPct >= 1 {
		return fmt.Errorf("MAX_DAILY_LOSS_PCT must be in (0, 1), got %v", c.Risk.MaxDailyLossPct)
	}
	if c.Trading.SignalTTL <= 0 {
		return fmt.Errorf("SIGNAL_TTL must be positive, got %v", c.Trading.SignalTTL)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
