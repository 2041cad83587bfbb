package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger represents a file logger for signal and trading activity
type Logger struct {
	symbols []string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
	logDir  string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelSignal  LogLevel = "SIGNAL"
	LogLevelTrade   LogLevel = "TRADE"
)

// NewLogger creates a new file logger covering the given symbols
func NewLogger(symbols []string) (*Logger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("signals_%s.log", timestamp)
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		symbols: symbols,
		logFile: file,
		logger:  log.New(file, "", 0),
		logDir:  logDir,
	}

	l.writeSessionHeader()

	return l, nil
}

// NewDiscardLogger returns a logger that drops every entry.
func NewDiscardLogger() *Logger {
	return &Logger{logger: log.New(io.Discard, "", 0)}
}

// writeSessionHeader writes a session start header to the log
func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 SIGNAL TRADING SESSION STARTED
================================================================================
Symbols: %s
Started: %s
================================================================================
`, strings.Join(l.symbols, ", "), time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level, message))
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Signal logs a signal lifecycle event
func (l *Logger) Signal(format string, args ...interface{}) {
	l.Log(LogLevelSignal, format, args...)
}

// Trade logs a trading action
func (l *Logger) Trade(format string, args ...interface{}) {
	l.Log(LogLevelTrade, format, args...)
}

// LogSignalProposed logs a newly generated signal awaiting approval
func (l *Logger) LogSignalProposed(id, symbol, direction, strength string, price float64, sources []string) {
	l.Signal("Proposed %s %s %s @ $%.2f [%s] id=%s",
		strength, direction, symbol, price, strings.Join(sources, ", "), id)
}

// LogSignalResolved logs a signal leaving the pending set
func (l *Logger) LogSignalResolved(id, outcome string) {
	l.Signal("Resolved id=%s outcome=%s", id, outcome)
}

// LogOrderExecution logs an executed order
func (l *Logger) LogOrderExecution(orderID, symbol, side, profile string, qty, entry, stop, target float64, leverage int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	tradeLog := fmt.Sprintf(`
[%s] [TRADE] ==================== ORDER EXECUTED ====================
✅ Order ID: %s
📊 %s %s (%s)
📦 Quantity: %.6f
💰 Entry: $%.2f | Stop: $%.2f | Target: $%.2f
⚖️ Leverage: %dx
=============================================================`,
		timestamp, orderID, side, symbol, profile, qty, entry, stop, target, leverage)

	l.logger.Println(tradeLog)
}

// LogError logs an error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		footer := fmt.Sprintf(`
================================================================================
🛑 SIGNAL TRADING SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, timestamp)
		l.logger.Print(footer)

		return l.logFile.Close()
	}
	return nil
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	timestamp := time.Now().Format("2006-01-02")
	return filepath.Join(l.logDir, fmt.Sprintf("signals_%s.log", timestamp))
}
