package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies a failure so call sites can decide between retry,
// surface, and skip without string matching.
type Category string

const (
	// Fatal to the single operation, never retried.
	CategoryValidation Category = "VALIDATION"
	// Transient transport failures: balance fetch, candle fetch, order
	// submission. Reported upward; the orchestrator decides whether to
	// notify and leave the signal pending.
	CategoryNetwork Category = "NETWORK"
	CategoryTimeout Category = "TIMEOUT"
	// Order placement rejected by the venue.
	CategoryOrder Category = "ORDER"
	// Too few candles for the indicator windows; the symbol is skipped
	// for the cycle, other symbols are unaffected.
	CategoryInsufficientData Category = "INSUFFICIENT_DATA"
	CategoryConfiguration    Category = "CONFIG"
)

// BotError carries the failure category alongside the wrapped cause.
type BotError struct {
	Category   Category
	Component  string
	Operation  string
	Underlying error
}

func (e *BotError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Component, e.Operation, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Component, e.Operation)
}

func (e *BotError) Unwrap() error {
	return e.Underlying
}

// Retryable reports whether a later attempt could succeed.
func (e *BotError) Retryable() bool {
	switch e.Category {
	case CategoryNetwork, CategoryTimeout:
		return true
	default:
		return false
	}
}

// Wrap attaches a category and origin to an existing error.
func Wrap(err error, category Category, component, operation string) *BotError {
	if err == nil {
		return nil
	}
	return &BotError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Underlying: err,
	}
}

// Classify buckets a generic collaborator error by inspecting its text.
// Already-classified errors pass through unchanged.
func Classify(err error, component, operation string) *BotError {
	if err == nil {
		return nil
	}

	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "context deadline exceeded"):
		return Wrap(err, CategoryTimeout, component, operation)
	case strings.Contains(msg, "connection"), strings.Contains(msg, "dial"),
		strings.Contains(msg, "network"), strings.Contains(msg, "eof"):
		return Wrap(err, CategoryNetwork, component, operation)
	case strings.Contains(msg, "insufficient candle data"):
		return Wrap(err, CategoryInsufficientData, component, operation)
	case strings.Contains(msg, "invalid"), strings.Contains(msg, "stop distance"),
		strings.Contains(msg, "must be"):
		return Wrap(err, CategoryValidation, component, operation)
	default:
		return Wrap(err, CategoryNetwork, component, operation)
	}
}

// IsRetryable reports whether the error, once classified, is transient.
func IsRetryable(err error) bool {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.Retryable()
	}
	return false
}

// IsInsufficientData reports whether the error marks a skipped analysis
// cycle rather than a real failure.
func IsInsufficientData(err error) bool {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.Category == CategoryInsufficientData
	}
	return false
}
