package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Timeout(t *testing.T) {
	err := Classify(errors.New("context deadline exceeded"), "exchange", "GetKlines")
	require.NotNil(t, err)
	assert.Equal(t, CategoryTimeout, err.Category)
	assert.True(t, err.Retryable())
}

func TestClassify_Network(t *testing.T) {
	err := Classify(errors.New("dial tcp: connection refused"), "exchange", "GetBalance")
	assert.Equal(t, CategoryNetwork, err.Category)
	assert.True(t, err.Retryable())
}

func TestClassify_Validation(t *testing.T) {
	err := Classify(errors.New("stop distance is zero"), "risk", "SafeLeverage")
	assert.Equal(t, CategoryValidation, err.Category)
	assert.False(t, err.Retryable())
}

func TestClassify_InsufficientData(t *testing.T) {
	err := Classify(errors.New("BTCUSDT: insufficient candle data: have 3, need 35"), "indicators", "Compute")
	assert.Equal(t, CategoryInsufficientData, err.Category)
	assert.True(t, IsInsufficientData(err))
}

func TestClassify_PassesThroughBotError(t *testing.T) {
	original := Wrap(errors.New("rejected"), CategoryOrder, "execution", "Submit")
	classified := Classify(fmt.Errorf("submit failed: %w", original), "bot", "approve")
	assert.Equal(t, CategoryOrder, classified.Category)
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CategoryOrder, "x", "y"))
	assert.Nil(t, Classify(nil, "x", "y"))
}

func TestBotError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, CategoryNetwork, "exchange", "fetch")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "NETWORK")
	assert.Contains(t, err.Error(), "root cause")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Wrap(errors.New("x"), CategoryNetwork, "a", "b")))
	assert.False(t, IsRetryable(Wrap(errors.New("x"), CategoryValidation, "a", "b")))
	assert.False(t, IsRetryable(errors.New("plain")))
}
