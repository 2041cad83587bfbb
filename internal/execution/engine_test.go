package execution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levanduc/crypto-signal-bot/internal/exchange"
	"github.com/levanduc/crypto-signal-bot/internal/risk"
	"github.com/levanduc/crypto-signal-bot/internal/signal"
	"github.com/levanduc/crypto-signal-bot/pkg/types"
)

type fakeExchange struct {
	placedOrders  []exchange.OrderRequest
	leverageCalls []int
	placeErr      error
	leverageErr   error
}

func (f *fakeExchange) GetName() string { return "fake" }

func (f *fakeExchange) GetKlines(ctx context.Context, category, symbol, interval string, limit int) ([]types.Candle, error) {
	return nil, nil
}

func (f *fakeExchange) GetLatestPrice(ctx context.Context, category, symbol string) (float64, error) {
	return 0, nil
}

func (f *fakeExchange) AccountSnapshot(ctx context.Context) (types.AccountSnapshot, error) {
	return types.AccountSnapshot{}, nil
}

func (f *fakeExchange) SetLeverage(ctx context.Context, category, symbol string, leverage int) error {
	f.leverageCalls = append(f.leverageCalls, leverage)
	return f.leverageErr
}

func (f *fakeExchange) PlaceMarketOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.OrderResult, error) {
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	f.placedOrders = append(f.placedOrders, req)
	return &exchange.OrderResult{OrderID: "order-123"}, nil
}

func testSizer() *risk.Sizer {
	return risk.NewSizer(risk.Budget{
		MaxPositionSizePct: 0.10,
		MaxDailyLossPct:    0.05,
		MaxLeverage:        10,
		RiskPerTradePct:    0.02,
	})
}

func strongBuySignal() signal.Signal {
	now := time.Now()
	return signal.Signal{
		ID:        "sig-1",
		Symbol:    "BTCUSDT",
		Direction: signal.DirectionBuy,
		Strength:  signal.StrengthStrong,
		Price:     100,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestBuildOrder_IntradayProfile(t *testing.T) {
	engine := NewEngine(&fakeExchange{}, testSizer(), NewStrengthRouter())
	account := types.AccountSnapshot{Equity: 10000}

	intent, err := engine.BuildOrder(strongBuySignal(), account)
	require.NoError(t, err)

	assert.Equal(t, "Buy", intent.Side)
	assert.Equal(t, "linear", intent.Category)
	assert.Equal(t, "leveraged-intraday", intent.Profile)
	// 2% stop on a 100 entry.
	assert.InDelta(t, 98.0, intent.StopLossPrice, 1e-9)
	// target = entry + stop distance * 2.
	assert.InDelta(t, 104.0, intent.TakeProfitPrice, 1e-9)
	// floor(1/0.02) = 50, capped at 10.
	assert.Equal(t, 10, intent.Leverage)
	// risk 200 / distance 2 = 100, capped at 10000*0.10/100 = 10.
	assert.InDelta(t, 10.0, intent.Quantity, 1e-9)
	assert.InDelta(t, 200.0, intent.RiskAmount, 1e-9)
}

func TestBuildOrder_SwingProfileForModerate(t *testing.T) {
	engine := NewEngine(&fakeExchange{}, testSizer(), NewStrengthRouter())
	account := types.AccountSnapshot{Equity: 10000}

	sig := strongBuySignal()
	sig.Strength = signal.StrengthModerate
	sig.Direction = signal.DirectionSell

	intent, err := engine.BuildOrder(sig, account)
	require.NoError(t, err)

	assert.Equal(t, "Sell", intent.Side)
	assert.Equal(t, "spot", intent.Category)
	assert.Equal(t, 1, intent.Leverage)
	// 5% stop above entry for a sell.
	assert.InDelta(t, 105.0, intent.StopLossPrice, 1e-9)
	// target = entry - 5 * 3.
	assert.InDelta(t, 85.0, intent.TakeProfitPrice, 1e-9)
}

func TestBuildOrder_RejectsZeroPrice(t *testing.T) {
	engine := NewEngine(&fakeExchange{}, testSizer(), NewStrengthRouter())

	sig := strongBuySignal()
	sig.Price = 0
	_, err := engine.BuildOrder(sig, types.AccountSnapshot{Equity: 1000})
	assert.Error(t, err)
}

func TestSubmit_SetsLeverageThenPlaces(t *testing.T) {
	fake := &fakeExchange{}
	engine := NewEngine(fake, testSizer(), NewStrengthRouter())

	intent, err := engine.BuildOrder(strongBuySignal(), types.AccountSnapshot{Equity: 10000})
	require.NoError(t, err)

	result, err := engine.Submit(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, "order-123", result.OrderID)

	require.Len(t, fake.leverageCalls, 1)
	assert.Equal(t, 10, fake.leverageCalls[0])

	require.Len(t, fake.placedOrders, 1)
	placed := fake.placedOrders[0]
	assert.Equal(t, "BTCUSDT", placed.Symbol)
	assert.Equal(t, "98.00", placed.StopLoss)
	assert.Equal(t, "104.00", placed.TakeProfit)
}

func TestSubmit_SpotSkipsLeverage(t *testing.T) {
	fake := &fakeExchange{}
	engine := NewEngine(fake, testSizer(), NewStrengthRouter())

	sig := strongBuySignal()
	sig.Strength = signal.StrengthWeak
	intent, err := engine.BuildOrder(sig, types.AccountSnapshot{Equity: 10000})
	require.NoError(t, err)

	_, err = engine.Submit(context.Background(), intent)
	require.NoError(t, err)
	assert.Empty(t, fake.leverageCalls)
}

func TestSubmit_FailureCarriesIntent(t *testing.T) {
	fake := &fakeExchange{placeErr: errors.New("venue unavailable")}
	engine := NewEngine(fake, testSizer(), NewStrengthRouter())

	intent, err := engine.BuildOrder(strongBuySignal(), types.AccountSnapshot{Equity: 10000})
	require.NoError(t, err)

	_, err = engine.Submit(context.Background(), intent)
	require.Error(t, err)

	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, "BTCUSDT", submitErr.Intent.Symbol)
	assert.Contains(t, submitErr.Error(), "venue unavailable")
}

func TestSubmit_LeverageFailureCarriesIntent(t *testing.T) {
	fake := &fakeExchange{leverageErr: errors.New("leverage not modified")}
	engine := NewEngine(fake, testSizer(), NewStrengthRouter())

	intent, err := engine.BuildOrder(strongBuySignal(), types.AccountSnapshot{Equity: 10000})
	require.NoError(t, err)

	_, err = engine.Submit(context.Background(), intent)
	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Empty(t, fake.placedOrders)
}
