package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedTrade(symbol string, pnl float64, closedAt time.Time) Trade {
	return Trade{
		SignalID:    "sig",
		OrderID:     "ord",
		Symbol:      symbol,
		Side:        "Buy",
		Profile:     "leveraged-intraday",
		Quantity:    1,
		Leverage:    5,
		EntryPrice:  100,
		RealizedPnL: pnl,
		ExecutedAt:  closedAt.Add(-time.Hour),
		ClosedAt:    &closedAt,
	}
}

func TestMemoryStore_RealizedPnLPerDay(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	today := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	yesterday := today.Add(-24 * time.Hour)

	require.NoError(t, store.Record(ctx, closedTrade("BTCUSDT", -30, today)))
	require.NoError(t, store.Record(ctx, closedTrade("ETHUSDT", 10, today)))
	require.NoError(t, store.Record(ctx, closedTrade("BTCUSDT", -500, yesterday)))

	pnl, err := store.RealizedPnL(ctx, today)
	require.NoError(t, err)
	// Yesterday's loss does not leak into today's ledger.
	assert.InDelta(t, -20.0, pnl, 1e-9)

	pnl, err = store.RealizedPnL(ctx, yesterday)
	require.NoError(t, err)
	assert.InDelta(t, -500.0, pnl, 1e-9)
}

func TestMemoryStore_OpenTradesExcludedFromPnL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	open := Trade{Symbol: "BTCUSDT", ExecutedAt: now, RealizedPnL: 999}
	require.NoError(t, store.Record(ctx, open))

	pnl, err := store.RealizedPnL(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, pnl)
}

func TestMemoryStore_TradesOnSortedAndBounded(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	late := Trade{Symbol: "ETHUSDT", ExecutedAt: day.Add(18 * time.Hour)}
	early := Trade{Symbol: "BTCUSDT", ExecutedAt: day.Add(2 * time.Hour)}
	otherDay := Trade{Symbol: "SOLUSDT", ExecutedAt: day.Add(30 * time.Hour)}

	require.NoError(t, store.Record(ctx, late))
	require.NoError(t, store.Record(ctx, early))
	require.NoError(t, store.Record(ctx, otherDay))

	trades, err := store.TradesOn(ctx, day.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "BTCUSDT", trades[0].Symbol)
	assert.Equal(t, "ETHUSDT", trades[1].Symbol)
}

func TestMemoryStore_AssignsIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Record(ctx, Trade{Symbol: "BTCUSDT", ExecutedAt: now}))
	require.NoError(t, store.Record(ctx, Trade{Symbol: "BTCUSDT", ExecutedAt: now}))

	trades, err := store.TradesOn(ctx, now)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.NotEqual(t, trades[0].ID, trades[1].ID)
}
