package exchange

import (
	"context"

	"github.com/levanduc/crypto-signal-bot/pkg/types"
)

// OrderRequest is the venue-level order the execution engine submits.
// Quantities and prices travel as strings, matching the Bybit v5 API.
type OrderRequest struct {
	Category   string // "linear" or "spot"
	Symbol     string
	Side       string // "Buy" or "Sell"
	Qty        string
	TakeProfit string
	StopLoss   string
}

// OrderResult is the venue acknowledgement of a submitted order.
type OrderResult struct {
	OrderID     string
	OrderLinkID string
}

// Exchange is the market data and order submission transport.
type Exchange interface {
	GetName() string

	// Market data
	GetKlines(ctx context.Context, category, symbol, interval string, limit int) ([]types.Candle, error)
	GetLatestPrice(ctx context.Context, category, symbol string) (float64, error)

	// Account
	AccountSnapshot(ctx context.Context) (types.AccountSnapshot, error)

	// Trading
	SetLeverage(ctx context.Context, category, symbol string, leverage int) error
	PlaceMarketOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}
