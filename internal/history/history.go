package history

import (
	"context"
	"time"
)

// Trade is one append-only record of an executed order. Realized PnL is
// filled in when the position closes; open trades carry zero.
type Trade struct {
	ID          int64      `db:"id"`
	SignalID    string     `db:"signal_id"`
	OrderID     string     `db:"order_id"`
	Symbol      string     `db:"symbol"`
	Side        string     `db:"side"`
	Profile     string     `db:"profile"`
	Quantity    float64    `db:"quantity"`
	Leverage    int        `db:"leverage"`
	EntryPrice  float64    `db:"entry_price"`
	StopLoss    float64    `db:"stop_loss"`
	TakeProfit  float64    `db:"take_profit"`
	RiskAmount  float64    `db:"risk_amount"`
	RealizedPnL float64    `db:"realized_pnl"`
	ExecutedAt  time.Time  `db:"executed_at"`
	ClosedAt    *time.Time `db:"closed_at"`
}

// Store is the append-only trade record. The daily risk ledger is never
// kept as separate state: it is recomputed from here on every check.
type Store interface {
	// Record appends a completed execution.
	Record(ctx context.Context, trade Trade) error

	// RealizedPnL returns the net realized PnL of trades closed on the
	// trading day containing the given instant (UTC day boundary).
	RealizedPnL(ctx context.Context, day time.Time) (float64, error)

	// TradesOn returns the trades executed on the given UTC day,
	// ascending by execution time.
	TradesOn(ctx context.Context, day time.Time) ([]Trade, error)
}

// dayBounds returns the UTC [start, end) interval of the day containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	utc := t.UTC()
	start := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
