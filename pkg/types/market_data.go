package types

import "time"

// Candle is a single OHLCV bar. Sequences are ordered by ascending
// timestamp and treated as immutable once fetched.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

type Ticker struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp time.Time
}

// AccountSnapshot is a point-in-time view of the derivatives account.
// Fetched fresh per risk check, never cached across checks.
type AccountSnapshot struct {
	Equity               float64
	AvailableBalance     float64
	UsedMargin           float64
	MarginUtilizationPct float64
	Timestamp            time.Time
}
