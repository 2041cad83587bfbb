package signal

import "time"

// Direction is the side of a proposed trade.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Strength grades how decisive the triggering rule is.
type Strength string

const (
	StrengthWeak     Strength = "WEAK"
	StrengthModerate Strength = "MODERATE"
	StrengthStrong   Strength = "STRONG"
)

// Signal is a proposed directional trade awaiting a human decision. It is
// owned exclusively by the Store from Put until it is resolved or expires.
type Signal struct {
	ID               string
	Symbol           string
	Direction        Direction
	Strength         Strength
	Price            float64
	SourceIndicators []string
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// Expired reports whether the signal's TTL has elapsed at the given instant.
func (s Signal) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
