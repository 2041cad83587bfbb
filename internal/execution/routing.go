package execution

import "github.com/levanduc/crypto-signal-bot/internal/signal"

// Profile describes one execution path: how tight the stop is, how much
// leverage is allowed, and how far the take-profit sits relative to the
// stop distance.
type Profile struct {
	Name             string
	Category         string // venue class: "linear" or "spot"
	StopDistancePct  float64
	RewardMultiplier float64
	UseLeverage      bool
}

// RoutingPolicy picks the execution profile for a signal.
type RoutingPolicy interface {
	Route(sig signal.Signal) Profile
}

// StrengthRouter routes STRONG signals to a leveraged intraday profile and
// everything else to an unleveraged spot swing profile with a wider stop
// and a larger reward multiplier.
type StrengthRouter struct {
	intraday Profile
	swing    Profile
}

// NewStrengthRouter builds the default two-profile router.
func NewStrengthRouter() *StrengthRouter {
	return &StrengthRouter{
		intraday: Profile{
			Name:             "leveraged-intraday",
			Category:         "linear",
			StopDistancePct:  0.02,
			RewardMultiplier: 2.0,
			UseLeverage:      true,
		},
		swing: Profile{
			Name:             "spot-swing",
			Category:         "spot",
			StopDistancePct:  0.05,
			RewardMultiplier: 3.0,
			UseLeverage:      false,
		},
	}
}

func (r *StrengthRouter) Route(sig signal.Signal) Profile {
	if sig.Strength == signal.StrengthStrong {
		return r.intraday
	}
	return r.swing
}
