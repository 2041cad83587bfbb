package risk

// Budget is the process-wide risk configuration. Fractions are expressed
// as 0..1 ratios; read-only after initialization.
type Budget struct {
	MaxPositionSizePct float64
	MaxDailyLossPct    float64
	MaxLeverage        int
	RiskPerTradePct    float64
}

// TradeRequest is what the gate validates before an approved signal is
// allowed to reach the execution engine.
type TradeRequest struct {
	Symbol        string
	Side          string
	EntryPrice    float64
	StopLossPrice float64
	Leverage      int
}

// LimitsReport is the outcome of a periodic account-level limit check.
// HighUtilization flags the warning band below the hard limit.
type LimitsReport struct {
	WithinLimits         bool
	HighUtilization      bool
	MarginUtilizationPct float64
	RemainingDayRisk     float64
}

// ValidationResult is a normal outcome, not an error: risk-limit
// violations surface as structured entries and block execution without
// discarding the pending signal.
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// SizeResult is the position size derived from the account equity and the
// stop distance.
type SizeResult struct {
	Quantity   float64
	RiskAmount float64
}
