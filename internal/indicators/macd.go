package indicators

// MACD computes the MACD line and its signal line from closing prices.
// The signal line is an EMA of the MACD series, so enough history is
// needed for slow+signal periods.
func MACD(prices []float64, fastPeriod, slowPeriod, signalPeriod int) (macdLine, signalLine float64) {
	if len(prices) < slowPeriod+signalPeriod {
		return 0, 0
	}

	fast := EMA(prices, fastPeriod)
	slow := EMA(prices, slowPeriod)
	if len(fast) == 0 || len(slow) == 0 {
		return 0, 0
	}

	// Align the two EMA series on their tails; slow is the shorter one.
	offset := len(fast) - len(slow)
	macdSeries := make([]float64, len(slow))
	for i := range slow {
		macdSeries[i] = fast[i+offset] - slow[i]
	}

	signalSeries := EMA(macdSeries, signalPeriod)
	if len(signalSeries) == 0 {
		return 0, 0
	}

	return macdSeries[len(macdSeries)-1], signalSeries[len(signalSeries)-1]
}
