package indicators

// Bollinger computes the upper, middle and lower Bollinger Bands over the
// last period closing prices.
func Bollinger(prices []float64, period int, stdDevMultiple float64) (upper, middle, lower float64) {
	if period <= 0 || len(prices) < period {
		return 0, 0, 0
	}

	recent := prices[len(prices)-period:]
	middle = SMA(recent, period)
	stdDev := standardDeviation(recent, middle)

	upper = middle + stdDevMultiple*stdDev
	lower = middle - stdDevMultiple*stdDev
	return upper, middle, lower
}
