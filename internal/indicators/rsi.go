package indicators

import "math"

// RSI computes the Relative Strength Index over the last period price
// changes. Returns 0 when there is not enough data; callers gate on
// RequiredCandles before trusting the value.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 0
	}

	changes := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		changes[i-1] = prices[i] - prices[i-1]
	}

	gains := make([]float64, 0, period)
	losses := make([]float64, 0, period)
	for _, change := range changes[len(changes)-period:] {
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, math.Abs(change))
		}
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
