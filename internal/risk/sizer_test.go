package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levanduc/crypto-signal-bot/pkg/types"
)

func testBudget() Budget {
	return Budget{
		MaxPositionSizePct: 0.10,
		MaxDailyLossPct:    0.05,
		MaxLeverage:        10,
		RiskPerTradePct:    0.02,
	}
}

func TestSafeLeverage_CappedAtMax(t *testing.T) {
	sizer := NewSizer(testBudget())

	// 1% stop distance gives floor(1/0.01) = 100, capped to 10.
	leverage, err := sizer.SafeLeverage(100, 99)
	require.NoError(t, err)
	assert.Equal(t, 10, leverage)
}

func TestSafeLeverage_UncappedValues(t *testing.T) {
	budget := testBudget()
	budget.MaxLeverage = 200
	sizer := NewSizer(budget)

	cases := []struct {
		entry, stop float64
		want        int
	}{
		{100, 99, 100},  // 1% distance
		{100, 95, 20},   // 5% distance
		{100, 90, 10},   // 10% distance
		{100, 97, 33},   // 3% distance, floor(33.3)
		{50, 49, 50},    // 2% distance
	}
	for _, tc := range cases {
		leverage, err := sizer.SafeLeverage(tc.entry, tc.stop)
		require.NoError(t, err)
		assert.Equal(t, tc.want, leverage, "entry %v stop %v", tc.entry, tc.stop)
		assert.GreaterOrEqual(t, leverage, 1)
	}
}

func TestSafeLeverage_ZeroDistanceIsError(t *testing.T) {
	sizer := NewSizer(testBudget())
	_, err := sizer.SafeLeverage(100, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop distance is zero")
}

func TestSafeLeverage_InvalidEntry(t *testing.T) {
	sizer := NewSizer(testBudget())
	_, err := sizer.SafeLeverage(0, 99)
	assert.Error(t, err)
}

func TestSafeLeverage_DirectionIndependent(t *testing.T) {
	sizer := NewSizer(testBudget())
	long, err := sizer.SafeLeverage(100, 95)
	require.NoError(t, err)
	short, err := sizer.SafeLeverage(100, 105)
	require.NoError(t, err)
	assert.Equal(t, long, short)
}

func TestSize_RiskAmountIsExact(t *testing.T) {
	sizer := NewSizer(testBudget())
	account := types.AccountSnapshot{Equity: 10000}

	result, err := sizer.Size(account, 100, 95)
	require.NoError(t, err)

	// riskAmount = equity * riskPerTradePct exactly.
	assert.Equal(t, 200.0, result.RiskAmount)
	// quantity = 200 / 5 = 40, but capped at (10000*0.10)/100 = 10.
	assert.Equal(t, 10.0, result.Quantity)
}

func TestSize_QuantityBelowCap(t *testing.T) {
	sizer := NewSizer(testBudget())
	account := types.AccountSnapshot{Equity: 10000}

	// Wide stop: 200 / 50 = 4, under the cap of 10.
	result, err := sizer.Size(account, 100, 50)
	require.NoError(t, err)
	assert.Equal(t, 4.0, result.Quantity)
}

func TestSize_CapAlwaysHolds(t *testing.T) {
	budget := testBudget()
	sizer := NewSizer(budget)

	equities := []float64{500, 1000, 25000}
	stops := []float64{99.9, 99, 95, 80}
	for _, equity := range equities {
		for _, stop := range stops {
			account := types.AccountSnapshot{Equity: equity}
			result, err := sizer.Size(account, 100, stop)
			require.NoError(t, err)
			cap := equity * budget.MaxPositionSizePct / 100
			assert.LessOrEqual(t, result.Quantity, cap)
			assert.Equal(t, equity*budget.RiskPerTradePct, result.RiskAmount)
		}
	}
}

func TestSize_ZeroDistanceIsError(t *testing.T) {
	sizer := NewSizer(testBudget())
	_, err := sizer.Size(types.AccountSnapshot{Equity: 1000}, 100, 100)
	assert.Error(t, err)
}
