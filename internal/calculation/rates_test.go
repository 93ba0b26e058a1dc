package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthlyRateZeroIsExactlyZero(t *testing.T) {
	rate := MonthlyRate(decimal.Zero)
	assert.True(t, rate.IsZero(), "zero annual rate must convert to exactly zero, got %s", rate)
}

func TestMonthlyRateKnownValues(t *testing.T) {
	tests := []struct {
		name            string
		annualPercent   float64
		expectedMonthly float64
	}{
		{
			name:            "7% annual",
			annualPercent:   7.0,
			expectedMonthly: 0.005654,
		},
		{
			name:            "4% annual",
			annualPercent:   4.0,
			expectedMonthly: 0.003274,
		},
		{
			name:            "12% annual",
			annualPercent:   12.0,
			expectedMonthly: 0.009489,
		},
		{
			name:            "negative growth",
			annualPercent:   -5.0,
			expectedMonthly: -0.004266,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monthly, _ := MonthlyRate(decimal.NewFromFloat(tt.annualPercent)).Float64()
			assert.InDelta(t, tt.expectedMonthly, monthly, 0.000001)
		})
	}
}

// Compounding the derived monthly rate 12 times must reproduce the annual
// growth factor within floating-point tolerance.
func TestMonthlyRateInverse(t *testing.T) {
	for _, annual := range []float64{0.5, 2, 4, 7, 10, 12, 25, 50} {
		rate := MonthlyRate(decimal.NewFromFloat(annual))
		factor := decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(12))
		got, _ := factor.Float64()
		assert.InDelta(t, 1+annual/100, got, 1e-9, "annual %v%%", annual)
	}
}

func TestMonthlyRateCompoundingMatchesAnnual(t *testing.T) {
	// $10,000 at 7% annual for 10 years of monthly compounding matches
	// 10000 * 1.07^10 = 19671.51.
	rate := MonthlyRate(decimal.NewFromFloat(7.0))
	balance := decimal.NewFromInt(10000)
	growth := decimal.NewFromInt(1).Add(rate)
	for i := 0; i < 120; i++ {
		balance = balance.Mul(growth)
	}
	got, _ := balance.Float64()
	assert.InDelta(t, 19671.51, got, 0.05)
}
