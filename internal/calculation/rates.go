package calculation

import (
	"math"

	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

// MonthlyRate converts an annual percentage return into the equivalent
// monthly compounding rate: (1 + annual/100)^(1/12) - 1.
//
// A zero annual rate returns exactly zero rather than going through pow,
// so zero-return projections degrade to clean linear accumulation.
// Negative rates are accepted; clamping is the validators' job, not the
// math primitive's.
func MonthlyRate(annualPercent decimal.Decimal) decimal.Decimal {
	if annualPercent.IsZero() {
		return decimal.Zero
	}
	annual, _ := annualPercent.Float64()
	monthly := math.Pow(1+annual/100, 1.0/monthsPerYear) - 1
	return decimal.NewFromFloat(monthly)
}
