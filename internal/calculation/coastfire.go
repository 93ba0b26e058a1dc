package calculation

import (
	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultRetirementTarget is the retirement portfolio value assumed when the
// caller supplies no explicit spending-derived target.
var DefaultRetirementTarget = decimal.NewFromInt(1_500_000)

// RetirementTargetForSpending derives a retirement target from an annual
// spending goal and a withdrawal rate in percent:
// annualSpending / (withdrawalRate/100).
func RetirementTargetForSpending(annualSpending, withdrawalRate decimal.Decimal) decimal.Decimal {
	return annualSpending.Div(withdrawalRate.Div(hundred))
}

// CoastFire computes the present-day portfolio value that would grow unaided
// to the retirement target by the target retirement age, and classifies the
// current portfolio against it.
//
// This is the static, same-day check: the achievement fields are populated
// only when the portfolio is already past the target today. The dynamic
// crossing point for a growing portfolio is detected by Simulate, which
// upgrades the achievement fields on the same fixed target.
func CoastFire(settings domain.ProjectionSettings, currentValue decimal.Decimal, allocation domain.AllocationMap, retirementTargetOverride *decimal.Decimal) domain.CoastFireResult {
	yearsToRetirement := settings.YearsToRetirement()

	retirementTarget := DefaultRetirementTarget
	if retirementTargetOverride != nil {
		retirementTarget = *retirementTargetOverride
	}

	blended := BlendedReturn(settings.ExpectedReturns, allocation).Div(hundred)
	growth := decimal.NewFromInt(1).Add(blended).Pow(decimal.NewFromInt(int64(yearsToRetirement)))
	targetPortfolio := retirementTarget.Div(growth)

	result := domain.CoastFireResult{
		TargetPortfolio:  targetPortfolio,
		RetirementTarget: retirementTarget,
		AlreadyCoasted:   currentValue.GreaterThanOrEqual(targetPortfolio),
	}

	if result.AlreadyCoasted {
		result.Achievement = &domain.CoastFireAchievement{
			Date:        nowFunc(),
			Age:         decimal.NewFromInt(int64(settings.CurrentAge)),
			MonthsUntil: 0,
		}
	}

	return result
}
