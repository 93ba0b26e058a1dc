package calculation

import (
	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/cfgo/coastfire-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// ProjectionInput carries everything a single trajectory run needs. The
// simulator assumes pre-validated input (run the validators first); fed
// out-of-range numbers it produces numerically nonsensical but non-crashing
// output rather than erroring.
type ProjectionInput struct {
	Snapshot            domain.PortfolioSnapshot
	Settings            domain.ProjectionSettings
	MonthlyContribution decimal.Decimal
	AllocationOverride  domain.AllocationMap
	ReturnOverrides     domain.ReturnMap
	HorizonMonths       int
	RetirementTarget    *decimal.Decimal
}

// Simulate runs the month-by-month trajectory.
//
// Each month applies compound growth per asset class strictly before adding
// that class's share of the contribution (growth-then-deposit). Inflation
// compounds independently of nominal growth and only divides the displayed
// totals; it never feeds back into the simulated balances. The coast-fire
// target is computed once from the initial allocation and acts as a fixed
// reference line for crossing detection.
//
// A horizon of N months yields exactly N+1 points; point 0 equals the
// snapshot's breakdown total up to rounding.
func Simulate(input ProjectionInput) *domain.ProjectionResult {
	allocation := ResolveAllocation(input.Snapshot.ByAssetClass, input.AllocationOverride)
	returns := MergeReturns(input.Settings.ExpectedReturns, input.ReturnOverrides)

	monthlyRates := make(map[domain.AssetClass]decimal.Decimal, len(domain.AllAssetClasses))
	for _, c := range domain.AllAssetClasses {
		monthlyRates[c] = MonthlyRate(returns[c])
	}
	monthlyInflation := MonthlyRate(input.Settings.InflationRate)

	balances := make(map[domain.AssetClass]decimal.Decimal, len(domain.AllAssetClasses))
	for _, c := range domain.AllAssetClasses {
		balances[c] = input.Snapshot.ByAssetClass[c]
	}

	// The static target uses the scenario-effective returns so the reference
	// line matches the assumptions actually simulated.
	effectiveSettings := input.Settings
	effectiveSettings.ExpectedReturns = returns
	coastFire := CoastFire(effectiveSettings, sumBalances(balances), allocation, input.RetirementTarget)
	coastFire.Achievement = nil // crossing detection below owns the achievement fields

	startDate := nowFunc()
	one := decimal.NewFromInt(1)
	inflationFactor := one

	points := make([]domain.ProjectionPoint, 0, input.HorizonMonths+1)

	for month := 0; month <= input.HorizonMonths; month++ {
		total := sumBalances(balances)
		date := dateutil.AddMonths(startDate, month)
		age := fractionalAge(input.Settings.CurrentAge, month)

		if coastFire.Achievement == nil && total.GreaterThanOrEqual(coastFire.TargetPortfolio) {
			coastFire.Achievement = &domain.CoastFireAchievement{
				Date:        date,
				Age:         age,
				MonthsUntil: month,
			}
		}

		byClass := make(map[domain.AssetClass]decimal.Decimal, len(balances))
		for c, v := range balances {
			byClass[c] = v
		}
		points = append(points, domain.ProjectionPoint{
			Date:              date,
			MonthIndex:        month,
			Age:               age,
			TotalValue:        total.Round(2),
			ByAssetClass:      byClass,
			InflationAdjusted: total.Div(inflationFactor).Round(2),
		})

		if month == input.HorizonMonths {
			break
		}

		// Growth first, then the contribution split by the resolved
		// allocation (not re-derived from post-growth balances).
		for _, c := range domain.AllAssetClasses {
			grown := balances[c].Mul(one.Add(monthlyRates[c]))
			share := input.MonthlyContribution.Mul(allocation[c]).Div(hundred)
			balances[c] = grown.Add(share)
		}
		inflationFactor = inflationFactor.Mul(one.Add(monthlyInflation))
	}

	last := points[len(points)-1]
	return &domain.ProjectionResult{
		Points:                 points,
		CoastFire:              coastFire,
		FinalValue:             last.TotalValue,
		FinalInflationAdjusted: last.InflationAdjusted,
	}
}

func sumBalances(balances map[domain.AssetClass]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range balances {
		total = total.Add(v)
	}
	return total
}

// fractionalAge returns the age after monthsElapsed, rounded to 2 decimals
// for display stability.
func fractionalAge(currentAge, monthsElapsed int) decimal.Decimal {
	return decimal.NewFromInt(int64(currentAge)).
		Add(decimal.NewFromInt(int64(monthsElapsed)).Div(decimal.NewFromInt(monthsPerYear))).
		Round(2)
}
