package calculation

import (
	"fmt"
	"sort"

	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Validation bounds. The simulator itself never rejects numbers; these checks
// are the only gate between user input and the math.
var (
	maxReturnPercent    = decimal.NewFromInt(50)
	maxInflationPercent = decimal.NewFromInt(20)
	minWithdrawal       = decimal.NewFromInt(1)
	maxWithdrawal       = decimal.NewFromInt(10)
	allocationTolerance = decimal.NewFromFloat(0.1)
)

const (
	minCurrentAge    = 18
	maxCurrentAge    = 99
	minRetirementAge = 40
	maxRetirementAge = 100
	minHorizonMonths = 60
	maxHorizonMonths = 480
)

// ValidateSettings checks projection settings against their documented
// ranges. It returns nil when valid, otherwise a single message naming the
// first violated bound. Checks run in a fixed order: returns, inflation,
// withdrawal, retirement age, current age.
func ValidateSettings(settings domain.ProjectionSettings) error {
	if err := validateReturnMap(settings.ExpectedReturns, "expected returns"); err != nil {
		return err
	}
	if settings.InflationRate.IsNegative() || settings.InflationRate.GreaterThan(maxInflationPercent) {
		return fmt.Errorf("inflation rate must be between 0%% and 20%%, got %s%%", settings.InflationRate.StringFixed(1))
	}
	if settings.WithdrawalRate.LessThan(minWithdrawal) || settings.WithdrawalRate.GreaterThan(maxWithdrawal) {
		return fmt.Errorf("withdrawal rate must be between 1%% and 10%%, got %s%%", settings.WithdrawalRate.StringFixed(1))
	}
	if settings.RetirementAge < minRetirementAge || settings.RetirementAge > maxRetirementAge {
		return fmt.Errorf("target retirement age must be between 40 and 100, got %d", settings.RetirementAge)
	}
	if settings.RetirementAge <= settings.CurrentAge {
		return fmt.Errorf("target retirement age must be greater than current age %d", settings.CurrentAge)
	}
	if settings.CurrentAge < minCurrentAge || settings.CurrentAge > maxCurrentAge {
		return fmt.Errorf("current age must be between 18 and 99, got %d", settings.CurrentAge)
	}
	return nil
}

// ValidateScenario checks a scenario override bundle. Checks run in a fixed
// order: allocation sum, allocation bounds, return bounds, contribution,
// horizon. A nil override field is valid (the base applies).
func ValidateScenario(scenario domain.ScenarioOverrides) error {
	if scenario.AllocationOverrides != nil {
		sum := scenario.AllocationOverrides.Sum()
		if sum.Sub(hundred).Abs().GreaterThan(allocationTolerance) {
			return fmt.Errorf("allocation percentages must sum to 100, got %s", sum.StringFixed(1))
		}
		if err := validateAllocationBounds(scenario.AllocationOverrides); err != nil {
			return err
		}
	}
	if scenario.ReturnOverrides != nil {
		if err := validateReturnMap(scenario.ReturnOverrides, "return overrides"); err != nil {
			return err
		}
	}
	if scenario.MonthlyContribution != nil && scenario.MonthlyContribution.IsNegative() {
		return fmt.Errorf("monthly contribution cannot be negative, got %s", scenario.MonthlyContribution.StringFixed(2))
	}
	if scenario.HorizonMonths != nil {
		if *scenario.HorizonMonths < minHorizonMonths || *scenario.HorizonMonths > maxHorizonMonths {
			return fmt.Errorf("horizon must be between 60 and 480 months, got %d", *scenario.HorizonMonths)
		}
	}
	return nil
}

func validateReturnMap(returns domain.ReturnMap, context string) error {
	if err := rejectUnknownClasses(keysOf(returns), context); err != nil {
		return err
	}
	for _, c := range domain.AllAssetClasses {
		r, ok := returns[c]
		if !ok {
			continue
		}
		if r.IsNegative() || r.GreaterThan(maxReturnPercent) {
			return fmt.Errorf("expected annual return for %s must be between 0%% and 50%%, got %s%%", c, r.StringFixed(1))
		}
	}
	return nil
}

func validateAllocationBounds(allocation domain.AllocationMap) error {
	if err := rejectUnknownClasses(keysOf(allocation), "allocation overrides"); err != nil {
		return err
	}
	for _, c := range domain.AllAssetClasses {
		v, ok := allocation[c]
		if !ok {
			continue
		}
		if v.IsNegative() || v.GreaterThan(hundred) {
			return fmt.Errorf("allocation for %s must be between 0%% and 100%%, got %s%%", c, v.StringFixed(1))
		}
	}
	return nil
}

// rejectUnknownClasses enforces the closed asset class set. Keys are sorted
// so the reported class is deterministic.
func rejectUnknownClasses(classes []domain.AssetClass, context string) error {
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	for _, c := range classes {
		if !domain.IsKnownAssetClass(c) {
			return fmt.Errorf("unknown asset class %q in %s", c, context)
		}
	}
	return nil
}

func keysOf(m map[domain.AssetClass]decimal.Decimal) []domain.AssetClass {
	keys := make([]domain.AssetClass, 0, len(m))
	for c := range m {
		keys = append(keys, c)
	}
	return keys
}
