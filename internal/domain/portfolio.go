package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetClass identifies one of the fixed investment categories tracked by the
// projection engine. The set is closed: returns and allocations for classes
// outside AllAssetClasses are rejected at the validation boundary.
type AssetClass string

const (
	Equities AssetClass = "equities"
	Bonds    AssetClass = "bonds"
	Crypto   AssetClass = "crypto"
	Cash     AssetClass = "cash"
)

// AllAssetClasses lists the canonical classes in a fixed iteration order so
// that derived maps and validation messages are deterministic.
var AllAssetClasses = []AssetClass{Equities, Bonds, Crypto, Cash}

// IsKnownAssetClass reports whether c belongs to the canonical class set.
func IsKnownAssetClass(c AssetClass) bool {
	for _, k := range AllAssetClasses {
		if c == k {
			return true
		}
	}
	return false
}

// ReturnMap maps an asset class to its expected annual return in percent
// (7.0 means 7%).
type ReturnMap map[AssetClass]decimal.Decimal

// AllocationMap maps an asset class to its share of the portfolio in percent.
// A valid allocation sums to 100 within a 0.1 tolerance.
type AllocationMap map[AssetClass]decimal.Decimal

// Sum returns the total of all allocation percentages.
func (a AllocationMap) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range a {
		total = total.Add(v)
	}
	return total
}

// PortfolioSnapshot is the current state of the portfolio. The per-class
// breakdown is authoritative for allocation purposes; TotalValue is carried
// for display and need not match the breakdown exactly.
type PortfolioSnapshot struct {
	TotalValue   decimal.Decimal                `yaml:"total_value" json:"total_value"`
	ByAssetClass map[AssetClass]decimal.Decimal `yaml:"by_asset_class" json:"by_asset_class"`
}

// BreakdownTotal sums the per-class dollar values.
func (p PortfolioSnapshot) BreakdownTotal() decimal.Decimal {
	total := decimal.Zero
	for _, v := range p.ByAssetClass {
		total = total.Add(v)
	}
	return total
}

// ProjectionSettings holds the assumptions governing a projection run.
type ProjectionSettings struct {
	ExpectedReturns  ReturnMap        `yaml:"expected_returns" json:"expected_returns"`
	InflationRate    decimal.Decimal  `yaml:"inflation_rate" json:"inflation_rate"`
	WithdrawalRate   decimal.Decimal  `yaml:"withdrawal_rate" json:"withdrawal_rate"`
	CurrentAge       int              `yaml:"current_age" json:"current_age"`
	RetirementAge    int              `yaml:"retirement_age" json:"retirement_age"`
	RetirementTarget *decimal.Decimal `yaml:"retirement_target,omitempty" json:"retirement_target,omitempty"`
}

// YearsToRetirement returns the whole years between the current and target
// retirement ages. Settings validation guarantees this is positive.
func (s ProjectionSettings) YearsToRetirement() int {
	return s.RetirementAge - s.CurrentAge
}

// GenerateAssumptions produces human-readable assumption lines for reports.
func (s ProjectionSettings) GenerateAssumptions() []string {
	assumptions := []string{
		"Inflation rate: " + s.InflationRate.StringFixed(1) + "%",
		"Withdrawal rate: " + s.WithdrawalRate.StringFixed(1) + "%",
	}
	for _, c := range AllAssetClasses {
		if r, ok := s.ExpectedReturns[c]; ok {
			assumptions = append(assumptions, "Expected return ("+string(c)+"): "+r.StringFixed(1)+"%")
		}
	}
	return assumptions
}

// ScenarioOverrides is a named bundle of deviations from the base settings and
// snapshot for a single projection run. Nil/absent fields mean "use the base".
type ScenarioOverrides struct {
	Name                string           `yaml:"name" json:"name"`
	Primary             bool             `yaml:"primary,omitempty" json:"primary,omitempty"`
	AllocationOverrides AllocationMap    `yaml:"allocation_overrides,omitempty" json:"allocation_overrides,omitempty"`
	ReturnOverrides     ReturnMap        `yaml:"return_overrides,omitempty" json:"return_overrides,omitempty"`
	MonthlyContribution *decimal.Decimal `yaml:"monthly_contribution,omitempty" json:"monthly_contribution,omitempty"`
	HorizonMonths       *int             `yaml:"horizon_months,omitempty" json:"horizon_months,omitempty"`
}

// LongTermGoal is an optional spending-derived retirement goal. When present,
// the retirement target is derived as AnnualSpending / (withdrawalRate/100)
// unless the settings carry an explicit target.
type LongTermGoal struct {
	Name           string          `yaml:"name" json:"name"`
	AnnualSpending decimal.Decimal `yaml:"annual_spending" json:"annual_spending"`
	TargetDate     *time.Time      `yaml:"target_date,omitempty" json:"target_date,omitempty"`
}

// Plan bundles everything a projection run needs: the portfolio snapshot, the
// base assumptions, an optional long-term goal and zero or more scenarios.
type Plan struct {
	Portfolio PortfolioSnapshot   `yaml:"portfolio" json:"portfolio"`
	Settings  ProjectionSettings  `yaml:"settings" json:"settings"`
	Goal      *LongTermGoal       `yaml:"goal,omitempty" json:"goal,omitempty"`
	Scenarios []ScenarioOverrides `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
}
