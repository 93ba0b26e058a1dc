package config

import (
	"fmt"
	"os"

	"github.com/cfgo/coastfire-calculator/internal/calculation"
	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan input files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes YAML plan data and validates it.
func (ip *InputParser) Parse(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ValidatePlan validates the loaded plan: portfolio shape, settings bounds,
// scenario bounds, and plan-level consistency (unique scenario names, at
// most one primary scenario).
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if err := ip.validatePortfolio(&plan.Portfolio); err != nil {
		return fmt.Errorf("portfolio validation failed: %w", err)
	}

	if err := calculation.ValidateSettings(plan.Settings); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	if plan.Goal != nil && plan.Goal.AnnualSpending.IsNegative() {
		return fmt.Errorf("goal validation failed: annual spending cannot be negative")
	}

	names := make(map[string]bool, len(plan.Scenarios))
	primaryCount := 0
	for i, scenario := range plan.Scenarios {
		if scenario.Name == "" {
			return fmt.Errorf("scenario %d validation failed: scenario name is required", i)
		}
		if names[scenario.Name] {
			return fmt.Errorf("scenario %q validation failed: duplicate scenario name", scenario.Name)
		}
		names[scenario.Name] = true
		if scenario.Primary {
			primaryCount++
		}
		if err := calculation.ValidateScenario(scenario); err != nil {
			return fmt.Errorf("scenario %q validation failed: %w", scenario.Name, err)
		}
	}
	if primaryCount > 1 {
		return fmt.Errorf("at most one scenario may be marked primary, got %d", primaryCount)
	}

	return nil
}

// validatePortfolio checks the snapshot shape. The per-class breakdown need
// not sum to the total; the engine re-derives allocation from the breakdown.
func (ip *InputParser) validatePortfolio(portfolio *domain.PortfolioSnapshot) error {
	if portfolio.TotalValue.IsNegative() {
		return fmt.Errorf("total value cannot be negative")
	}
	for _, c := range domain.AllAssetClasses {
		if v, ok := portfolio.ByAssetClass[c]; ok && v.IsNegative() {
			return fmt.Errorf("%s balance cannot be negative", c)
		}
	}
	for c := range portfolio.ByAssetClass {
		if !domain.IsKnownAssetClass(c) {
			return fmt.Errorf("unknown asset class %q in portfolio breakdown", c)
		}
	}
	return nil
}

// CreateExamplePlan creates an example plan suitable for `coastfire init`.
func (ip *InputParser) CreateExamplePlan() *domain.Plan {
	contribution := decimal.NewFromInt(2000)
	horizon := 120

	return &domain.Plan{
		Portfolio: domain.PortfolioSnapshot{
			TotalValue: decimal.NewFromInt(100000),
			ByAssetClass: map[domain.AssetClass]decimal.Decimal{
				domain.Equities: decimal.NewFromInt(100000),
			},
		},
		Settings: domain.ProjectionSettings{
			ExpectedReturns: domain.ReturnMap{
				domain.Equities: decimal.NewFromFloat(7.0),
				domain.Bonds:    decimal.NewFromFloat(4.0),
				domain.Crypto:   decimal.NewFromFloat(12.0),
				domain.Cash:     decimal.NewFromFloat(4.5),
			},
			InflationRate:  decimal.NewFromFloat(3.0),
			WithdrawalRate: decimal.NewFromFloat(4.0),
			CurrentAge:     30,
			RetirementAge:  65,
		},
		Goal: &domain.LongTermGoal{
			Name:           "Comfortable retirement",
			AnnualSpending: decimal.NewFromInt(60000),
		},
		Scenarios: []domain.ScenarioOverrides{
			{
				Name:                "steady contributions",
				Primary:             true,
				MonthlyContribution: &contribution,
				HorizonMonths:       &horizon,
			},
			{
				Name: "coast from today",
			},
		},
	}
}
