package calculation

import (
	"context"
	"fmt"

	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/cfgo/coastfire-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// ProjectionEngine orchestrates validation, simulation and milestone
// derivation for plan scenarios. It holds no mutable state between runs and
// is safe for concurrent use.
type ProjectionEngine struct {
	Debug  bool
	Logger Logger
}

// NewProjectionEngine creates an engine with a no-op logger.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{Logger: NopLogger{}}
}

// SetLogger sets the engine logger. A nil logger installs the no-op logger.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

// RunScenario validates the plan and scenario, runs the trajectory and
// attaches milestones. A nil scenario runs the plan's base assumptions with
// no contribution.
func (pe *ProjectionEngine) RunScenario(ctx context.Context, plan *domain.Plan, scenario *domain.ScenarioOverrides) (*domain.ScenarioSummary, error) {
	if err := ValidateSettings(plan.Settings); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	if scenario != nil {
		if err := ValidateScenario(*scenario); err != nil {
			return nil, fmt.Errorf("scenario validation failed: %w", err)
		}
	}

	input := pe.buildInput(plan, scenario)
	if pe.Debug {
		pe.Logger.Debugf("simulating %d months, contribution %s/month", input.HorizonMonths, input.MonthlyContribution.StringFixed(2))
	}

	result := Simulate(input)
	result.Milestones = BuildMilestones(result.CoastFire, plan.Settings, input.HorizonMonths)
	if goal := goalDeadlineMilestone(plan, input.HorizonMonths); goal != nil {
		result.Milestones = append(result.Milestones, *goal)
	}

	summary := &domain.ScenarioSummary{
		FinalValue:             result.FinalValue,
		FinalInflationAdjusted: result.FinalInflationAdjusted,
		AlreadyCoasted:         result.CoastFire.AlreadyCoasted,
		TargetPortfolio:        result.CoastFire.TargetPortfolio,
		RetirementTarget:       result.CoastFire.RetirementTarget,
		Projection:             result,
	}
	if scenario != nil {
		summary.Name = scenario.Name
		summary.Primary = scenario.Primary
	}
	if result.CoastFire.Achievement != nil {
		date := result.CoastFire.Achievement.Date
		months := result.CoastFire.Achievement.MonthsUntil
		summary.CoastDate = &date
		summary.MonthsToCoast = &months
	}

	return summary, nil
}

// RunScenarios runs every scenario in the plan and returns a comparison. A
// plan without scenarios yields a single baseline run.
func (pe *ProjectionEngine) RunScenarios(plan *domain.Plan) (*domain.ScenarioComparison, error) {
	ctx := context.Background()

	comparison := &domain.ScenarioComparison{
		Assumptions: plan.Settings.GenerateAssumptions(),
	}

	if len(plan.Scenarios) == 0 {
		summary, err := pe.RunScenario(ctx, plan, nil)
		if err != nil {
			return nil, err
		}
		summary.Name = "baseline"
		comparison.Scenarios = []domain.ScenarioSummary{*summary}
		return comparison, nil
	}

	comparison.Scenarios = make([]domain.ScenarioSummary, len(plan.Scenarios))
	for i := range plan.Scenarios {
		summary, err := pe.RunScenario(ctx, plan, &plan.Scenarios[i])
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", plan.Scenarios[i].Name, err)
		}
		comparison.Scenarios[i] = *summary
	}
	return comparison, nil
}

// buildInput assembles a ProjectionInput from the plan with scenario
// overrides applied. The horizon defaults to the months until retirement,
// clamped into the valid scenario range, so the retirement milestone lands
// inside the simulated window.
func (pe *ProjectionEngine) buildInput(plan *domain.Plan, scenario *domain.ScenarioOverrides) ProjectionInput {
	input := ProjectionInput{
		Snapshot:         plan.Portfolio,
		Settings:         plan.Settings,
		HorizonMonths:    DefaultHorizonMonths(plan.Settings),
		RetirementTarget: retirementTarget(plan),
	}
	if scenario != nil {
		input.AllocationOverride = scenario.AllocationOverrides
		input.ReturnOverrides = scenario.ReturnOverrides
		if scenario.MonthlyContribution != nil {
			input.MonthlyContribution = *scenario.MonthlyContribution
		}
		if scenario.HorizonMonths != nil {
			input.HorizonMonths = *scenario.HorizonMonths
		}
	}
	return input
}

// DefaultHorizonMonths is the horizon used when a scenario does not override
// it: the months until the target retirement age, clamped to [60, 480].
func DefaultHorizonMonths(settings domain.ProjectionSettings) int {
	months := dateutil.MonthsUntilAge(settings.CurrentAge, settings.RetirementAge)
	if months < minHorizonMonths {
		return minHorizonMonths
	}
	if months > maxHorizonMonths {
		return maxHorizonMonths
	}
	return months
}

// retirementTarget resolves the target precedence: explicit settings target,
// then the spending-derived goal, then nil (engine default applies).
func retirementTarget(plan *domain.Plan) *decimal.Decimal {
	if plan.Settings.RetirementTarget != nil {
		return plan.Settings.RetirementTarget
	}
	if plan.Goal != nil && plan.Goal.AnnualSpending.IsPositive() && plan.Settings.WithdrawalRate.IsPositive() {
		derived := RetirementTargetForSpending(plan.Goal.AnnualSpending, plan.Settings.WithdrawalRate)
		return &derived
	}
	return nil
}

// goalDeadlineMilestone anchors the plan's long-term goal date on the
// trajectory when it falls inside the horizon.
func goalDeadlineMilestone(plan *domain.Plan, horizonMonths int) *domain.Milestone {
	if plan.Goal == nil || plan.Goal.TargetDate == nil {
		return nil
	}
	now := nowFunc()
	months := dateutil.MonthsBetween(now, *plan.Goal.TargetDate)
	if months < 0 || months > horizonMonths {
		return nil
	}
	label := plan.Goal.Name
	if label == "" {
		label = "Goal deadline"
	}
	return &domain.Milestone{
		Kind:  domain.MilestoneGoalDeadline,
		Date:  dateutil.AddMonths(now, months),
		Age:   fractionalAge(plan.Settings.CurrentAge, months),
		Label: label,
	}
}
