package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionPoint is one simulated month of the trajectory.
type ProjectionPoint struct {
	Date              time.Time                      `json:"date"`
	MonthIndex        int                            `json:"month_index"`
	Age               decimal.Decimal                `json:"age"`
	TotalValue        decimal.Decimal                `json:"total_value"`
	ByAssetClass      map[AssetClass]decimal.Decimal `json:"by_asset_class"`
	InflationAdjusted decimal.Decimal                `json:"inflation_adjusted"`
	Historical        bool                           `json:"historical"`
}

// CoastFireAchievement records when the portfolio crosses the coast-fire
// threshold. The three fields are always populated together; an unreached
// threshold is represented by a nil *CoastFireAchievement.
type CoastFireAchievement struct {
	Date        time.Time       `json:"date"`
	Age         decimal.Decimal `json:"age"`
	MonthsUntil int             `json:"months_until"`
}

// CoastFireResult is the verdict of the coast-fire calculation. The target
// portfolio is a fixed reference computed once from the initial allocation;
// it is never recomputed during the simulation.
type CoastFireResult struct {
	TargetPortfolio  decimal.Decimal       `json:"target_portfolio"`
	RetirementTarget decimal.Decimal       `json:"retirement_target"`
	AlreadyCoasted   bool                  `json:"already_coasted"`
	Achievement      *CoastFireAchievement `json:"achievement,omitempty"`
}

// IsAchieved reports whether a crossing point has been recorded, either
// immediately (already coasted) or during a simulated trajectory.
func (r CoastFireResult) IsAchieved() bool {
	return r.Achievement != nil
}

// MilestoneKind labels a point of interest on the trajectory.
type MilestoneKind string

const (
	MilestoneCoastFire    MilestoneKind = "coast_fire"
	MilestoneRetirement   MilestoneKind = "retirement"
	MilestoneGoalDeadline MilestoneKind = "goal_deadline"
)

// Milestone is a calendar/age-anchored marker derived from a trajectory.
type Milestone struct {
	Kind  MilestoneKind    `json:"kind"`
	Date  time.Time        `json:"date"`
	Age   decimal.Decimal  `json:"age"`
	Label string           `json:"label"`
	Value *decimal.Decimal `json:"value,omitempty"`
}

// ProjectionResult is the full output of a trajectory simulation.
type ProjectionResult struct {
	Points                 []ProjectionPoint `json:"points"`
	CoastFire              CoastFireResult   `json:"coast_fire"`
	FinalValue             decimal.Decimal   `json:"final_value"`
	FinalInflationAdjusted decimal.Decimal   `json:"final_inflation_adjusted"`
	Milestones             []Milestone       `json:"milestones,omitempty"`
}

// FinalPoint returns the last simulated point. A simulation over any horizon
// emits at least the month-0 point.
func (r *ProjectionResult) FinalPoint() ProjectionPoint {
	return r.Points[len(r.Points)-1]
}

// ScenarioSummary provides the key metrics of a single scenario run.
type ScenarioSummary struct {
	Name                   string            `json:"name"`
	Primary                bool              `json:"primary"`
	FinalValue             decimal.Decimal   `json:"final_value"`
	FinalInflationAdjusted decimal.Decimal   `json:"final_inflation_adjusted"`
	AlreadyCoasted         bool              `json:"already_coasted"`
	CoastDate              *time.Time        `json:"coast_date,omitempty"`
	MonthsToCoast          *int              `json:"months_to_coast,omitempty"`
	TargetPortfolio        decimal.Decimal   `json:"target_portfolio"`
	RetirementTarget       decimal.Decimal   `json:"retirement_target"`
	Projection             *ProjectionResult `json:"projection"`
}

// ScenarioComparison collects the summaries of every scenario in a plan.
type ScenarioComparison struct {
	Scenarios   []ScenarioSummary `json:"scenarios"`
	Assumptions []string          `json:"assumptions"`
}

// PrimaryScenario returns the summary flagged as primary, or nil when no
// scenario carries the flag.
func (c *ScenarioComparison) PrimaryScenario() *ScenarioSummary {
	for i := range c.Scenarios {
		if c.Scenarios[i].Primary {
			return &c.Scenarios[i]
		}
	}
	return nil
}
