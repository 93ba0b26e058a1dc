package calculation

import (
	"fmt"

	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/cfgo/coastfire-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// BuildMilestones derives the calendar markers guaranteed by the engine from
// a finished coast-fire result: the coast-fire crossing (when one was
// detected) and the target retirement age (when it falls inside the simulated
// horizon). Goal-deadline milestones are appended by callers using the same
// point-in-time anchoring.
func BuildMilestones(coastFire domain.CoastFireResult, settings domain.ProjectionSettings, horizonMonths int) []domain.Milestone {
	var milestones []domain.Milestone

	if coastFire.Achievement != nil {
		target := coastFire.TargetPortfolio
		milestones = append(milestones, domain.Milestone{
			Kind:  domain.MilestoneCoastFire,
			Date:  coastFire.Achievement.Date,
			Age:   coastFire.Achievement.Age,
			Label: "Coast FIRE achieved",
			Value: &target,
		})
	}

	monthsToRetirement := dateutil.MonthsUntilAge(settings.CurrentAge, settings.RetirementAge)
	if monthsToRetirement >= 0 && monthsToRetirement <= horizonMonths {
		retirementTarget := coastFire.RetirementTarget
		milestones = append(milestones, domain.Milestone{
			Kind:  domain.MilestoneRetirement,
			Date:  dateutil.AddMonths(nowFunc(), monthsToRetirement),
			Age:   decimal.NewFromInt(int64(settings.RetirementAge)),
			Label: fmt.Sprintf("Target retirement age %d", settings.RetirementAge),
			Value: &retirementTarget,
		})
	}

	return milestones
}
