package calculation

import (
	"testing"

	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/cfgo/coastfire-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMilestonesWithCrossing(t *testing.T) {
	now := fixedNow(t)
	settings := baseSettings()
	crossDate := dateutil.AddMonths(now, 18)
	coastFire := domain.CoastFireResult{
		TargetPortfolio:  decimal.NewFromInt(200000),
		RetirementTarget: decimal.NewFromInt(1_500_000),
		Achievement: &domain.CoastFireAchievement{
			Date:        crossDate,
			Age:         decimal.NewFromFloat(36.5),
			MonthsUntil: 18,
		},
	}

	milestones := BuildMilestones(coastFire, settings, 480)

	require.Len(t, milestones, 2)

	assert.Equal(t, domain.MilestoneCoastFire, milestones[0].Kind)
	assert.Equal(t, crossDate, milestones[0].Date)
	assert.Equal(t, "Coast FIRE achieved", milestones[0].Label)
	require.NotNil(t, milestones[0].Value)
	assert.True(t, milestones[0].Value.Equal(coastFire.TargetPortfolio))

	// Retirement at 65 from age 35 is 360 months out.
	assert.Equal(t, domain.MilestoneRetirement, milestones[1].Kind)
	assert.Equal(t, dateutil.AddMonths(now, 360), milestones[1].Date)
	assert.True(t, milestones[1].Age.Equal(decimal.NewFromInt(65)))
	assert.Equal(t, "Target retirement age 65", milestones[1].Label)
	require.NotNil(t, milestones[1].Value)
	assert.True(t, milestones[1].Value.Equal(coastFire.RetirementTarget))
}

func TestBuildMilestonesNoCrossing(t *testing.T) {
	fixedNow(t)
	coastFire := domain.CoastFireResult{
		TargetPortfolio:  decimal.NewFromInt(200000),
		RetirementTarget: decimal.NewFromInt(1_500_000),
	}

	milestones := BuildMilestones(coastFire, baseSettings(), 480)

	require.Len(t, milestones, 1)
	assert.Equal(t, domain.MilestoneRetirement, milestones[0].Kind)
}

func TestBuildMilestonesRetirementOutsideHorizon(t *testing.T) {
	fixedNow(t)
	coastFire := domain.CoastFireResult{
		TargetPortfolio:  decimal.NewFromInt(200000),
		RetirementTarget: decimal.NewFromInt(1_500_000),
	}

	// 360 months to retirement, horizon only 120.
	milestones := BuildMilestones(coastFire, baseSettings(), 120)

	assert.Empty(t, milestones)
}
