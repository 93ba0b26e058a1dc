package calculation

import (
	"testing"

	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/cfgo/coastfire-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func equitiesSnapshot(value int64) domain.PortfolioSnapshot {
	return domain.PortfolioSnapshot{
		TotalValue: decimal.NewFromInt(value),
		ByAssetClass: map[domain.AssetClass]decimal.Decimal{
			domain.Equities: decimal.NewFromInt(value),
		},
	}
}

func TestSimulatePointCount(t *testing.T) {
	fixedNow(t)

	result := Simulate(ProjectionInput{
		Snapshot:            equitiesSnapshot(100000),
		Settings:            baseSettings(),
		MonthlyContribution: decimal.NewFromInt(2000),
		HorizonMonths:       120,
	})

	require.Len(t, result.Points, 121)
	assert.True(t, result.Points[0].TotalValue.Equal(decimal.NewFromInt(100000)),
		"point 0 should match the snapshot, got %s", result.Points[0].TotalValue)
	assert.Equal(t, 0, result.Points[0].MonthIndex)
	assert.Equal(t, 120, result.Points[120].MonthIndex)
	assert.True(t, result.Points[120].Age.Equal(decimal.NewFromInt(45)),
		"age after 120 months, got %s", result.Points[120].Age)
}

func TestSimulateZeroHorizonSinglePoint(t *testing.T) {
	fixedNow(t)

	result := Simulate(ProjectionInput{
		Snapshot:      equitiesSnapshot(5000),
		Settings:      baseSettings(),
		HorizonMonths: 0,
	})

	require.Len(t, result.Points, 1)
	assert.True(t, result.FinalValue.Equal(decimal.NewFromInt(5000)))
	assert.True(t, result.FinalInflationAdjusted.Equal(result.FinalValue),
		"no months elapsed means no inflation discount")
}

// With 0% returns everywhere the trajectory is exactly linear in the
// contribution.
func TestSimulateZeroReturnLinear(t *testing.T) {
	fixedNow(t)
	settings := baseSettings()
	settings.ExpectedReturns = domain.ReturnMap{}
	settings.InflationRate = decimal.Zero

	result := Simulate(ProjectionInput{
		Snapshot:            equitiesSnapshot(1000),
		Settings:            settings,
		MonthlyContribution: decimal.NewFromInt(200),
		HorizonMonths:       12,
	})

	// 1000 + 200*12, no rounding drift allowed.
	assert.True(t, result.FinalValue.Equal(decimal.NewFromInt(3400)),
		"got %s", result.FinalValue)
	for i, p := range result.Points {
		want := decimal.NewFromInt(1000 + int64(i)*200)
		assert.True(t, p.TotalValue.Equal(want), "month %d: got %s want %s", i, p.TotalValue, want)
	}
}

func TestSimulateZeroContributionPureGrowth(t *testing.T) {
	fixedNow(t)
	settings := baseSettings()
	settings.InflationRate = decimal.Zero

	result := Simulate(ProjectionInput{
		Snapshot:      equitiesSnapshot(10000),
		Settings:      settings,
		HorizonMonths: 120,
	})

	// 10,000 * 1.07^10 = 19,671.51
	got, _ := result.FinalValue.Float64()
	assert.InDelta(t, 19671.51, got, 0.05)
}

// Growth applies before the month's deposit, so the deposit itself earns
// nothing in the month it arrives.
func TestSimulateGrowthThenDeposit(t *testing.T) {
	fixedNow(t)
	settings := baseSettings()

	result := Simulate(ProjectionInput{
		Snapshot:            equitiesSnapshot(1000),
		Settings:            settings,
		MonthlyContribution: decimal.NewFromInt(100),
		HorizonMonths:       1,
	})

	require.Len(t, result.Points, 2)
	rate := MonthlyRate(decimal.NewFromFloat(7.0))
	want := decimal.NewFromInt(1000).
		Mul(decimal.NewFromInt(1).Add(rate)).
		Add(decimal.NewFromInt(100)).
		Round(2)
	assert.True(t, result.Points[1].TotalValue.Equal(want),
		"got %s want %s", result.Points[1].TotalValue, want)
}

func TestSimulateCoastFireCrossing(t *testing.T) {
	now := fixedNow(t)
	settings := baseSettings()
	settings.ExpectedReturns = domain.ReturnMap{}
	target := decimal.NewFromInt(5000)

	result := Simulate(ProjectionInput{
		Snapshot:            domain.PortfolioSnapshot{},
		Settings:            settings,
		MonthlyContribution: decimal.NewFromInt(1000),
		HorizonMonths:       24,
		RetirementTarget:    &target,
	})

	// Zero returns keep the coast target at the retirement target itself;
	// 1,000/month reaches 5,000 exactly at month 5.
	assert.True(t, result.CoastFire.TargetPortfolio.Equal(target))
	require.NotNil(t, result.CoastFire.Achievement)
	assert.Equal(t, 5, result.CoastFire.Achievement.MonthsUntil)
	assert.Equal(t, dateutil.AddMonths(now, 5), result.CoastFire.Achievement.Date)
	assert.True(t, result.CoastFire.Achievement.Age.Equal(decimal.NewFromFloat(35.42)),
		"got %s", result.CoastFire.Achievement.Age)
}

func TestSimulateNoCrossingWithinHorizon(t *testing.T) {
	fixedNow(t)
	settings := baseSettings()
	settings.ExpectedReturns = domain.ReturnMap{}

	result := Simulate(ProjectionInput{
		Snapshot:            domain.PortfolioSnapshot{},
		Settings:            settings,
		MonthlyContribution: decimal.NewFromInt(100),
		HorizonMonths:       12,
	})

	assert.Nil(t, result.CoastFire.Achievement)
	assert.False(t, result.CoastFire.IsAchieved())
}

func TestSimulateInflationAdjustedDisplay(t *testing.T) {
	fixedNow(t)

	result := Simulate(ProjectionInput{
		Snapshot:            equitiesSnapshot(100000),
		Settings:            baseSettings(),
		MonthlyContribution: decimal.NewFromInt(2000),
		HorizonMonths:       120,
	})

	first := result.Points[0]
	assert.True(t, first.InflationAdjusted.Equal(first.TotalValue),
		"no discount at month 0")
	for _, p := range result.Points[1:] {
		assert.True(t, p.InflationAdjusted.LessThan(p.TotalValue),
			"month %d: adjusted %s should trail nominal %s", p.MonthIndex, p.InflationAdjusted, p.TotalValue)
	}
	assert.True(t, result.FinalInflationAdjusted.LessThan(result.FinalValue))
}

// Inflation divides the displayed totals only; the simulated balances are
// identical whatever the inflation rate.
func TestSimulateInflationDoesNotTouchBalances(t *testing.T) {
	fixedNow(t)
	base := baseSettings()
	hot := baseSettings()
	hot.InflationRate = decimal.NewFromFloat(10.0)

	input := ProjectionInput{
		Snapshot:            equitiesSnapshot(50000),
		MonthlyContribution: decimal.NewFromInt(500),
		HorizonMonths:       60,
	}

	input.Settings = base
	a := Simulate(input)
	input.Settings = hot
	b := Simulate(input)

	require.Len(t, b.Points, len(a.Points))
	for i := range a.Points {
		assert.True(t, a.Points[i].TotalValue.Equal(b.Points[i].TotalValue),
			"month %d nominal diverged", i)
	}
	assert.True(t, b.FinalInflationAdjusted.LessThan(a.FinalInflationAdjusted))
}

func TestSimulateContributionSplitByOverride(t *testing.T) {
	fixedNow(t)
	settings := baseSettings()
	settings.ExpectedReturns = domain.ReturnMap{}
	override := domain.AllocationMap{
		domain.Equities: decimal.NewFromInt(60),
		domain.Bonds:    decimal.NewFromInt(40),
	}

	result := Simulate(ProjectionInput{
		Snapshot:            domain.PortfolioSnapshot{},
		Settings:            settings,
		MonthlyContribution: decimal.NewFromInt(1000),
		AllocationOverride:  override,
		HorizonMonths:       10,
	})

	last := result.Points[len(result.Points)-1]
	assert.True(t, last.ByAssetClass[domain.Equities].Equal(decimal.NewFromInt(6000)),
		"equities got %s", last.ByAssetClass[domain.Equities])
	assert.True(t, last.ByAssetClass[domain.Bonds].Equal(decimal.NewFromInt(4000)),
		"bonds got %s", last.ByAssetClass[domain.Bonds])
}
