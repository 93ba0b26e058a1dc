package calculation

import (
	"testing"

	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAllocationFromDollars(t *testing.T) {
	byClass := map[domain.AssetClass]decimal.Decimal{
		domain.Equities: decimal.NewFromInt(60000),
		domain.Bonds:    decimal.NewFromInt(40000),
	}

	allocation := ResolveAllocation(byClass, nil)

	assert.True(t, allocation[domain.Equities].Equal(decimal.NewFromInt(60)), "equities got %s", allocation[domain.Equities])
	assert.True(t, allocation[domain.Bonds].Equal(decimal.NewFromInt(40)), "bonds got %s", allocation[domain.Bonds])
}

func TestResolveAllocationSumsToHundred(t *testing.T) {
	tests := []struct {
		name    string
		byClass map[domain.AssetClass]decimal.Decimal
	}{
		{
			name: "uneven split",
			byClass: map[domain.AssetClass]decimal.Decimal{
				domain.Equities: decimal.NewFromFloat(12345.67),
				domain.Bonds:    decimal.NewFromFloat(891.23),
				domain.Crypto:   decimal.NewFromFloat(4567.89),
				domain.Cash:     decimal.NewFromFloat(101.11),
			},
		},
		{
			name: "single class",
			byClass: map[domain.AssetClass]decimal.Decimal{
				domain.Crypto: decimal.NewFromInt(500),
			},
		},
		{
			name:    "empty portfolio falls back to equal split",
			byClass: map[domain.AssetClass]decimal.Decimal{},
		},
	}

	tolerance := decimal.NewFromFloat(0.1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocation := ResolveAllocation(tt.byClass, nil)
			sum := allocation.Sum()
			assert.True(t, sum.Sub(decimal.NewFromInt(100)).Abs().LessThanOrEqual(tolerance),
				"allocation sums to %s", sum)
		})
	}
}

func TestResolveAllocationEmptyPortfolioDefault(t *testing.T) {
	allocation := ResolveAllocation(map[domain.AssetClass]decimal.Decimal{}, nil)

	require.Len(t, allocation, 4)
	for _, c := range domain.AllAssetClasses {
		assert.True(t, allocation[c].Equal(decimal.NewFromInt(25)), "%s got %s", c, allocation[c])
	}
}

func TestResolveAllocationZeroDollarsDefault(t *testing.T) {
	byClass := map[domain.AssetClass]decimal.Decimal{
		domain.Equities: decimal.Zero,
		domain.Cash:     decimal.Zero,
	}
	allocation := ResolveAllocation(byClass, nil)
	for _, c := range domain.AllAssetClasses {
		assert.True(t, allocation[c].Equal(decimal.NewFromInt(25)), "%s got %s", c, allocation[c])
	}
}

func TestResolveAllocationOverrideWins(t *testing.T) {
	byClass := map[domain.AssetClass]decimal.Decimal{
		domain.Equities: decimal.NewFromInt(90000),
		domain.Bonds:    decimal.NewFromInt(10000),
	}
	override := domain.AllocationMap{
		domain.Equities: decimal.NewFromInt(50),
		domain.Cash:     decimal.NewFromInt(50),
	}

	allocation := ResolveAllocation(byClass, override)

	assert.True(t, allocation[domain.Equities].Equal(decimal.NewFromInt(50)))
	assert.True(t, allocation[domain.Cash].Equal(decimal.NewFromInt(50)))
	_, hasBonds := allocation[domain.Bonds]
	assert.False(t, hasBonds, "override must be returned unchanged")
}

func TestBlendedReturn(t *testing.T) {
	tests := []struct {
		name       string
		returns    domain.ReturnMap
		allocation domain.AllocationMap
		expected   decimal.Decimal
	}{
		{
			name: "60/40 equities and bonds",
			returns: domain.ReturnMap{
				domain.Equities: decimal.NewFromFloat(7.0),
				domain.Bonds:    decimal.NewFromFloat(4.0),
			},
			allocation: domain.AllocationMap{
				domain.Equities: decimal.NewFromInt(60),
				domain.Bonds:    decimal.NewFromInt(40),
			},
			expected: decimal.NewFromFloat(5.8),
		},
		{
			name: "equal split over all classes",
			returns: domain.ReturnMap{
				domain.Equities: decimal.NewFromInt(8),
				domain.Bonds:    decimal.NewFromInt(4),
				domain.Crypto:   decimal.NewFromInt(12),
				domain.Cash:     decimal.NewFromInt(4),
			},
			allocation: domain.AllocationMap{
				domain.Equities: decimal.NewFromInt(25),
				domain.Bonds:    decimal.NewFromInt(25),
				domain.Crypto:   decimal.NewFromInt(25),
				domain.Cash:     decimal.NewFromInt(25),
			},
			expected: decimal.NewFromFloat(7.0),
		},
		{
			name: "class missing from return map contributes zero",
			returns: domain.ReturnMap{
				domain.Equities: decimal.NewFromInt(10),
			},
			allocation: domain.AllocationMap{
				domain.Equities: decimal.NewFromInt(50),
				domain.Crypto:   decimal.NewFromInt(50),
			},
			expected: decimal.NewFromInt(5),
		},
		{
			name:       "empty maps",
			returns:    domain.ReturnMap{},
			allocation: domain.AllocationMap{},
			expected:   decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blended := BlendedReturn(tt.returns, tt.allocation)
			assert.True(t, blended.Equal(tt.expected), "expected %s, got %s", tt.expected, blended)
		})
	}
}

func TestMergeReturns(t *testing.T) {
	base := domain.ReturnMap{
		domain.Equities: decimal.NewFromInt(7),
		domain.Bonds:    decimal.NewFromInt(4),
		domain.Cash:     decimal.NewFromInt(2),
	}
	override := domain.ReturnMap{
		domain.Equities: decimal.NewFromInt(9),
		domain.Crypto:   decimal.NewFromInt(15),
	}

	merged := MergeReturns(base, override)

	assert.True(t, merged[domain.Equities].Equal(decimal.NewFromInt(9)), "override wins per key")
	assert.True(t, merged[domain.Bonds].Equal(decimal.NewFromInt(4)), "base survives where not overridden")
	assert.True(t, merged[domain.Crypto].Equal(decimal.NewFromInt(15)), "override adds missing class")
	assert.True(t, merged[domain.Cash].Equal(decimal.NewFromInt(2)))
}

func TestMergeReturnsNilOverride(t *testing.T) {
	base := domain.ReturnMap{domain.Equities: decimal.NewFromInt(7)}
	merged := MergeReturns(base, nil)
	assert.True(t, merged[domain.Equities].Equal(decimal.NewFromInt(7)))
	assert.Len(t, merged, 1)
}
