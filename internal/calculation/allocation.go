package calculation

import (
	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ResolveAllocation derives a percentage allocation from the per-class dollar
// breakdown. An explicit override wins unchanged; its bounds and sum are the
// scenario validator's responsibility.
//
// An all-zero breakdown with no override resolves to an equal split across
// the canonical classes so downstream blended-return math never divides by
// zero.
func ResolveAllocation(byAssetClass map[domain.AssetClass]decimal.Decimal, override domain.AllocationMap) domain.AllocationMap {
	if override != nil {
		return override
	}

	total := decimal.Zero
	for _, v := range byAssetClass {
		total = total.Add(v)
	}

	if total.IsZero() {
		equal := hundred.Div(decimal.NewFromInt(int64(len(domain.AllAssetClasses))))
		allocation := make(domain.AllocationMap, len(domain.AllAssetClasses))
		for _, c := range domain.AllAssetClasses {
			allocation[c] = equal
		}
		return allocation
	}

	allocation := make(domain.AllocationMap, len(byAssetClass))
	for c, v := range byAssetClass {
		allocation[c] = v.Div(total).Mul(hundred)
	}
	return allocation
}

// BlendedReturn combines per-class annual returns with an allocation into a
// single weighted annual return in percent. Classes missing from either map
// contribute zero.
func BlendedReturn(returns domain.ReturnMap, allocation domain.AllocationMap) decimal.Decimal {
	blended := decimal.Zero
	for _, c := range domain.AllAssetClasses {
		weight, ok := allocation[c]
		if !ok {
			continue
		}
		annual, ok := returns[c]
		if !ok {
			continue
		}
		blended = blended.Add(weight.Div(hundred).Mul(annual))
	}
	return blended
}

// MergeReturns overlays scenario return overrides onto the base return map,
// key-wise over the closed class set. Override wins per key; classes absent
// from both maps stay absent.
func MergeReturns(base domain.ReturnMap, override domain.ReturnMap) domain.ReturnMap {
	merged := make(domain.ReturnMap, len(domain.AllAssetClasses))
	for _, c := range domain.AllAssetClasses {
		if v, ok := override[c]; ok {
			merged[c] = v
			continue
		}
		if v, ok := base[c]; ok {
			merged[c] = v
		}
	}
	return merged
}
