package workload

import "github.com/miradorstack/workload-simulator/internal/models"

// Budgeter picks how many requests a load client should send for a tier.
type Budgeter struct {
	ranges map[models.TrafficTier]models.CountRange
}

// NewBudgeter copies the per-tier ranges.
func NewBudgeter(ranges map[models.TrafficTier]models.CountRange) *Budgeter {
	b := &Budgeter{ranges: make(map[models.TrafficTier]models.CountRange, len(ranges))}
	for tier, r := range ranges {
		b.ranges[tier] = r
	}
	return b
}

// RequestBudget returns a count drawn uniformly from the tier's inclusive range,
// or zero when the tier has no range.
func (b *Budgeter) RequestBudget(tier models.TrafficTier, rng RNG) int {
	r, ok := b.ranges[tier]
	if !ok || r.Max < r.Min {
		return 0
	}
	return r.Min + rng.IntN(r.Max-r.Min+1)
}
