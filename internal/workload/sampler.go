package workload

import (
	"fmt"
	"time"

	"github.com/miradorstack/workload-simulator/internal/models"
)

// LatencyProfile holds the per-tier chance tables and per-category duration ranges.
type LatencyProfile struct {
	Chances   map[models.TrafficTier]models.ChanceTable
	Durations map[models.SpeedCategory]models.DurationRange
}

// Sampler draws a speed category and a duration for a tier.
type Sampler struct {
	chances   map[models.TrafficTier]models.ChanceTable
	durations map[models.SpeedCategory]models.DurationRange
}

// NewSampler copies the profile so later mutation by the caller has no effect.
func NewSampler(p LatencyProfile) (*Sampler, error) {
	s := &Sampler{
		chances:   make(map[models.TrafficTier]models.ChanceTable, len(p.Chances)),
		durations: make(map[models.SpeedCategory]models.DurationRange, len(p.Durations)),
	}
	for _, tier := range models.TrafficTiers {
		table, ok := p.Chances[tier]
		if !ok {
			return nil, fmt.Errorf("no chance table for tier %s", tier)
		}
		if table.Slow < 0 || table.Slow > 1 || table.Sluggish < 0 || table.Sluggish > 1 {
			return nil, fmt.Errorf("chance table for tier %s outside [0,1]", tier)
		}
		s.chances[tier] = table
	}
	for _, category := range models.SpeedCategories {
		r, ok := p.Durations[category]
		if !ok {
			return nil, fmt.Errorf("no duration range for category %s", category)
		}
		if r.Min < 0 || r.Max < r.Min {
			return nil, fmt.Errorf("invalid duration range for category %s", category)
		}
		s.durations[category] = r
	}
	return s, nil
}

// Sample draws twice from rng: once to pick the category, once for the duration.
// Unknown tiers sample with the low-traffic table.
func (s *Sampler) Sample(tier models.TrafficTier, rng RNG) (time.Duration, models.SpeedCategory) {
	category := s.Category(tier, rng.Float64())
	return s.duration(category, rng.Float64()), category
}

// Category selects a category for draw c in [0,1). Sluggish is checked first, then slow,
// each against its own threshold.
func (s *Sampler) Category(tier models.TrafficTier, c float64) models.SpeedCategory {
	table, ok := s.chances[tier]
	if !ok {
		table = s.chances[models.TrafficLow]
	}
	switch {
	case c < table.Sluggish:
		return models.SpeedSluggish
	case c < table.Slow:
		return models.SpeedSlow
	default:
		return models.SpeedRegular
	}
}

// Range returns the configured duration range for a category.
func (s *Sampler) Range(category models.SpeedCategory) models.DurationRange {
	return s.durations[category]
}

func (s *Sampler) duration(category models.SpeedCategory, u float64) time.Duration {
	lo, hi := s.durations[category].Bounds()
	d := lo + time.Duration(u*float64(hi-lo))
	if d < lo {
		d = lo
	}
	if d > hi {
		d = hi
	}
	return d
}
