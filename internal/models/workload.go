package models

import (
	"fmt"
	"time"
)

// TrafficTier classifies expected load for a calendar time.
type TrafficTier string

const (
	TrafficLow  TrafficTier = "low"
	TrafficMid  TrafficTier = "mid"
	TrafficHigh TrafficTier = "high"
)

// TrafficTiers lists every tier, lowest first.
var TrafficTiers = []TrafficTier{TrafficLow, TrafficMid, TrafficHigh}

// ParseTrafficTier maps a configuration key onto a TrafficTier.
func ParseTrafficTier(value string) (TrafficTier, error) {
	switch TrafficTier(value) {
	case TrafficLow, TrafficMid, TrafficHigh:
		return TrafficTier(value), nil
	default:
		return "", fmt.Errorf("unknown traffic tier %q", value)
	}
}

// SpeedCategory is the latency bucket assigned to one simulated request.
type SpeedCategory string

const (
	SpeedRegular  SpeedCategory = "regular"
	SpeedSlow     SpeedCategory = "slow"
	SpeedSluggish SpeedCategory = "sluggish"
)

// SpeedCategories lists every category in severity order, mildest first.
var SpeedCategories = []SpeedCategory{SpeedRegular, SpeedSlow, SpeedSluggish}

// ParseSpeedCategory maps a configuration key onto a SpeedCategory.
func ParseSpeedCategory(value string) (SpeedCategory, error) {
	switch SpeedCategory(value) {
	case SpeedRegular, SpeedSlow, SpeedSluggish:
		return SpeedCategory(value), nil
	default:
		return "", fmt.Errorf("unknown speed category %q", value)
	}
}

// ChanceTable holds the probability thresholds used to pick a category for one tier.
// Each threshold is compared against the same draw on its own; they are not cumulative.
type ChanceTable struct {
	Slow     float64 `yaml:"slow" json:"slow"`
	Sluggish float64 `yaml:"sluggish" json:"sluggish"`
}

// DurationRange is an inclusive range of seconds.
type DurationRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Bounds converts the range into durations.
func (r DurationRange) Bounds() (time.Duration, time.Duration) {
	return secondsToDuration(r.Min), secondsToDuration(r.Max)
}

// Contains reports whether d falls inside the range.
func (r DurationRange) Contains(d time.Duration) bool {
	lo, hi := r.Bounds()
	return d >= lo && d <= hi
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// CountRange is an inclusive range of request counts.
type CountRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// SimulationOutcome is produced once per simulated request and never persisted.
type SimulationOutcome struct {
	RequestID string
	Tier      TrafficTier
	Category  SpeedCategory
	Duration  time.Duration
	Succeeded bool
}
