package workload

import "fmt"

// FailureInjector decides whether a simulated request fails. It never retries.
type FailureInjector struct {
	threshold int
}

// NewFailureInjector builds an injector. A threshold of 90 fails roughly one request in ten.
func NewFailureInjector(threshold int) (*FailureInjector, error) {
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("failure threshold %d outside [0,100]", threshold)
	}
	return &FailureInjector{threshold: threshold}, nil
}

// ShouldFail draws once from rng using the configured threshold.
func (f *FailureInjector) ShouldFail(rng RNG) bool {
	return ShouldFail(f.threshold, rng)
}

// Threshold returns the configured threshold.
func (f *FailureInjector) Threshold() int {
	return f.threshold
}

// ShouldFail draws an integer in [0,100] and reports whether it exceeds threshold.
func ShouldFail(threshold int, rng RNG) bool {
	return rng.IntN(101) > threshold
}
