package workload

import (
	"sync"
	"time"

	"github.com/miradorstack/workload-simulator/internal/config"
	"github.com/miradorstack/workload-simulator/internal/models"
)

// scriptedRand replays fixed draws, cycling when exhausted.
type scriptedRand struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *scriptedRand) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	if v >= n {
		v = n - 1
	}
	return v
}

func defaultComponents() Components {
	c, err := FromConfig(config.Default().Simulator)
	if err != nil {
		panic(err)
	}
	return c
}

func defaultSampler() *Sampler {
	return defaultComponents().Sampler
}

// wednesday11 is 11:00 on Wednesday 2024-01-03 in UTC-3.
var wednesday11 = time.Date(2024, time.January, 3, 14, 0, 0, 0, time.UTC)

type recordedOutcome struct {
	outcome models.SimulationOutcome
	tenant  string
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []recordedOutcome
	err     error
}

func (f *fakeRecorder) RecordSimulation(outcome models.SimulationOutcome, tenantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, recordedOutcome{outcome: outcome, tenant: tenantID})
	return f.err
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}
