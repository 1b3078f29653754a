package workload

import (
	"fmt"
	"log/slog"

	"github.com/miradorstack/workload-simulator/internal/config"
	"github.com/miradorstack/workload-simulator/internal/models"
)

// Components bundles the immutable tables built from configuration.
type Components struct {
	Classifier *Classifier
	Sampler    *Sampler
	Injector   *FailureInjector
	Budgeter   *Budgeter
	RNG        RNG
}

// FromConfig builds every simulator table from cfg.
func FromConfig(cfg config.SimulatorConfig) (Components, error) {
	classifier, err := NewClassifier(TrafficWindows{
		WeekendDays: cfg.WeekendDays,
		HighHours:   cfg.HighTrafficHours,
		MidHours:    cfg.MidTrafficHours,
		UTCOffset:   cfg.UTCOffset,
	})
	if err != nil {
		return Components{}, fmt.Errorf("traffic windows: %w", err)
	}

	profile := LatencyProfile{
		Chances:   make(map[models.TrafficTier]models.ChanceTable, len(cfg.Chances)),
		Durations: make(map[models.SpeedCategory]models.DurationRange, len(cfg.Durations)),
	}
	for key, table := range cfg.Chances {
		tier, err := models.ParseTrafficTier(key)
		if err != nil {
			return Components{}, err
		}
		profile.Chances[tier] = table
	}
	for key, r := range cfg.Durations {
		category, err := models.ParseSpeedCategory(key)
		if err != nil {
			return Components{}, err
		}
		profile.Durations[category] = r
	}
	sampler, err := NewSampler(profile)
	if err != nil {
		return Components{}, fmt.Errorf("latency profile: %w", err)
	}

	injector, err := NewFailureInjector(cfg.FailureThreshold)
	if err != nil {
		return Components{}, err
	}

	budgets := make(map[models.TrafficTier]models.CountRange, len(cfg.RequestBudgets))
	for key, r := range cfg.RequestBudgets {
		tier, err := models.ParseTrafficTier(key)
		if err != nil {
			return Components{}, err
		}
		budgets[tier] = r
	}

	rng := SystemRand
	if cfg.Seed != 0 {
		rng = NewSeededRand(cfg.Seed)
	}

	return Components{
		Classifier: classifier,
		Sampler:    sampler,
		Injector:   injector,
		Budgeter:   NewBudgeter(budgets),
		RNG:        rng,
	}, nil
}

// NewSimulator wires a Simulator from the components, using their RNG unless an
// option overrides it.
func (c Components) NewSimulator(logger *slog.Logger, recorder Recorder, opts ...Option) *Simulator {
	opts = append([]Option{WithRNG(c.RNG)}, opts...)
	return NewSimulator(logger, c.Classifier, c.Sampler, c.Injector, recorder, opts...)
}
