package workload

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/miradorstack/workload-simulator/internal/models"
)

// ErrSimulatedFailure reports a deliberately injected failure. Callers surface it as a
// server error; it is an expected outcome, not a defect.
var ErrSimulatedFailure = errors.New("simulated workload failure")

// Recorder receives every completed simulation.
type Recorder interface {
	RecordSimulation(outcome models.SimulationOutcome, tenantID string) error
}

// Option customises a Simulator.
type Option func(*Simulator)

// WithRNG replaces the random source.
func WithRNG(rng RNG) Option {
	return func(s *Simulator) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Simulator) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSleeper replaces the suspension used to model latency.
func WithSleeper(sleeper Sleeper) Option {
	return func(s *Simulator) {
		if sleeper != nil {
			s.sleeper = sleeper
		}
	}
}

// WithTracer sets the tracer used for simulation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Simulator) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// Simulator runs the classify, sample, wait, fail, record pipeline for one request.
// It keeps no per-request state and is safe for concurrent use.
type Simulator struct {
	logger     *slog.Logger
	classifier *Classifier
	sampler    *Sampler
	injector   *FailureInjector
	recorder   Recorder

	rng     RNG
	clock   func() time.Time
	sleeper Sleeper
	tracer  trace.Tracer
}

// NewSimulator wires the pipeline. A nil recorder discards outcomes.
func NewSimulator(logger *slog.Logger, classifier *Classifier, sampler *Sampler, injector *FailureInjector, recorder Recorder, opts ...Option) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Simulator{
		logger:     logger,
		classifier: classifier,
		sampler:    sampler,
		injector:   injector,
		recorder:   recorder,
		rng:        SystemRand,
		clock:      time.Now,
		sleeper:    TimerSleeper{},
		tracer:     noop.NewTracerProvider().Tracer("workload"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate runs one simulated request for tenantID. When the injector fails the
// request, the outcome is still returned and recorded, together with ErrSimulatedFailure.
// If ctx ends during the latency wait nothing is recorded and ctx.Err() is returned.
func (s *Simulator) Simulate(ctx context.Context, tenantID string) (models.SimulationOutcome, error) {
	if tenantID == "" {
		tenantID = models.DefaultTenantID
	}

	now := s.clock()
	tier := s.classifier.ClassifyTime(now)
	duration, category := s.sampler.Sample(tier, s.rng)

	outcome := models.SimulationOutcome{
		RequestID: uuid.NewString(),
		Tier:      tier,
		Category:  category,
		Duration:  duration,
	}

	ctx, span := s.tracer.Start(ctx, "workload.simulate", trace.WithAttributes(
		attribute.String("workload.request_id", outcome.RequestID),
		attribute.String("workload.tenant_id", tenantID),
		attribute.String("workload.tier", string(tier)),
		attribute.String("workload.category", string(category)),
		attribute.Int64("workload.duration_ms", duration.Milliseconds()),
	))
	defer span.End()

	if err := s.sleeper.Sleep(ctx, duration); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "simulation interrupted")
		s.logger.Debug("simulation interrupted",
			slog.String("request_id", outcome.RequestID),
			slog.String("tenant_id", tenantID),
			slog.Any("error", err),
		)
		return outcome, err
	}

	outcome.Succeeded = !s.injector.ShouldFail(s.rng)
	span.SetAttributes(attribute.Bool("workload.success", outcome.Succeeded))

	if s.recorder != nil {
		if err := s.recorder.RecordSimulation(outcome, tenantID); err != nil {
			s.logger.Warn("failed to record simulation", slog.String("request_id", outcome.RequestID), slog.Any("error", err))
		}
	}

	s.logger.Debug("simulation completed",
		slog.String("request_id", outcome.RequestID),
		slog.String("tenant_id", tenantID),
		slog.String("tier", string(tier)),
		slog.String("category", string(category)),
		slog.Duration("duration", duration),
		slog.Bool("success", outcome.Succeeded),
	)

	if !outcome.Succeeded {
		span.SetStatus(codes.Error, ErrSimulatedFailure.Error())
		return outcome, ErrSimulatedFailure
	}
	span.SetStatus(codes.Ok, "")
	return outcome, nil
}

// CurrentTier classifies the simulator's clock reading.
func (s *Simulator) CurrentTier() (models.TrafficTier, time.Time) {
	now := s.clock()
	return s.classifier.ClassifyTime(now), now.In(s.classifier.Location())
}

// RNG exposes the random source so companion components draw from the same stream.
func (s *Simulator) RNG() RNG {
	return s.rng
}
