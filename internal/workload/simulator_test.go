package workload

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/miradorstack/workload-simulator/internal/models"
)

type sleepLog struct {
	mu    sync.Mutex
	calls []time.Duration
	err   error
}

func (s *sleepLog) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, d)
	return s.err
}

func newTestSimulator(rng RNG, sleeper Sleeper, recorder Recorder, opts ...Option) *Simulator {
	opts = append([]Option{
		WithRNG(rng),
		WithSleeper(sleeper),
		WithClock(func() time.Time { return wednesday11 }),
	}, opts...)
	return defaultComponents().NewSimulator(nil, recorder, opts...)
}

func TestSimulateSuccess(t *testing.T) {
	sleeper := &sleepLog{}
	recorder := &fakeRecorder{}
	sim := newTestSimulator(&scriptedRand{floats: []float64{0.05, 0.5}, ints: []int{10}}, sleeper, recorder)

	outcome, err := sim.Simulate(context.Background(), "tenant-a")
	require.NoError(t, err)

	assert.Equal(t, models.TrafficHigh, outcome.Tier)
	assert.Equal(t, models.SpeedSluggish, outcome.Category)
	assert.Equal(t, 17500*time.Millisecond, outcome.Duration)
	assert.True(t, outcome.Succeeded)
	assert.NotEmpty(t, outcome.RequestID)

	require.Equal(t, []time.Duration{17500 * time.Millisecond}, sleeper.calls)
	require.Len(t, recorder.records, 1)
	assert.Equal(t, "tenant-a", recorder.records[0].tenant)
	assert.Equal(t, outcome, recorder.records[0].outcome)
}

func TestSimulateInjectedFailure(t *testing.T) {
	recorder := &fakeRecorder{}
	sim := newTestSimulator(&scriptedRand{floats: []float64{0.9, 0.1}, ints: []int{100}}, &sleepLog{}, recorder)

	outcome, err := sim.Simulate(context.Background(), "")
	require.ErrorIs(t, err, ErrSimulatedFailure)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, models.SpeedRegular, outcome.Category)
	require.Equal(t, 1, recorder.count())
	assert.Equal(t, models.DefaultTenantID, recorder.records[0].tenant)
	assert.False(t, recorder.records[0].outcome.Succeeded)
}

func TestSimulateCancelledIsNotRecorded(t *testing.T) {
	recorder := &fakeRecorder{}
	sleeper := &sleepLog{err: context.Canceled}
	sim := newTestSimulator(&scriptedRand{floats: []float64{0.5}, ints: []int{0}}, sleeper, recorder)

	_, err := sim.Simulate(context.Background(), "tenant-a")
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, recorder.count())
}

func TestSimulateRecorderErrorIsDropped(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("sink unavailable")}
	sim := newTestSimulator(&scriptedRand{floats: []float64{0.5}, ints: []int{0}}, &sleepLog{}, recorder)

	outcome, err := sim.Simulate(context.Background(), "tenant-a")
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded)
	assert.Equal(t, 1, recorder.count())
}

func TestSimulateNilRecorder(t *testing.T) {
	sim := newTestSimulator(&scriptedRand{floats: []float64{0.5}, ints: []int{0}}, &sleepLog{}, nil)
	_, err := sim.Simulate(context.Background(), "tenant-a")
	require.NoError(t, err)
}

func TestSimulateConcurrent(t *testing.T) {
	recorder := &fakeRecorder{}
	sim := newTestSimulator(NewSeededRand(99), SleeperFunc(func(context.Context, time.Duration) error { return nil }), recorder)

	const workers = 64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			outcome, err := sim.Simulate(context.Background(), "tenant-a")
			if err != nil && !errors.Is(err, ErrSimulatedFailure) {
				t.Errorf("unexpected error: %v", err)
			}
			if !defaultSampler().Range(outcome.Category).Contains(outcome.Duration) {
				t.Errorf("duration %v outside %s range", outcome.Duration, outcome.Category)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, workers, recorder.count())
}

func TestSimulateEmitsSpan(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	sim := newTestSimulator(
		&scriptedRand{floats: []float64{0.2, 0.0}, ints: []int{0}},
		&sleepLog{},
		&fakeRecorder{},
		WithTracer(provider.Tracer("test")),
	)
	_, err := sim.Simulate(context.Background(), "tenant-b")
	require.NoError(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "workload.simulate", ended[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "high", attrs["workload.tier"].AsString())
	assert.Equal(t, "slow", attrs["workload.category"].AsString())
	assert.Equal(t, "tenant-b", attrs["workload.tenant_id"].AsString())
	assert.True(t, attrs["workload.success"].AsBool())
}

func TestCurrentTier(t *testing.T) {
	sim := newTestSimulator(SystemRand, &sleepLog{}, nil)
	tier, local := sim.CurrentTier()
	assert.Equal(t, models.TrafficHigh, tier)
	assert.Equal(t, 11, local.Hour())
}

func TestTimerSleeper(t *testing.T) {
	var sleeper TimerSleeper
	require.NoError(t, sleeper.Sleep(context.Background(), time.Millisecond))
	require.NoError(t, sleeper.Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := sleeper.Sleep(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
