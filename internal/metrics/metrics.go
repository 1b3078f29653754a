package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miradorstack/workload-simulator/internal/models"
)

// Recorder owns the simulator's Prometheus collectors.
type Recorder struct {
	simulationDuration *prometheus.HistogramVec
	endpointCalls      *prometheus.CounterVec
	endpointTime       *prometheus.HistogramVec
}

// Options configures histogram boundaries. Nil slices fall back to defaults.
type Options struct {
	// SimulationBuckets are milliseconds.
	SimulationBuckets []float64
	// EndpointBuckets are seconds.
	EndpointBuckets []float64
}

// DefaultSimulationBuckets are the millisecond boundaries of the simulation histogram.
var DefaultSimulationBuckets = []float64{250, 500, 750, 1000, 2500, 5000, 10000, 20000, 30000, 60000}

// New constructs unregistered collectors.
func New(opts Options) *Recorder {
	simulationBuckets := opts.SimulationBuckets
	if len(simulationBuckets) == 0 {
		simulationBuckets = DefaultSimulationBuckets
	}
	endpointBuckets := opts.EndpointBuckets
	if len(endpointBuckets) == 0 {
		endpointBuckets = prometheus.DefBuckets
	}

	return &Recorder{
		simulationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "simulated_workload_duration_milliseconds",
				Help:    "Simulated workload latency in milliseconds, partitioned by outcome and tenant.",
				Buckets: simulationBuckets,
			},
			[]string{"success", "tenant_id"},
		),
		endpointCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "endpoint_call_counter",
				Help: "Counter representing the number of calls to each endpoint URL by return status code.",
			},
			[]string{"url", "status_code"},
		),
		endpointTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "endpoint_time_histogram",
				Help:    "Time taken to complete each request in seconds, by URL and status code.",
				Buckets: endpointBuckets,
			},
			[]string{"url", "status_code"},
		),
	}
}

// Register attaches the collectors to the supplied Prometheus registerer.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		r.simulationDuration,
		r.endpointCalls,
		r.endpointTime,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// RecordSimulation observes a completed simulation in milliseconds.
func (r *Recorder) RecordSimulation(outcome models.SimulationOutcome, tenantID string) error {
	if tenantID == "" {
		tenantID = models.DefaultTenantID
	}
	observer, err := r.simulationDuration.GetMetricWithLabelValues(strconv.FormatBool(outcome.Succeeded), tenantID)
	if err != nil {
		return fmt.Errorf("simulation histogram: %w", err)
	}
	duration := outcome.Duration
	if duration < 0 {
		duration = 0
	}
	observer.Observe(float64(duration) / float64(time.Millisecond))
	return nil
}

// ObserveEndpoint counts one completed HTTP request and records its latency.
func (r *Recorder) ObserveEndpoint(url string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	r.endpointCalls.WithLabelValues(url, code).Inc()
	if duration < 0 {
		duration = 0
	}
	r.endpointTime.WithLabelValues(url, code).Observe(duration.Seconds())
}
