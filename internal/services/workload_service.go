package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/workload-simulator/internal/api"
	"github.com/miradorstack/workload-simulator/internal/grpc/workloadv1"
	"github.com/miradorstack/workload-simulator/internal/models"
	"github.com/miradorstack/workload-simulator/internal/tenant"
	"github.com/miradorstack/workload-simulator/internal/utils"
	"github.com/miradorstack/workload-simulator/internal/workload"
)

// tenantMetadataKey carries the tenant label on inbound gRPC calls.
const tenantMetadataKey = "x-tenant-id"

// Simulator runs a single simulated request.
type Simulator interface {
	Simulate(ctx context.Context, tenantID string) (models.SimulationOutcome, error)
	CurrentTier() (models.TrafficTier, time.Time)
}

// Budgeter sizes a batch of requests for a tier.
type Budgeter interface {
	RequestBudget(tier models.TrafficTier, rng workload.RNG) int
}

// WorkloadService serves simulations over HTTP and gRPC.
type WorkloadService struct {
	workloadv1.UnimplementedSimulatorServer

	logger    *slog.Logger
	simulator Simulator
	budgeter  Budgeter
	rng       workload.RNG
	latencies *utils.LatencyTracker
}

// NewWorkloadService constructs the service facade. A nil rng uses the system source.
func NewWorkloadService(logger *slog.Logger, simulator Simulator, budgeter Budgeter, rng workload.RNG) *WorkloadService {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = workload.SystemRand
	}
	return &WorkloadService{
		logger:    logger,
		simulator: simulator,
		budgeter:  budgeter,
		rng:       rng,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Simulate runs one simulated request. The returned outcome is meaningful whenever
// the error is nil or ErrSimulatedFailure.
func (s *WorkloadService) Simulate(ctx context.Context, req models.SimulateRequest) (models.SimulationOutcome, error) {
	tenantID := strings.TrimSpace(req.TenantID)
	if tenantID == "" {
		tenantID = tenant.OrDefault(ctx)
	}

	outcome, err := s.simulator.Simulate(ctx, tenantID)
	if err != nil && !errors.Is(err, workload.ErrSimulatedFailure) {
		return outcome, err
	}

	s.latencies.Observe(outcome.Duration)
	if count := s.latencies.Total(); count >= 20 && count%20 == 0 {
		s.logger.Info("simulation latency",
			slog.Uint64("samples", count),
			slog.Duration("p95", s.latencies.Percentile(95)),
		)
	}
	return outcome, err
}

// TrafficReport returns the current tier with a request budget drawn for it.
func (s *WorkloadService) TrafficReport(_ context.Context) models.TrafficReport {
	tier, now := s.simulator.CurrentTier()
	report := models.TrafficReport{Tier: tier, At: now}
	if s.budgeter != nil {
		report.Requests = s.budgeter.RequestBudget(tier, s.rng)
	}
	return report
}

// LatencyP95 exposes the 95th percentile of recent simulated durations.
func (s *WorkloadService) LatencyP95() time.Duration {
	return s.latencies.Percentile(95)
}

// SimulateWorkload implements the gRPC unary method.
func (s *WorkloadService) SimulateWorkload(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	domainReq, err := api.FromProtoSimulateRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if domainReq.TenantID == "" {
		domainReq.TenantID = tenantFromMetadata(ctx)
	}

	outcome, err := s.Simulate(ctx, domainReq)
	switch {
	case err == nil:
		return api.ToProtoSimulateResponse(models.NewSimulateResponse(outcome)), nil
	case errors.Is(err, workload.ErrSimulatedFailure):
		st := status.New(codes.Internal, err.Error())
		if detailed, derr := st.WithDetails(api.ToProtoSimulateResponse(models.NewSimulateResponse(outcome))); derr == nil {
			st = detailed
		}
		return nil, st.Err()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, status.FromContextError(err).Err()
	default:
		s.logger.Error("simulation failed", slog.Any("error", err))
		return nil, status.Error(codes.Internal, "simulation failed")
	}
}

// Traffic implements the gRPC unary method.
func (s *WorkloadService) Traffic(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return api.ToProtoTrafficReport(s.TrafficReport(ctx)), nil
}

func tenantFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get(tenantMetadataKey) {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
