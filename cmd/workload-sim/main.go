package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/miradorstack/workload-simulator/internal/api"
	"github.com/miradorstack/workload-simulator/internal/config"
	"github.com/miradorstack/workload-simulator/internal/metrics"
	"github.com/miradorstack/workload-simulator/internal/observability"
	"github.com/miradorstack/workload-simulator/internal/services"
	"github.com/miradorstack/workload-simulator/internal/utils"
	"github.com/miradorstack/workload-simulator/internal/workload"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	if err := run(configPath); err != nil {
		slog.Error("workload-simulator failed", slog.String("op", utils.OpOf(err)), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return utils.NewAppError("config.load", "failed to load config", err)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting workload-simulator",
		slog.String("http_address", cfg.Server.HTTPAddress),
		slog.String("grpc_address", cfg.Server.GRPCAddress),
	)

	recorder := metrics.New(metrics.Options{
		SimulationBuckets: cfg.Metrics.SimulationBuckets,
		EndpointBuckets:   cfg.Metrics.EndpointBuckets,
	})
	if err := recorder.Register(prometheus.DefaultRegisterer); err != nil {
		return utils.NewAppError("metrics.register", "failed to register metrics", err)
	}

	tracer, shutdownTracer, err := observability.InitTracer(cfg.Tracing)
	if err != nil {
		return utils.NewAppError("tracing.init", "failed to initialise tracer", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			logger.Warn("tracer shutdown", slog.Any("error", err))
		}
	}()

	components, err := workload.FromConfig(cfg.Simulator)
	if err != nil {
		return utils.NewAppError("simulator.build", "invalid simulator tables", err)
	}
	simulator := components.NewSimulator(logger, recorder, workload.WithTracer(tracer))
	service := services.NewWorkloadService(logger, simulator, components.Budgeter, components.RNG)

	grpcServer, err := api.NewServer(cfg.Server, service)
	if err != nil {
		return utils.NewAppError("grpc.listen", "failed to create gRPC server", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// No write timeout: sluggish simulations hold the response open for up to 30s.
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddress,
		Handler:           api.NewHTTPHandler(logger, service, recorder),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("http server listening", slog.String("address", cfg.Server.HTTPAddress))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server exited", slog.Any("error", err))
			stop()
		}
	}()

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		logger.Info("gRPC server listening", slog.String("address", grpcServer.Address()))
		if serveErr := grpcServer.Start(); serveErr != nil {
			logger.Error("gRPC server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grpcServer.GracefulTimeout())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("http server shutdown", slog.Any("error", err))
	}
	grpcServer.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	logger.Info("workload-simulator stopped", slog.Duration("p95", service.LatencyP95()))
	return nil
}
