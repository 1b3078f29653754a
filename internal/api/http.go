package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"

	"github.com/miradorstack/workload-simulator/internal/models"
	"github.com/miradorstack/workload-simulator/internal/tenant"
	"github.com/miradorstack/workload-simulator/internal/workload"
)

// WorkloadService is the domain facade served over HTTP.
type WorkloadService interface {
	Simulate(ctx context.Context, req models.SimulateRequest) (models.SimulationOutcome, error)
	TrafficReport(ctx context.Context) models.TrafficReport
}

// EndpointObserver records one completed HTTP request.
type EndpointObserver interface {
	ObserveEndpoint(url string, statusCode int, duration time.Duration)
}

type simulateBody struct {
	TenantID string `json:"tenant_id"`
}

// NewHTTPHandler builds the HTTP routes. A nil observer disables call counting.
func NewHTTPHandler(logger *slog.Logger, service WorkloadService, observer EndpointObserver) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &httpHandlers{logger: logger, service: service}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /simulate-workload", h.simulate)
	mux.HandleFunc("GET /traffic", h.traffic)
	mux.HandleFunc("GET /health", h.health)

	var handler http.Handler = tenant.Middleware(mux)
	if observer != nil {
		handler = instrument(observer, handler)
	}
	return handler
}

// instrument counts every request by path and status code once the handler returns.
func instrument(observer EndpointObserver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		observer.ObserveEndpoint(r.URL.Path, m.Code, m.Duration)
	})
}

type httpHandlers struct {
	logger  *slog.Logger
	service WorkloadService
}

func (h *httpHandlers) simulate(w http.ResponseWriter, r *http.Request) {
	var body simulateBody
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid JSON body"})
			return
		}
	}

	req := models.SimulateRequest{TenantID: strings.TrimSpace(body.TenantID)}
	if req.TenantID == "" {
		req.TenantID = tenant.OrDefault(r.Context())
	}

	outcome, err := h.service.Simulate(r.Context(), req)
	resp := models.NewSimulateResponse(outcome)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, workload.ErrSimulatedFailure):
		writeJSON(w, http.StatusInternalServerError, resp)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		resp.Success = false
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		h.logger.Error("simulation failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "internal error"})
	}
}

func (h *httpHandlers) traffic(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.TrafficReport(r.Context()))
}

func (h *httpHandlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, "ok")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
