// Command load-driver replays tier-sized bursts against a running simulator for local dashboards.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/miradorstack/workload-simulator/internal/models"
	"github.com/miradorstack/workload-simulator/internal/tenant"
	"github.com/miradorstack/workload-simulator/internal/utils"
)

type driver struct {
	logger      *slog.Logger
	client      *http.Client
	target      string
	tenants     []string
	concurrency int
}

type roundSummary struct {
	Tier     models.TrafficTier
	Requests int
	Statuses map[int]int
	Errors   int
}

func main() {
	var (
		target      string
		tenants     string
		rounds      int
		interval    time.Duration
		concurrency int
	)
	flag.StringVar(&target, "target", "http://localhost:8000", "Simulator HTTP base URL")
	flag.StringVar(&tenants, "tenants", "acme,globex,initech", "Comma separated tenant labels, used round-robin")
	flag.IntVar(&rounds, "rounds", 0, "Number of bursts to send (0 runs until interrupted)")
	flag.DurationVar(&interval, "interval", time.Minute, "Pause between bursts")
	flag.IntVar(&concurrency, "concurrency", 32, "Maximum in-flight requests")
	flag.Parse()

	logger := utils.NewLogger("info", false)
	d := newDriver(logger, target, strings.Split(tenants, ","), concurrency)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for i := 0; rounds == 0 || i < rounds; i++ {
		summary, err := d.round(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("burst failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("burst completed",
			slog.String("tier", string(summary.Tier)),
			slog.Int("requests", summary.Requests),
			slog.Any("statuses", summary.Statuses),
			slog.Int("errors", summary.Errors),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func newDriver(logger *slog.Logger, target string, tenants []string, concurrency int) *driver {
	cleaned := make([]string, 0, len(tenants))
	for _, t := range tenants {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		cleaned = []string{models.DefaultTenantID}
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &driver{
		logger: logger,
		// Sluggish simulations take up to 30s.
		client:      &http.Client{Timeout: 45 * time.Second},
		target:      strings.TrimRight(target, "/"),
		tenants:     cleaned,
		concurrency: concurrency,
	}
}

func (d *driver) traffic(ctx context.Context) (models.TrafficReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.target+"/traffic", nil)
	if err != nil {
		return models.TrafficReport{}, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return models.TrafficReport{}, fmt.Errorf("fetch traffic: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.TrafficReport{}, fmt.Errorf("fetch traffic: unexpected status %d", resp.StatusCode)
	}

	var report models.TrafficReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return models.TrafficReport{}, fmt.Errorf("decode traffic: %w", err)
	}
	return report, nil
}

func (d *driver) simulate(ctx context.Context, tenantID string) (int, error) {
	body, err := json.Marshal(map[string]string{"tenant_id": tenantID})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.target+"/simulate-workload", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tenant.HeaderName, tenantID)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// round asks the simulator for the current budget and sends that many requests.
func (d *driver) round(ctx context.Context) (roundSummary, error) {
	report, err := d.traffic(ctx)
	if err != nil {
		return roundSummary{}, err
	}

	summary := roundSummary{Tier: report.Tier, Requests: report.Requests, Statuses: map[int]int{}}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, d.concurrency)
	)
	for i := 0; i < report.Requests; i++ {
		select {
		case <-ctx.Done():
			wg.Wait()
			return summary, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(tenantID string) {
			defer wg.Done()
			defer func() { <-sem }()

			code, err := d.simulate(ctx, tenantID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					d.logger.Debug("simulate request failed", slog.Any("error", err))
				}
				summary.Errors++
				return
			}
			summary.Statuses[code]++
		}(d.tenants[i%len(d.tenants)])
	}
	wg.Wait()
	return summary, nil
}
