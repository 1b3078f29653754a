// Command traffic-budget prints how many requests a load script should send right now.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/miradorstack/workload-simulator/internal/config"
	"github.com/miradorstack/workload-simulator/internal/models"
	"github.com/miradorstack/workload-simulator/internal/utils"
	"github.com/miradorstack/workload-simulator/internal/workload"
)

func main() {
	var (
		configPath string
		tierFlag   string
		asJSON     bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&tierFlag, "tier", "", "Use this tier instead of classifying the current time (low, mid, high)")
	flag.BoolVar(&asJSON, "json", false, "Print a JSON report instead of the bare count")
	flag.Parse()

	if err := run(os.Stdout, configPath, tierFlag, asJSON, time.Now()); err != nil {
		slog.Error("traffic-budget failed", slog.String("op", utils.OpOf(err)), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(w io.Writer, configPath, tierFlag string, asJSON bool, now time.Time) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return utils.NewAppError("config.load", "failed to load config", err)
	}

	components, err := workload.FromConfig(cfg.Simulator)
	if err != nil {
		return utils.NewAppError("simulator.build", "invalid simulator tables", err)
	}

	tier := components.Classifier.ClassifyTime(now)
	if tierFlag != "" {
		if tier, err = models.ParseTrafficTier(tierFlag); err != nil {
			return utils.NewAppError("flags.tier", "invalid tier", err)
		}
	}

	report := models.TrafficReport{
		Tier:     tier,
		Requests: components.Budgeter.RequestBudget(tier, components.RNG),
		At:       now.In(components.Classifier.Location()),
	}

	if asJSON {
		return json.NewEncoder(w).Encode(report)
	}
	_, err = fmt.Fprintln(w, report.Requests)
	return err
}
