package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miradorstack/workload-simulator/internal/models"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WORKLOAD_SIM_CONFIG", "")
	t.Setenv("WORKLOAD_SIM_ENV_FILE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9101", cfg.Server.MetricsAddress)
	assert.Equal(t, -3*time.Hour, cfg.Simulator.UTCOffset)
	assert.Equal(t, []int{10, 11, 13, 14, 15}, cfg.Simulator.HighTrafficHours)
	assert.Equal(t, models.ChanceTable{Slow: 0.4, Sluggish: 0.1}, cfg.Simulator.Chances["high"])
	assert.Equal(t, models.DurationRange{Min: 5, Max: 30}, cfg.Simulator.Durations["sluggish"])
	assert.Equal(t, 90, cfg.Simulator.FailureThreshold)
	assert.Empty(t, cfg.Metrics.SimulationBuckets)
}

func TestLoadYAMLMergesOverDefaults(t *testing.T) {
	t.Setenv("WORKLOAD_SIM_ENV_FILE", "")
	path := writeFile(t, "simulator.yaml", `
server:
  httpAddress: ":9000"
simulator:
  failureThreshold: 99
  chances:
    high:
      slow: 0.5
      sluggish: 0.2
  durations:
    sluggish:
      min: 2
      max: 4
metrics:
  simulationBuckets: [100, 200]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.HTTPAddress)
	assert.Equal(t, ":9101", cfg.Server.MetricsAddress)
	assert.Equal(t, 99, cfg.Simulator.FailureThreshold)
	assert.Equal(t, models.ChanceTable{Slow: 0.5, Sluggish: 0.2}, cfg.Simulator.Chances["high"])
	assert.Equal(t, models.ChanceTable{Slow: 0.1, Sluggish: 0.05}, cfg.Simulator.Chances["low"])
	assert.Equal(t, models.DurationRange{Min: 2, Max: 4}, cfg.Simulator.Durations["sluggish"])
	assert.Equal(t, []float64{100, 200}, cfg.Metrics.SimulationBuckets)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("WORKLOAD_SIM_ENV_FILE", "")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WORKLOAD_SIM_CONFIG", "")
	t.Setenv("WORKLOAD_SIM_ENV_FILE", "")
	t.Setenv("WORKLOAD_SIM_FAILURE_THRESHOLD", "95")
	t.Setenv("WORKLOAD_SIM_UTC_OFFSET", "-5h")
	t.Setenv("WORKLOAD_SIM_HIGH_TRAFFIC_HOURS", "12, 13")
	t.Setenv("WORKLOAD_SIM_LOG_FORMAT", "json")
	t.Setenv("WORKLOAD_SIM_SEED", "42")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 95, cfg.Simulator.FailureThreshold)
	assert.Equal(t, -5*time.Hour, cfg.Simulator.UTCOffset)
	assert.Equal(t, []int{12, 13}, cfg.Simulator.HighTrafficHours)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, int64(42), cfg.Simulator.Seed)
}

func TestLoadDotEnvFile(t *testing.T) {
	t.Setenv("WORKLOAD_SIM_CONFIG", "")
	envPath := writeFile(t, "sim.env", "WORKLOAD_SIM_HTTP_ADDRESS=:7070\n")
	t.Setenv("WORKLOAD_SIM_ENV_FILE", envPath)
	// godotenv sets the variable for the process; drop it after the test.
	t.Cleanup(func() { os.Unsetenv("WORKLOAD_SIM_HTTP_ADDRESS") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.HTTPAddress)
}

func TestLoadExplicitDotEnvMissing(t *testing.T) {
	t.Setenv("WORKLOAD_SIM_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	_, err := Load("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"overlapping hours", func(c *Config) { c.Simulator.MidTrafficHours = []int{10} }},
		{"hour out of range", func(c *Config) { c.Simulator.HighTrafficHours = []int{24} }},
		{"weekend out of range", func(c *Config) { c.Simulator.WeekendDays = []int{7} }},
		{"threshold above one", func(c *Config) { c.Simulator.Chances["low"] = models.ChanceTable{Slow: 1.5} }},
		{"unknown tier", func(c *Config) { c.Simulator.Chances["peak"] = models.ChanceTable{} }},
		{"missing tier", func(c *Config) { delete(c.Simulator.Chances, "mid") }},
		{"inverted range", func(c *Config) { c.Simulator.Durations["slow"] = models.DurationRange{Min: 5, Max: 1} }},
		{"missing category", func(c *Config) { delete(c.Simulator.Durations, "regular") }},
		{"inverted budget", func(c *Config) { c.Simulator.RequestBudgets["low"] = models.CountRange{Min: 10, Max: 5} }},
		{"failure threshold", func(c *Config) { c.Simulator.FailureThreshold = 101 }},
		{"unsorted buckets", func(c *Config) { c.Metrics.SimulationBuckets = []float64{500, 250} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
