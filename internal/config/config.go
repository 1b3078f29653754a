package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/miradorstack/workload-simulator/internal/models"
)

// Config captures the settings required to boot the workload simulator.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

// ServerConfig controls listener behaviour.
type ServerConfig struct {
	HTTPAddress     string        `yaml:"httpAddress"`
	GRPCAddress     string        `yaml:"grpcAddress"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// TracingConfig controls the OpenTelemetry tracer provider.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"serviceName"`
	Pretty      bool   `yaml:"pretty"`
}

// MetricsConfig holds histogram bucket boundaries. Empty lists use the recorder defaults.
type MetricsConfig struct {
	// SimulationBuckets are milliseconds.
	SimulationBuckets []float64 `yaml:"simulationBuckets"`
	// EndpointBuckets are seconds.
	EndpointBuckets []float64 `yaml:"endpointBuckets"`
}

// SimulatorConfig describes traffic windows, latency profiles and failure injection.
type SimulatorConfig struct {
	// UTCOffset is the fixed civil-time offset used to classify traffic.
	UTCOffset time.Duration `yaml:"utcOffset"`
	// WeekendDays uses 0 for Monday through 6 for Sunday.
	WeekendDays      []int                           `yaml:"weekendDays"`
	HighTrafficHours []int                           `yaml:"highTrafficHours"`
	MidTrafficHours  []int                           `yaml:"midTrafficHours"`
	Chances          map[string]models.ChanceTable   `yaml:"chances"`
	Durations        map[string]models.DurationRange `yaml:"durations"`
	RequestBudgets   map[string]models.CountRange    `yaml:"requestBudgets"`
	FailureThreshold int                             `yaml:"failureThreshold"`
	// Seed pins the RNG when non-zero.
	Seed int64 `yaml:"seed"`
}

// Load initialises Config from an optional .env file, a YAML file and environment overrides.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(os.Getenv("WORKLOAD_SIM_ENV_FILE")); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv("WORKLOAD_SIM_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv populates the process environment from a dotenv file. Variables already set win.
// A missing default .env is not an error; a missing explicitly named file is.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			HTTPAddress:     ":8000",
			GRPCAddress:     ":50051",
			MetricsAddress:  ":9101",
			GracefulTimeout: 35 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Tracing: TracingConfig{Enabled: false, ServiceName: "workload-simulator"},
		Simulator: SimulatorConfig{
			UTCOffset:        -3 * time.Hour,
			WeekendDays:      []int{5, 6},
			HighTrafficHours: []int{10, 11, 13, 14, 15},
			MidTrafficHours:  []int{8, 9, 16, 17},
			Chances: map[string]models.ChanceTable{
				string(models.TrafficLow):  {Slow: 0.1, Sluggish: 0.05},
				string(models.TrafficMid):  {Slow: 0.1, Sluggish: 0.05},
				string(models.TrafficHigh): {Slow: 0.4, Sluggish: 0.1},
			},
			Durations: map[string]models.DurationRange{
				string(models.SpeedRegular):  {Min: 0, Max: 1},
				string(models.SpeedSlow):     {Min: 1, Max: 5},
				string(models.SpeedSluggish): {Min: 5, Max: 30},
			},
			RequestBudgets: map[string]models.CountRange{
				string(models.TrafficHigh): {Min: 100, Max: 300},
				string(models.TrafficMid):  {Min: 50, Max: 100},
				string(models.TrafficLow):  {Min: 5, Max: 10},
			},
			FailureThreshold: 90,
		},
	}
}

// Validate rejects configurations the simulator cannot honour.
func (c *Config) Validate() error {
	if err := validateBuckets("metrics.simulationBuckets", c.Metrics.SimulationBuckets); err != nil {
		return err
	}
	if err := validateBuckets("metrics.endpointBuckets", c.Metrics.EndpointBuckets); err != nil {
		return err
	}
	return c.Simulator.Validate()
}

// Validate checks the simulator tables for completeness and consistency.
func (s *SimulatorConfig) Validate() error {
	for _, day := range s.WeekendDays {
		if day < 0 || day > 6 {
			return fmt.Errorf("simulator.weekendDays: day %d outside [0,6]", day)
		}
	}
	high := make(map[int]struct{}, len(s.HighTrafficHours))
	for _, hour := range s.HighTrafficHours {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("simulator.highTrafficHours: hour %d outside [0,23]", hour)
		}
		high[hour] = struct{}{}
	}
	for _, hour := range s.MidTrafficHours {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("simulator.midTrafficHours: hour %d outside [0,23]", hour)
		}
		if _, ok := high[hour]; ok {
			return fmt.Errorf("simulator: hour %d is both high and mid traffic", hour)
		}
	}

	for key, chances := range s.Chances {
		if _, err := models.ParseTrafficTier(key); err != nil {
			return fmt.Errorf("simulator.chances: %w", err)
		}
		if chances.Slow < 0 || chances.Slow > 1 || chances.Sluggish < 0 || chances.Sluggish > 1 {
			return fmt.Errorf("simulator.chances.%s: thresholds must be within [0,1]", key)
		}
	}
	for _, tier := range models.TrafficTiers {
		if _, ok := s.Chances[string(tier)]; !ok {
			return fmt.Errorf("simulator.chances: missing tier %s", tier)
		}
	}

	for key, r := range s.Durations {
		if _, err := models.ParseSpeedCategory(key); err != nil {
			return fmt.Errorf("simulator.durations: %w", err)
		}
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("simulator.durations.%s: invalid range [%g,%g]", key, r.Min, r.Max)
		}
	}
	for _, category := range models.SpeedCategories {
		if _, ok := s.Durations[string(category)]; !ok {
			return fmt.Errorf("simulator.durations: missing category %s", category)
		}
	}

	for key, r := range s.RequestBudgets {
		if _, err := models.ParseTrafficTier(key); err != nil {
			return fmt.Errorf("simulator.requestBudgets: %w", err)
		}
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("simulator.requestBudgets.%s: invalid range [%d,%d]", key, r.Min, r.Max)
		}
	}

	if s.FailureThreshold < 0 || s.FailureThreshold > 100 {
		return fmt.Errorf("simulator.failureThreshold: %d outside [0,100]", s.FailureThreshold)
	}
	return nil
}

func validateBuckets(field string, buckets []float64) error {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return fmt.Errorf("%s: boundaries must be strictly increasing", field)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WORKLOAD_SIM_HTTP_ADDRESS"); v != "" {
		cfg.Server.HTTPAddress = v
	}
	if v := os.Getenv("WORKLOAD_SIM_GRPC_ADDRESS"); v != "" {
		cfg.Server.GRPCAddress = v
	}
	if v := os.Getenv("WORKLOAD_SIM_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("WORKLOAD_SIM_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
	if v := os.Getenv("WORKLOAD_SIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WORKLOAD_SIM_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("WORKLOAD_SIM_TRACING_ENABLED"); v != "" {
		cfg.Tracing.Enabled = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("WORKLOAD_SIM_SERVICE_NAME"); v != "" {
		cfg.Tracing.ServiceName = v
	}
	if v := os.Getenv("WORKLOAD_SIM_FAILURE_THRESHOLD"); v != "" {
		if threshold, err := strconv.Atoi(v); err == nil {
			cfg.Simulator.FailureThreshold = threshold
		}
	}
	if v := os.Getenv("WORKLOAD_SIM_UTC_OFFSET"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Simulator.UTCOffset = d
		}
	}
	if v := os.Getenv("WORKLOAD_SIM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Simulator.Seed = seed
		}
	}
	if v := os.Getenv("WORKLOAD_SIM_HIGH_TRAFFIC_HOURS"); v != "" {
		if hours, err := parseIntList(v); err == nil {
			cfg.Simulator.HighTrafficHours = hours
		}
	}
	if v := os.Getenv("WORKLOAD_SIM_MID_TRAFFIC_HOURS"); v != "" {
		if hours, err := parseIntList(v); err == nil {
			cfg.Simulator.MidTrafficHours = hours
		}
	}
}

func parseIntList(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
