package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"
	"go.yaml.in/yaml/v2"

	"github.com/jonwraymond/primeload/observe"
	"github.com/jonwraymond/primeload/resilience"
	"github.com/jonwraymond/primeload/workpool"
)

// Config is the complete server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Workers    WorkersConfig    `yaml:"workers"`
	Throttling ThrottlingConfig `yaml:"throttling"`
	CPUGauge   CPUGaugeConfig   `yaml:"cpuGauge"`
	Observe    ObserveConfig    `yaml:"observe"`
	Sentry     SentryConfig     `yaml:"sentry"`
}

// ServerConfig configures the two HTTP listeners.
type ServerConfig struct {
	Address         string   `yaml:"address"`
	AdminAddress    string   `yaml:"adminAddress"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// WorkersConfig sizes the shared worker pool.
type WorkersConfig struct {
	Min         int      `yaml:"min"`
	Max         int      `yaml:"max"`
	QueueSize   int      `yaml:"queueSize"`
	KeepAlive   Duration `yaml:"keepAlive"`
	NamePattern string   `yaml:"namePattern"`
}

// ThrottlingConfig configures admission control on the application routes.
type ThrottlingConfig struct {
	Enabled       bool     `yaml:"enabled"`
	MaxConcurrent int      `yaml:"maxConcurrent"`
	MaxWait       Duration `yaml:"maxWait"`
}

// CPUGaugeConfig configures the CPU usage gauge.
type CPUGaugeConfig struct {
	TTL Duration `yaml:"ttl"`
}

// ObserveConfig mirrors observe.Config.
type ObserveConfig struct {
	ServiceName string        `yaml:"serviceName"`
	Version     string        `yaml:"version"`
	Tracing     TracingConfig `yaml:"tracing"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Logging     LoggingConfig `yaml:"logging"`
}

// TracingConfig mirrors observe.TracingConfig.
type TracingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Exporter  string  `yaml:"exporter"`
	SamplePct float64 `yaml:"samplePct"`
}

// MetricsConfig mirrors observe.MetricsConfig.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// LoggingConfig mirrors observe.LoggingConfig.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

// SentryConfig configures error reporting. An empty DSN disables it.
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
	Debug       bool   `yaml:"debug"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cpus := runtime.NumCPU()
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			AdminAddress:    ":8081",
			ShutdownTimeout: Duration(30 * time.Second),
		},
		Workers: WorkersConfig{
			Min:         1,
			Max:         cpus,
			QueueSize:   4096,
			KeepAlive:   Duration(60 * time.Second),
			NamePattern: "prime-%d",
		},
		Throttling: ThrottlingConfig{
			MaxConcurrent: cpus,
			MaxWait:       Duration(5 * time.Minute),
		},
		CPUGauge: CPUGaugeConfig{
			TTL: Duration(3 * time.Second),
		},
		Observe: ObserveConfig{
			ServiceName: "primeload",
			Version:     "dev",
			Tracing:     TracingConfig{Exporter: "none", SamplePct: 1.0},
			Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
			Logging:     LoggingConfig{Enabled: true, Level: "info"},
		},
	}
}

// Load reads the file at path. An empty path yields Default.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse expands environment references in data, decodes it over Default,
// and validates the result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded, err := ExpandEnvStrict(string(data))
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.UnmarshalStrict([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Address == "" {
		errs = append(errs, fmt.Errorf("%w: address is required", ErrInvalidServer))
	}
	if c.Server.AdminAddress == "" {
		errs = append(errs, fmt.Errorf("%w: adminAddress is required", ErrInvalidServer))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: shutdownTimeout must be positive", ErrInvalidServer))
	}

	w := c.Workers
	if w.Max < 1 {
		errs = append(errs, fmt.Errorf("%w: max must be at least 1, got %d", ErrInvalidWorkers, w.Max))
	}
	if w.Min < 0 || w.Min > w.Max {
		errs = append(errs, fmt.Errorf("%w: min must be between 0 and max, got %d", ErrInvalidWorkers, w.Min))
	}
	if w.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("%w: queueSize must be at least 1, got %d", ErrInvalidWorkers, w.QueueSize))
	}
	if w.KeepAlive <= 0 {
		errs = append(errs, fmt.Errorf("%w: keepAlive must be positive", ErrInvalidWorkers))
	}

	if c.Throttling.Enabled {
		if c.Throttling.MaxConcurrent < 1 {
			errs = append(errs, fmt.Errorf("%w: maxConcurrent must be at least 1, got %d", ErrInvalidThrottling, c.Throttling.MaxConcurrent))
		}
		if c.Throttling.MaxWait < 0 {
			errs = append(errs, fmt.Errorf("%w: maxWait must not be negative", ErrInvalidThrottling))
		}
	}

	if c.CPUGauge.TTL <= 0 {
		errs = append(errs, fmt.Errorf("%w: ttl must be positive", ErrInvalidCPUGauge))
	}

	obs := c.ObserveConfig()
	if err := obs.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Sentry.DSN != "" {
		if _, err := sentry.NewDsn(c.Sentry.DSN); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidSentry, err))
		}
	}

	return errors.Join(errs...)
}

// ObserveConfig converts the observe section. Logs go to stderr.
func (c *Config) ObserveConfig() observe.Config {
	o := c.Observe
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     o.Version,
		Tracing: observe.TracingConfig{
			Enabled:   o.Tracing.Enabled,
			Exporter:  o.Tracing.Exporter,
			SamplePct: o.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.Metrics.Enabled,
			Exporter: o.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: o.Logging.Enabled,
			Level:   o.Logging.Level,
		},
	}
}

// PoolConfig converts the workers section.
func (c *Config) PoolConfig() workpool.Config {
	return workpool.Config{
		MinWorkers:  c.Workers.Min,
		MaxWorkers:  c.Workers.Max,
		QueueSize:   c.Workers.QueueSize,
		KeepAlive:   c.Workers.KeepAlive.Std(),
		NamePattern: c.Workers.NamePattern,
	}
}

// BulkheadConfig converts the throttling section.
func (c *Config) BulkheadConfig() resilience.BulkheadConfig {
	return resilience.BulkheadConfig{
		MaxConcurrent: c.Throttling.MaxConcurrent,
		MaxWait:       c.Throttling.MaxWait.Std(),
	}
}
