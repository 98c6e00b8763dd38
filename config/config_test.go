package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jonwraymond/primeload/resilience"
	"github.com/jonwraymond/primeload/workpool"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Workers.Max != runtime.NumCPU() {
		t.Errorf("Workers.Max = %d, want NumCPU", cfg.Workers.Max)
	}
	if cfg.Throttling.Enabled {
		t.Error("throttling enabled by default")
	}
	if cfg.Throttling.MaxWait.Std() != 5*time.Minute {
		t.Errorf("Throttling.MaxWait = %v, want 5m", cfg.Throttling.MaxWait)
	}
	if cfg.CPUGauge.TTL.Std() != 3*time.Second {
		t.Errorf("CPUGauge.TTL = %v, want 3s", cfg.CPUGauge.TTL)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("PRIMELOAD_SENTRY_DSN", "https://public@sentry.example.com/1")

	path := filepath.Join(t.TempDir(), "primeload.yml")
	data := []byte(`
server:
  address: ":9080"
  shutdownTimeout: 10s
workers:
  max: 3
  keepAlive: 2m
  namePattern: "sieve-%d"
throttling:
  enabled: true
  maxConcurrent: 2
  maxWait: 1s
cpuGauge:
  ttl: 500ms
observe:
  logging:
    level: debug
sentry:
  dsn: ${PRIMELOAD_SENTRY_DSN}
  environment: staging
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Address != ":9080" || cfg.Server.AdminAddress != ":8081" {
		t.Errorf("unexpected server section: %+v", cfg.Server)
	}
	if cfg.Sentry.DSN != "https://public@sentry.example.com/1" {
		t.Errorf("DSN not expanded: %q", cfg.Sentry.DSN)
	}
	if cfg.Observe.Logging.Level != "debug" || !cfg.Observe.Logging.Enabled {
		t.Errorf("unexpected logging section: %+v", cfg.Observe.Logging)
	}

	wantPool := workpool.Config{
		MinWorkers:  1,
		MaxWorkers:  3,
		QueueSize:   4096,
		KeepAlive:   2 * time.Minute,
		NamePattern: "sieve-%d",
	}
	if diff := cmp.Diff(wantPool, cfg.PoolConfig()); diff != "" {
		t.Errorf("PoolConfig() mismatch (-want +got):\n%s", diff)
	}

	wantBulkhead := resilience.BulkheadConfig{MaxConcurrent: 2, MaxWait: time.Second}
	if diff := cmp.Diff(wantBulkhead, cfg.BulkheadConfig()); diff != "" {
		t.Errorf("BulkheadConfig() mismatch (-want +got):\n%s", diff)
	}

	if got := cfg.CPUGauge.TTL.Std(); got != 500*time.Millisecond {
		t.Errorf("CPUGauge.TTL = %v, want 500ms", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"missing env", "sentry:\n  dsn: ${PRIMELOAD_UNSET_VAR}\n", ErrMissingEnv},
		{"bad workers", "workers:\n  max: 0\n", ErrInvalidWorkers},
		{"min above max", "workers:\n  min: 4\n  max: 2\n", ErrInvalidWorkers},
		{"bad throttling", "throttling:\n  enabled: true\n  maxConcurrent: 0\n", ErrInvalidThrottling},
		{"bad gauge ttl", "cpuGauge:\n  ttl: 0s\n", ErrInvalidCPUGauge},
		{"bad server", "server:\n  address: \"\"\n", ErrInvalidServer},
		{"bad sentry dsn", "sentry:\n  dsn: \"not a dsn\"\n", ErrInvalidSentry},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestParse_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "server:\n  port: 8080\n"},
		{"bad duration", "cpuGauge:\n  ttl: soon\n"},
		{"not a mapping", "- a\n- b\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

// TestValidate_ReportsAll verifies every broken section is reported.
func TestValidate_ReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Server.Address = ""
	cfg.Workers.QueueSize = 0
	cfg.Observe.ServiceName = ""

	err := cfg.Validate()
	for _, want := range []error{ErrInvalidServer, ErrInvalidWorkers} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
	if err == nil || !strings.Contains(err.Error(), "service name") {
		t.Errorf("expected observe validation error in %v", err)
	}
}

func TestObserveConfig(t *testing.T) {
	cfg := Default()
	obs := cfg.ObserveConfig()

	if obs.ServiceName != "primeload" || obs.Metrics.Exporter != "prometheus" {
		t.Errorf("unexpected observe config: %+v", obs)
	}
	if err := obs.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
