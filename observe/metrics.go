package observe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records per-endpoint request metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records one request with its duration and response status.
	RecordRequest(ctx context.Context, meta EndpointMeta, duration time.Duration, status int)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates the request instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Total number of requests per endpoint"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"http.server.errors",
		metric.WithDescription("Requests answered with a 5xx status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"http.server.duration_ms",
		metric.WithDescription("Request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordRequest(ctx context.Context, meta EndpointMeta, duration time.Duration, status int) {
	attrs := append(meta.attributes(), attribute.Int("http.response.status_code", status))
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if status >= http.StatusInternalServerError {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

// GaugeFunc reads the current value of a gauge.
type GaugeFunc func(ctx context.Context) (int64, error)

// GaugeOptions describe an observable gauge.
type GaugeOptions struct {
	Name        string
	Description string
	Unit        string
}

// RegisterGauge registers an observable int64 gauge whose value is read on
// every collection. A read error skips the observation and is returned to
// the SDK, which reports it through the global error handler.
func RegisterGauge(meter metric.Meter, opts GaugeOptions, read GaugeFunc) (metric.Registration, error) {
	gauge, err := meter.Int64ObservableGauge(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		v, err := read(ctx)
		if err != nil {
			return fmt.Errorf("gauge %s: %w", opts.Name, err)
		}
		o.ObserveInt64(gauge, v)
		return nil
	}, gauge)
}

type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return noopMetrics{}
}

func (noopMetrics) RecordRequest(context.Context, EndpointMeta, time.Duration, int) {}
