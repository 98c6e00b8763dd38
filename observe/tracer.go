package observe

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EndpointMeta describes an HTTP endpoint for telemetry purposes.
type EndpointMeta struct {
	Name   string // Stable endpoint name, e.g. "prime.executor" (required)
	Method string // HTTP method, e.g. "GET"
	Route  string // Route pattern, e.g. "/v1/prime/executor"
}

// SpanName returns "<METHOD> <route>", falling back to Name when no route
// is set.
func (m EndpointMeta) SpanName() string {
	if m.Route == "" {
		return m.Name
	}
	if m.Method == "" {
		return m.Route
	}
	return m.Method + " " + m.Route
}

// Validate checks the required fields.
func (m EndpointMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingEndpointName
	}
	return nil
}

func (m EndpointMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("endpoint.name", m.Name)}
	if m.Method != "" {
		attrs = append(attrs, attribute.String("http.request.method", m.Method))
	}
	if m.Route != "" {
		attrs = append(attrs, attribute.String("http.route", m.Route))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with endpoint-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a server span for one request.
	StartSpan(ctx context.Context, meta EndpointMeta) (context.Context, trace.Span)

	// EndSpan records the response status and ends the span.
	EndSpan(span trace.Span, status int)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta EndpointMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(meta.attributes()...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// EndSpan marks 5xx responses as errors, following the HTTP server
// semantic conventions.
func (t *tracerImpl) EndSpan(span trace.Span, status int) {
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	span.End()
}
