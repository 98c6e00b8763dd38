package observe

import (
	"net/http"
	"time"
)

// Middleware wraps HTTP handlers with tracing, request metrics, and an
// access log line.
//
// Contract:
//   - Concurrency: handlers returned by Handler are safe for concurrent use.
//   - The wrapped handler's response is passed through unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// MiddlewareFromObserver builds a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Handler times next as the endpoint described by meta.
func (m *Middleware) Handler(meta EndpointMeta, next http.Handler) http.Handler {
	logger := m.logger.With(
		Field{Key: "endpoint", Value: meta.Name},
		Field{Key: "route", Value: meta.Route},
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := m.tracer.StartSpan(r.Context(), meta)
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			// Runs during a panic too, so an escaping panic is still
			// timed and the span is closed.
			status := rec.statusOrDefault()
			if p := recover(); p != nil {
				status = http.StatusInternalServerError
				defer panic(p)
			}

			duration := time.Since(start)
			m.tracer.EndSpan(span, status)
			m.metrics.RecordRequest(ctx, meta, duration, status)

			fields := []Field{
				{Key: "status", Value: status},
				{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
			}
			if status >= http.StatusInternalServerError {
				logger.Error(ctx, "request failed", fields...)
			} else {
				logger.Info(ctx, "request completed", fields...)
			}
		}()

		next.ServeHTTP(rec, r.WithContext(ctx))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) statusOrDefault() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
