// Package observe provides observability primitives for the HTTP endpoints.
//
// An Observer owns the OpenTelemetry tracer and meter providers and a
// structured JSON logger. Middleware times each endpoint, records a span and
// request metrics, and writes one log line per request. RegisterGauge exposes
// sampled values such as CPU load as observable gauges.
package observe
