// Package server exposes the prime computation over HTTP.
//
// The application listener serves five routes under /v1/prime that differ
// only in how the computation is scheduled (see dispatch.Strategy). The
// admin listener serves /ping, /healthcheck, /metrics and /threads. App wires
// configuration, telemetry, the worker pool, the CPU gauge and the health
// registry together and runs both listeners until its context ends.
package server
