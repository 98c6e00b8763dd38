// Package resilience limits how much work the server admits at once.
//
// A Bulkhead caps concurrent operations, optionally letting callers queue for
// a bounded time. Throttle applies a Bulkhead to HTTP handlers and answers
// 503 Service Unavailable when no slot frees up in time.
//
//	b := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    MaxConcurrent: runtime.NumCPU(),
//	    MaxWait:       5 * time.Minute,
//	})
//	handler = resilience.Throttle(b, handler)
package resilience
