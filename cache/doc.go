// Package cache provides a TTL-cached single value.
//
// A Value loads through a caller-supplied Loader and serves the result until
// its TTL elapses. Concurrent callers that find the value stale share one
// load. Load errors are returned to every waiting caller and are never
// cached.
package cache
