// Package health provides named health checks and the admin handlers that
// report them.
//
// A Registry holds Checkers by name and runs them concurrently under a
// shared timeout. StatusChecker turns an HTTP status probe into a check, so
// a service can verify its own request path end to end.
package health
