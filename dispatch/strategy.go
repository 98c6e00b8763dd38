package dispatch

import "fmt"

// Strategy selects how a request is scheduled.
type Strategy int

const (
	// Synchronous computes on the calling goroutine.
	Synchronous Strategy = iota
	// Executor submits to the pool and blocks for the result.
	Executor
	// Async queues a fire-and-forget task that resumes the caller.
	Async
	// ManagedAsync runs on a dispatcher-owned goroutine that resumes the caller.
	ManagedAsync
	// AsyncFuture composes a pool future with a resume callback.
	AsyncFuture
)

// Strategies lists every strategy in declaration order.
var Strategies = []Strategy{Synchronous, Executor, Async, ManagedAsync, AsyncFuture}

// String returns the strategy name as used in routes.
func (s Strategy) String() string {
	switch s {
	case Synchronous:
		return "sync"
	case Executor:
		return "executor"
	case Async:
		return "async"
	case ManagedAsync:
		return "managedAsync"
	case AsyncFuture:
		return "asyncFuture"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}
