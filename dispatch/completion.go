package dispatch

import (
	"context"
	"sync"
)

// Completion is a one-shot handle that resumes a parked request.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Exactly one of Resume or Fail takes effect; later calls return
//   ErrAlreadyCompleted and leave the result unchanged.
type Completion[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewCompletion creates an unresolved completion.
func NewCompletion[T any]() *Completion[T] {
	return &Completion[T]{done: make(chan struct{})}
}

// Resume completes with value.
func (c *Completion[T]) Resume(value T) error {
	return c.finish(value, nil)
}

// Fail completes with err.
func (c *Completion[T]) Fail(err error) error {
	var zero T
	return c.finish(zero, err)
}

func (c *Completion[T]) finish(value T, err error) error {
	resumed := false
	c.once.Do(func() {
		c.value = value
		c.err = err
		close(c.done)
		resumed = true
	})
	if !resumed {
		return ErrAlreadyCompleted
	}
	return nil
}

// Done returns a channel closed once the completion resolves.
func (c *Completion[T]) Done() <-chan struct{} {
	return c.done
}

// Wait parks until the completion resolves or ctx ends. Ending ctx does not
// stop the work that will eventually resolve the completion.
func (c *Completion[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.value, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
