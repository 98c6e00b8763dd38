package workpool

import (
	"context"
	"fmt"
	"sync"
)

// Future is the eventual result of a task.
//
// Contract:
// - Concurrency: all methods are safe for concurrent use.
// - A Future completes exactly once; later completions are ignored.
// - Callbacks registered with OnComplete run exactly once each, on the
//   completing goroutine or immediately if already complete.
type Future[T any] struct {
	done chan struct{}

	mu        sync.Mutex
	completed bool
	value     T
	err       error
	callbacks []func(T, error)
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Failed returns a future already completed with err.
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.complete(zero, err)
	return f
}

// complete sets the result and runs callbacks. It reports whether this call
// completed the future.
func (f *Future[T]) complete(value T, err error) bool {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return false
	}
	f.completed = true
	f.value = value
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(value, err)
	}
	return true
}

// Done returns a channel closed when the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future completes or ctx ends. Ending ctx does not
// cancel the underlying task.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete registers fn to run with the result.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	f.mu.Lock()
	if !f.completed {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()

	fn(value, err)
}

// Submit runs fn on the pool. A rejected submission yields a failed future;
// a panic inside fn completes the future with ErrTaskPanicked.
func Submit[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := newFuture[T]()

	err := p.enqueue(func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.complete(zero, fmt.Errorf("%w: %v", ErrTaskPanicked, r))
			}
		}()
		v, err := fn()
		f.complete(v, err)
	})
	if err != nil {
		var zero T
		f.complete(zero, err)
	}

	return f
}

// Supply runs fn on the pool and completes the future with its value.
func Supply[T any](p *Pool, fn func() T) *Future[T] {
	return Submit(p, func() (T, error) {
		return fn(), nil
	})
}

// Then returns a future completed with fn applied to f's value. Errors from
// f are passed through without calling fn. fn runs on the goroutine that
// completes f.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	next := newFuture[U]()

	f.OnComplete(func(v T, err error) {
		if err != nil {
			var zero U
			next.complete(zero, err)
			return
		}

		defer func() {
			if r := recover(); r != nil {
				var zero U
				next.complete(zero, fmt.Errorf("%w: %v", ErrTaskPanicked, r))
			}
		}()
		u, err := fn(v)
		next.complete(u, err)
	})

	return next
}
