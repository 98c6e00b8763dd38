package dispatch

import (
	"context"
	"fmt"

	"github.com/jonwraymond/primeload/observe"
	"github.com/jonwraymond/primeload/prime"
	"github.com/jonwraymond/primeload/workpool"
)

// Dispatcher runs a prime.Computer using a Strategy.
//
// Contract:
// - Concurrency: safe for concurrent use; the pool is shared by all requests.
// - Errors: pool rejection and panics in the computation are returned as
//   errors for every strategy except Synchronous, where a panic propagates
//   to the caller like any handler panic.
type Dispatcher struct {
	computer prime.Computer
	pool     *workpool.Pool
	logger   observe.Logger
}

// NewDispatcher creates a dispatcher. A nil logger discards log output.
func NewDispatcher(computer prime.Computer, pool *workpool.Pool, logger observe.Logger) *Dispatcher {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &Dispatcher{
		computer: computer,
		pool:     pool,
		logger:   logger,
	}
}

// Dispatch computes the response for upto with strategy s.
func (d *Dispatcher) Dispatch(ctx context.Context, s Strategy, upto prime.Upto) (*prime.Response, error) {
	switch s {
	case Synchronous:
		return d.computer.Compute(upto), nil
	case Executor:
		return d.executor(ctx, upto)
	case Async:
		return d.async(ctx, upto)
	case ManagedAsync:
		return d.managedAsync(ctx, upto)
	case AsyncFuture:
		return d.asyncFuture(ctx, upto)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
}

func (d *Dispatcher) executor(ctx context.Context, upto prime.Upto) (*prime.Response, error) {
	return workpool.Submit(d.pool, func() (*prime.Response, error) {
		return d.computer.Compute(upto), nil
	}).Await(ctx)
}

func (d *Dispatcher) async(ctx context.Context, upto prime.Upto) (*prime.Response, error) {
	c := NewCompletion[*prime.Response]()

	err := d.pool.Execute(func() {
		d.computeInto(ctx, c, upto)
	})
	if err != nil {
		return nil, err
	}

	return c.Wait(ctx)
}

func (d *Dispatcher) managedAsync(ctx context.Context, upto prime.Upto) (*prime.Response, error) {
	c := NewCompletion[*prime.Response]()

	go d.computeInto(ctx, c, upto)

	return c.Wait(ctx)
}

func (d *Dispatcher) asyncFuture(ctx context.Context, upto prime.Upto) (*prime.Response, error) {
	c := NewCompletion[*prime.Response]()

	workpool.Supply(d.pool, func() *prime.Response {
		return d.computer.Compute(upto)
	}).OnComplete(func(resp *prime.Response, err error) {
		if err != nil {
			d.resolve(ctx, c.Fail(err))
			return
		}
		d.resolve(ctx, c.Resume(resp))
	})

	return c.Wait(ctx)
}

// computeInto runs the computation and resumes c, converting a panic into
// a failed completion.
func (d *Dispatcher) computeInto(ctx context.Context, c *Completion[*prime.Response], upto prime.Upto) {
	defer func() {
		if r := recover(); r != nil {
			d.resolve(ctx, c.Fail(fmt.Errorf("%w: %v", ErrPanicked, r)))
		}
	}()
	d.resolve(ctx, c.Resume(d.computer.Compute(upto)))
}

func (d *Dispatcher) resolve(ctx context.Context, err error) {
	if err != nil {
		d.logger.Error(ctx, "completion resumed more than once", observe.Field{Key: "error", Value: err.Error()})
	}
}
