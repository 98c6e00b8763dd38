package workpool

import "errors"

var (
	// ErrQueueFull is returned when a task is rejected because the queue is full.
	ErrQueueFull = errors.New("workpool: queue full")

	// ErrPoolClosed is returned when a task is submitted after Shutdown.
	ErrPoolClosed = errors.New("workpool: pool closed")

	// ErrTaskPanicked wraps a panic recovered from a submitted task.
	ErrTaskPanicked = errors.New("workpool: task panicked")
)
