package dispatch

import "errors"

var (
	// ErrAlreadyCompleted is returned when a Completion is resumed twice.
	ErrAlreadyCompleted = errors.New("dispatch: completion already resumed")

	// ErrUnknownStrategy is returned for an unrecognised strategy.
	ErrUnknownStrategy = errors.New("dispatch: unknown strategy")

	// ErrPanicked wraps a panic recovered while computing a response.
	ErrPanicked = errors.New("dispatch: computation panicked")
)
