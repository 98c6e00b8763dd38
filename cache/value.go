package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNilLoader is returned by Get when the Value has no loader.
var ErrNilLoader = errors.New("cache: loader is nil")

// Loader produces a fresh value.
type Loader[T any] func(ctx context.Context) (T, error)

type options struct {
	now func() time.Time
}

// Option configures a Value.
type Option func(*options)

// WithClock overrides the clock used for expiry. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Value caches the result of a Loader for a fixed TTL.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - TTL <= 0 disables caching: every Get loads.
// - Errors: a failed load leaves the previous state untouched.
type Value[T any] struct {
	load Loader[T]
	ttl  time.Duration
	now  func() time.Time

	mu        sync.RWMutex
	value     T
	expiresAt time.Time
	loaded    bool

	group singleflight.Group
}

// NewValue creates a Value that reloads through load once ttl has elapsed.
func NewValue[T any](ttl time.Duration, load Loader[T], opts ...Option) *Value[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Value[T]{
		load: load,
		ttl:  ttl,
		now:  o.now,
	}
}

// TTL returns the configured time to live.
func (v *Value[T]) TTL() time.Duration {
	return v.ttl
}

// Get returns the cached value, loading a fresh one when it is missing or
// expired.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	if val, ok := v.fresh(); ok {
		return val, nil
	}

	if v.load == nil {
		var zero T
		return zero, ErrNilLoader
	}

	res, err, _ := v.group.Do("value", func() (any, error) {
		// Another flight may have stored a value while this one queued.
		if val, ok := v.fresh(); ok {
			return val, nil
		}

		val, err := v.load(ctx)
		if err != nil {
			return nil, err
		}

		v.mu.Lock()
		v.value = val
		v.expiresAt = v.now().Add(v.ttl)
		v.loaded = true
		v.mu.Unlock()
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// Invalidate drops the cached value so the next Get loads.
func (v *Value[T]) Invalidate() {
	v.mu.Lock()
	v.loaded = false
	v.mu.Unlock()
}

func (v *Value[T]) fresh() (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.loaded || v.ttl <= 0 || !v.now().Before(v.expiresAt) {
		var zero T
		return zero, false
	}
	return v.value, true
}
