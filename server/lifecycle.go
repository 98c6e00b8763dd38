package server

import (
	"context"
	"errors"
	"fmt"
)

// Managed is a component started before the listeners accept traffic and
// stopped after they have drained.
type Managed interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Hooks adapts a pair of functions to Managed. Either may be nil.
type Hooks struct {
	Name    string
	OnStart func(ctx context.Context) error
	OnStop  func(ctx context.Context) error
}

// Start calls OnStart.
func (h Hooks) Start(ctx context.Context) error {
	if h.OnStart == nil {
		return nil
	}
	if err := h.OnStart(ctx); err != nil {
		return fmt.Errorf("start %s: %w", h.Name, err)
	}
	return nil
}

// Stop calls OnStop.
func (h Hooks) Stop(ctx context.Context) error {
	if h.OnStop == nil {
		return nil
	}
	if err := h.OnStop(ctx); err != nil {
		return fmt.Errorf("stop %s: %w", h.Name, err)
	}
	return nil
}

// lifecycle starts components in order and stops them in reverse.
type lifecycle struct {
	managed []Managed
	started int
}

func (l *lifecycle) add(m Managed) {
	l.managed = append(l.managed, m)
}

// start stops whatever already started when a component fails.
func (l *lifecycle) start(ctx context.Context) error {
	for _, m := range l.managed[l.started:] {
		if err := m.Start(ctx); err != nil {
			return errors.Join(err, l.stop(ctx))
		}
		l.started++
	}
	return nil
}

func (l *lifecycle) stop(ctx context.Context) error {
	var errs []error
	for ; l.started > 0; l.started-- {
		if err := l.managed[l.started-1].Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// stopAll stops every component regardless of whether it was started.
func (l *lifecycle) stopAll(ctx context.Context) error {
	l.started = len(l.managed)
	return l.stop(ctx)
}
