package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func healthy(context.Context) Result   { return Healthy("") }
func unhealthy(context.Context) Result { return Unhealthy("Unhealthy. Status: 500", ErrCheckFailed) }

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry(0)
	r.Register("prime", CheckerFunc(healthy))
	r.Register("deadlocks", CheckerFunc(healthy))
	r.Register("prime", CheckerFunc(unhealthy))

	if diff := cmp.Diff([]string{"deadlocks", "prime"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	r.Unregister("deadlocks")
	if diff := cmp.Diff([]string{"prime"}, r.Names()); diff != "" {
		t.Errorf("Names() after Unregister mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Run(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register("prime", CheckerFunc(unhealthy))

	result, err := r.Run(context.Background(), "prime")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Healthy() {
		t.Error("expected unhealthy result")
	}
	if result.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}

	if _, err := r.Run(context.Background(), "missing"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Run(missing) error = %v, want ErrCheckerNotFound", err)
	}
}

func TestRegistry_RunAll(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register("a", CheckerFunc(healthy))
	r.Register("b", CheckerFunc(unhealthy))

	results := r.RunAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results["a"].Healthy() || results["b"].Healthy() {
		t.Errorf("unexpected results: %+v", results)
	}
	if AllHealthy(results) {
		t.Error("AllHealthy() = true with an unhealthy check")
	}
}

func TestRegistry_RunAllEmpty(t *testing.T) {
	results := NewRegistry(0).RunAll(context.Background())
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if !AllHealthy(results) {
		t.Error("AllHealthy() = false for no results")
	}
}

// TestRegistry_Timeout verifies a stuck check is reported unhealthy.
func TestRegistry_Timeout(t *testing.T) {
	r := NewRegistry(20 * time.Millisecond)
	release := make(chan struct{})
	defer close(release)
	r.Register("stuck", CheckerFunc(func(context.Context) Result {
		<-release
		return Healthy("")
	}))

	result, err := r.Run(context.Background(), "stuck")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Healthy() || !errors.Is(result.Error, ErrCheckTimeout) {
		t.Errorf("expected timeout result, got %+v", result)
	}
}
