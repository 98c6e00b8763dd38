package health

import (
	"context"
	"fmt"
	"net/http"
)

// StatusProbe issues one request and returns its HTTP status code.
type StatusProbe func(ctx context.Context) (int, error)

// StatusChecker is healthy when its probe answers 200 OK.
type StatusChecker struct {
	probe StatusProbe
}

// NewStatusChecker creates a checker over probe.
func NewStatusChecker(probe StatusProbe) *StatusChecker {
	return &StatusChecker{probe: probe}
}

// Check runs the probe. A non-200 status, an error, or a panic inside the
// probe yields an unhealthy result.
func (c *StatusChecker) Check(ctx context.Context) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			result = Unhealthy(fmt.Sprintf("Unhealthy: %v", p), fmt.Errorf("%w: %v", ErrCheckPanicked, p))
		}
	}()

	status, err := c.probe(ctx)
	if err != nil {
		return Unhealthy("Unhealthy: "+err.Error(), fmt.Errorf("%w: %w", ErrCheckFailed, err))
	}
	if status != http.StatusOK {
		return Unhealthy(fmt.Sprintf("Unhealthy. Status: %d", status), ErrCheckFailed)
	}
	return Healthy("")
}

var _ Checker = (*StatusChecker)(nil)
