package gauge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/jonwraymond/primeload/cache"
)

// DefaultTTL is how long a CPU sample is reused.
const DefaultTTL = 3 * time.Second

// ErrNoSample is returned when the system reports no CPU figures.
var ErrNoSample = errors.New("gauge: no cpu sample available")

// Sampler reports system CPU load as a fraction in [0, 1].
type Sampler func(ctx context.Context) (float64, error)

// SystemCPULoad reports the aggregate CPU load of the host since the
// previous call.
func SystemCPULoad(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("gauge: read cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return 0, ErrNoSample
	}
	return percents[0] / 100, nil
}

// CPUGauge reports CPU usage as a whole percentage, caching each sample for
// a TTL.
type CPUGauge struct {
	value *cache.Value[int]
}

// NewCPUGauge creates a gauge over sampler. A non-positive ttl falls back to
// DefaultTTL and a nil sampler to SystemCPULoad.
func NewCPUGauge(ttl time.Duration, sampler Sampler, opts ...cache.Option) *CPUGauge {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sampler == nil {
		sampler = SystemCPULoad
	}
	return &CPUGauge{
		value: cache.NewValue(ttl, func(ctx context.Context) (int, error) {
			load, err := sampler(ctx)
			if err != nil {
				return 0, err
			}
			return Percent(load), nil
		}, opts...),
	}
}

// Sample returns the cached usage percentage, refreshing it once the TTL has
// elapsed.
func (g *CPUGauge) Sample(ctx context.Context) (int, error) {
	return g.value.Get(ctx)
}

// Int64 adapts Sample to observe.GaugeFunc.
func (g *CPUGauge) Int64(ctx context.Context) (int64, error) {
	v, err := g.Sample(ctx)
	return int64(v), err
}

// Percent converts a load fraction to a percentage rounded up and clamped
// to [0, 100].
func Percent(load float64) int {
	if math.IsNaN(load) || load <= 0 {
		return 0
	}
	p := int(math.Ceil(load * 100))
	return min(p, 100)
}
