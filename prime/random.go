package prime

import (
	"math/rand/v2"
	"sync"
)

// Source draws bounded random integers.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - IntN panics if n <= 0, matching math/rand/v2.
type Source interface {
	IntN(n int) int
}

// globalSource delegates to the math/rand/v2 top-level generator, which is
// already safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int {
	// #nosec G404 -- workload randomness, not security sensitive.
	return rand.IntN(n)
}

// NewSource returns the process-wide, concurrency-safe random source.
func NewSource() Source {
	return globalSource{}
}

// LockedSource is a seeded, mutex-guarded Source. Use it when draws must be
// reproducible, for example to compare dispatch strategies.
type LockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource creates a LockedSource seeded with seed.
func NewSeededSource(seed uint64) *LockedSource {
	return &LockedSource{
		// #nosec G404 -- workload randomness, not security sensitive.
		r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// IntN returns a value in [0, n).
func (s *LockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Ensure LockedSource implements Source
var _ Source = (*LockedSource)(nil)
