package prime

import "time"

// Computer runs the prime workload for one request.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Compute never returns nil.
type Computer interface {
	Compute(upto Upto) *Response
}

// Pipeline derives the ceiling, generates load, and computes primes.
type Pipeline struct {
	source Source
	load   *LoadGenerator
	now    func() time.Time
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithClock overrides the clock used to stamp responses.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline drawing ceilings from source.
// A nil source uses NewSource(); a nil load generator uses the defaults.
func NewPipeline(source Source, load *LoadGenerator, opts ...PipelineOption) *Pipeline {
	if source == nil {
		source = NewSource()
	}
	if load == nil {
		load = NewLoadGenerator(LoadConfig{})
	}
	p := &Pipeline{
		source: source,
		load:   load,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Compute runs the full pipeline for upto.
func (p *Pipeline) Compute(upto Upto) *Response {
	ceiling := Ceiling(p.source, MaxNumberFor(upto))

	p.load.Generate()

	return NewResponseAt(PrimesUpTo(ceiling), p.now())
}

// Ensure Pipeline implements Computer
var _ Computer = (*Pipeline)(nil)
