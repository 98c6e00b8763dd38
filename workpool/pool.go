package workpool

import (
	"context"
	"fmt"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Config configures a Pool.
type Config struct {
	// MinWorkers is the number of workers kept alive while idle.
	// Default: 1
	MinWorkers int

	// MaxWorkers is the upper bound on concurrent workers.
	// Default: runtime.NumCPU()
	MaxWorkers int

	// QueueSize is the capacity of the pending task queue.
	// Default: 4096
	QueueSize int

	// KeepAlive is how long a worker above MinWorkers may stay idle.
	// Default: 60 seconds
	KeepAlive time.Duration

	// NamePattern names workers; "%d" is replaced with the worker number.
	// Default: "worker-%d"
	NamePattern string
}

// Pool runs tasks on a bounded set of goroutines.
type Pool struct {
	config Config
	tasks  chan item
	wg     sync.WaitGroup

	mu      sync.Mutex
	workers int
	idle    int
	peak    int
	seq     int
	closed  bool

	completed atomic.Int64
	rejected  atomic.Int64
}

// New creates a pool and starts MinWorkers workers.
func New(config Config) *Pool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = runtime.NumCPU()
	}
	if config.MaxWorkers < 1 {
		config.MaxWorkers = 1
	}
	if config.MinWorkers <= 0 {
		config.MinWorkers = 1
	}
	if config.MinWorkers > config.MaxWorkers {
		config.MinWorkers = config.MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 4096
	}
	if config.KeepAlive <= 0 {
		config.KeepAlive = 60 * time.Second
	}
	if config.NamePattern == "" {
		config.NamePattern = "worker-%d"
	}

	p := &Pool{
		config: config,
		tasks:  make(chan item, config.QueueSize),
	}

	p.mu.Lock()
	for i := 0; i < config.MinWorkers; i++ {
		p.startWorkerLocked(false)
	}
	p.mu.Unlock()

	return p
}

// Execute queues task for execution and returns immediately.
// A panicking task is recovered and counted as completed.
func (p *Pool) Execute(task func()) error {
	return p.enqueue(func() {
		defer func() { _ = recover() }()
		task()
	})
}

// item is a queued task. reserved marks a task that claimed a waiting
// worker, or started a new one, when it was queued.
type item struct {
	fn       func()
	reserved bool
}

// enqueue queues fn. Invariant: waiting workers == idle + reserved items
// still in the queue.
func (p *Pool) enqueue(fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.rejected.Add(1)
		return ErrPoolClosed
	}
	if len(p.tasks) == cap(p.tasks) {
		p.rejected.Add(1)
		return ErrQueueFull
	}

	it := item{fn: fn}
	switch {
	case p.idle > 0:
		p.idle--
		it.reserved = true
	case p.workers < p.config.MaxWorkers:
		p.startWorkerLocked(true)
		it.reserved = true
	}

	// Only workers drain the queue concurrently, so this cannot block.
	p.tasks <- it
	return nil
}

func (p *Pool) startWorkerLocked(reserved bool) {
	p.workers++
	p.seq++
	if p.workers > p.peak {
		p.peak = p.workers
	}
	p.wg.Add(1)
	go p.work(p.workerName(p.seq), reserved)
}

func (p *Pool) workerName(n int) string {
	if strings.Contains(p.config.NamePattern, "%d") {
		return fmt.Sprintf(p.config.NamePattern, n)
	}
	return fmt.Sprintf("%s-%d", p.config.NamePattern, n)
}

// work is the worker loop. Go has no thread names, so the worker name is
// attached as a pprof goroutine label and shows up in goroutine dumps.
func (p *Pool) work(name string, reserved bool) {
	defer p.wg.Done()
	pprof.SetGoroutineLabels(pprof.WithLabels(context.Background(), pprof.Labels("worker", name)))

	timer := time.NewTimer(p.config.KeepAlive)
	defer timer.Stop()

	countIdle := !reserved
	for {
		if countIdle {
			p.mu.Lock()
			p.idle++
			p.mu.Unlock()
		}

		select {
		case it, ok := <-p.tasks:
			if !ok {
				p.mu.Lock()
				p.workers--
				p.mu.Unlock()
				return
			}
			if !it.reserved {
				p.mu.Lock()
				p.idle--
				p.mu.Unlock()
			}

			it.fn()
			p.completed.Add(1)
			countIdle = true
			timer.Reset(p.config.KeepAlive)

		case <-timer.C:
			p.mu.Lock()
			if p.idle > 0 && p.workers > p.config.MinWorkers {
				p.idle--
				p.workers--
				p.mu.Unlock()
				return
			}
			p.mu.Unlock()
			countIdle = false
			timer.Reset(p.config.KeepAlive)
		}
	}
}

// Shutdown stops accepting tasks, lets queued tasks drain, and waits for
// the workers to exit or ctx to end. It is safe to call more than once.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current pool statistics.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Workers:     p.workers,
		Idle:        max(p.idle, 0),
		PeakWorkers: p.peak,
		MaxWorkers:  p.config.MaxWorkers,
		Queued:      len(p.tasks),
		Completed:   p.completed.Load(),
		Rejected:    p.rejected.Load(),
	}
}

// Config returns the effective configuration.
func (p *Pool) Config() Config {
	return p.config
}

// Stats contains pool statistics.
type Stats struct {
	Workers     int
	Idle        int
	PeakWorkers int
	MaxWorkers  int
	Queued      int
	Completed   int64
	Rejected    int64
}
