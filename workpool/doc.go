// Package workpool provides a bounded, process-wide worker pool and futures.
//
// A Pool keeps MinWorkers goroutines running and grows on demand up to
// MaxWorkers. Workers above the minimum exit after KeepAlive of idleness.
// Tasks wait in a bounded queue; when it is full, submission is rejected.
//
// # Submitting work
//
//	pool := workpool.New(workpool.Config{MaxWorkers: runtime.NumCPU()})
//	defer pool.Shutdown(ctx)
//
//	// Fire and forget
//	_ = pool.Execute(func() { doWork() })
//
//	// Block for a result
//	v, err := workpool.Submit(pool, compute).Await(ctx)
//
//	// Compose
//	f := workpool.Then(workpool.Supply(pool, load), render)
//	f.OnComplete(func(v string, err error) { ... })
//
// Saturation of the pool is an intended load-testing variable. Tasks are
// never cancelled; Await only stops waiting.
package workpool
