// Package prime implements the CPU-bound workload served by the harness.
//
// A request flows through a Pipeline: the requested bound is clamped to
// [MinNumber, MaxNumber], a sieve ceiling is drawn uniformly from
// [MinNumber, bound], a LoadGenerator burns allocation and comparison-sort
// time, and PrimesUpTo computes every prime up to the ceiling by trial
// division. The result is wrapped in a Response stamped with the wall clock.
//
// Trial division is used on purpose. The work should grow with the ceiling
// so that load tests can dial CPU cost through the upto parameter.
//
//	p := prime.NewPipeline(prime.NewSource(), prime.NewLoadGenerator(prime.LoadConfig{}))
//	resp := p.Compute(prime.UptoOf(50000))
//	fmt.Println(len(resp.Primes) > 0)
package prime
