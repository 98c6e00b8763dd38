// Package dispatch schedules the prime pipeline with one of several
// concurrency strategies.
//
// Every strategy runs the same prime.Computer and produces the same payload;
// they differ only in which goroutine does the work and how the waiting
// request is resumed:
//
//   - Synchronous: the request goroutine computes the response itself.
//   - Executor: the work is submitted to the shared pool and the request
//     goroutine blocks on the result.
//   - Async: a fire-and-forget task on the shared pool resumes a
//     Completion that the request goroutine is parked on.
//   - ManagedAsync: the dispatcher starts its own goroutine for the work
//     and that goroutine resumes the Completion.
//   - AsyncFuture: the work is supplied to the shared pool as a Future and
//     a completion callback resumes the request.
//
// A Completion resumes its waiter exactly once. A second Resume or Fail
// returns ErrAlreadyCompleted.
package dispatch
