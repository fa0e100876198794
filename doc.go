// Package jobswarm provides a job-dispatch engine that lets a single
// owner goroutine fan out independent units of work to a fixed pool of
// workers and collect their completions without taking any lock in user
// code.
//
// # Design goals
//
// The package is designed around the following principles:
//
//   - Completion logic runs single-threaded on the owner
//   - Work runs truly in parallel on the workers
//   - The owner never blocks in Submit or Drain
//   - Every job is resolved exactly once, even on shutdown
//
// # Architecture overview
//
// A Swarm is composed of four parts:
//
//  1. Pending queue
//     A mutex and condition-variable FIFO. The owner appends, workers
//     park on the condition until a job arrives.
//
//  2. Workers
//     N long-lived goroutines. Each pops one job, runs Process, marks the
//     job resolved and pushes it to the completion queue.
//
//  3. Completion queue
//     Resolved jobs in the order workers finished them. Only the owner
//     reads it, by taking a snapshot in Drain.
//
//  4. Owner API
//     Submit, Drain and Release. Drain fires OnFinish, OnCancel or OnFail
//     for each job of its snapshot, synchronously, on the calling goroutine.
//
// Job lifecycle
//
//	Pending ──► Running ──► Completed   (OnFinish)
//	   │           └──────► Failed      (OnFail, or OnCancel)
//	   └──────────────────► Cancelled   (OnCancel)
//
// Cancellation only happens in Release and only preempts jobs no worker
// has picked up. A job that started always runs to the end.
//
// # Ownership
//
// Payloads and handlers are borrowed. The swarm never looks inside a
// payload; the caller keeps both alive until the job's callback fired.
// Process implementations that share an output buffer must partition it,
// usually by tag, because no lock is held around Process.
//
// Only one goroutine may act as the owner. Go has no goroutine identity,
// so the swarm detects overlapping owner calls instead and reports them
// as ErrConcurrentOwner or ErrReentrantDrain.
//
// Error handling
//
//   - A panic in Process is recovered at the worker boundary. The job
//     becomes Failed and the worker keeps serving.
//   - A panic in a callback is recovered by Drain, which still dispatches
//     the rest of its snapshot and returns the panics as *CallbackError.
//   - Misuse is reported through sentinel errors.
//
// The core never retries. Retry layers resubmission with backoff on top.
//
// # Backpressure
//
// The pending queue is unbounded. Callers that generate work faster than
// workers consume it use a Spooler, which holds a counting semaphore of
// outstanding jobs and drains, then blocks on Swarm.Ready, when the
// ceiling is reached.
//
// Typical use
//
//	s, err := jobswarm.New[[]byte](8)
//	if err != nil {
//	    return err
//	}
//	sp := jobswarm.NewSpooler(s, 256)
//	for i := range tiles {
//	    if err := sp.Submit(ctx, solver, image, i); err != nil {
//	        return err
//	    }
//	}
//	if err := sp.Wait(ctx); err != nil {
//	    return err
//	}
//	return s.Release()
//
// # CPU pinning
//
// On Linux, workers may optionally be pinned to specific CPUs.
// When enabled, workers are locked to OS threads and restricted
// to run on a single CPU core.
package jobswarm
