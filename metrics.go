package jobswarm

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the swarm to report
// submission, execution and dispatch activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncSubmitted is called on the owner goroutine for every accepted job.
	IncSubmitted()

	// IncExecuted is called on a worker goroutine when Process returns.
	IncExecuted()

	// IncCancelled is called when Release cancels a job that never started.
	IncCancelled()

	// IncFailed is called on a worker goroutine when Process panics.
	IncFailed()

	// IncDrained adds n dispatched callbacks. It is called once per
	// non-empty Drain.
	IncDrained(n int64)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	// submitted is touched by the owner only.
	submitted atomic.Uint64
	drained   atomic.Uint64

	_ cachePad // keep owner-side counters off the workers' line

	executed  atomic.Uint64
	failed    atomic.Uint64
	cancelled atomic.Uint64
}

func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }
func (m *AtomicMetrics) Executed() uint64  { return m.executed.Load() }
func (m *AtomicMetrics) Cancelled() uint64 { return m.cancelled.Load() }
func (m *AtomicMetrics) Failed() uint64    { return m.failed.Load() }
func (m *AtomicMetrics) Drained() uint64   { return m.drained.Load() }

// Outstanding returns how many submitted jobs have not had their
// callback dispatched yet.
func (m *AtomicMetrics) Outstanding() int64 {
	return int64(m.submitted.Load()) - int64(m.drained.Load())
}

func (m *AtomicMetrics) IncSubmitted() { m.submitted.Add(1) }
func (m *AtomicMetrics) IncExecuted()  { m.executed.Add(1) }
func (m *AtomicMetrics) IncCancelled() { m.cancelled.Add(1) }
func (m *AtomicMetrics) IncFailed()    { m.failed.Add(1) }

func (m *AtomicMetrics) IncDrained(n int64) {
	m.drained.Add(uint64(n))
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
//
// It can be used when metrics collection is disabled and
// zero overhead is desired.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted()      {}
func (m *NoopMetrics) IncExecuted()       {}
func (m *NoopMetrics) IncCancelled()      {}
func (m *NoopMetrics) IncFailed()         {}
func (m *NoopMetrics) IncDrained(n int64) {}
