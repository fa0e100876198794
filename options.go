package jobswarm

import (
	"context"
	"runtime"
)

// Options configure a Swarm.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is the fixed number of worker goroutines.
	Workers int

	// QueueCapacity is the initial capacity of the pending and completion
	// queues. Both grow on demand; the swarm never bounds queue depth.
	QueueCapacity int

	// PinWorkers locks every worker to an OS thread pinned to one CPU.
	PinWorkers bool

	// Metrics receives lifecycle counters. Defaults to NoopMetrics.
	Metrics MetricsPolicy

	// OnJobError is called from a worker goroutine when Process panics.
	OnJobError func(error)

	// OnInternalError is called for failures that are not tied to a job.
	OnInternalError func(error)

	// Ctx carries the logger used by the swarm.
	Ctx context.Context
}

func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = initialFifoCapacity
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
}
