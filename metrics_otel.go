package jobswarm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for swarm metrics.
const meterName = "github.com/Andrej220/go-utils/jobswarm"

// OTelMetrics is a MetricsPolicy that records swarm activity through
// OpenTelemetry counters.
//
// Instruments:
//   - jobswarm.jobs.submitted
//   - jobswarm.jobs.executed
//   - jobswarm.jobs.cancelled
//   - jobswarm.jobs.failed
//   - jobswarm.callbacks.dispatched
type OTelMetrics struct {
	submitted metric.Int64Counter
	executed  metric.Int64Counter
	cancelled metric.Int64Counter
	failed    metric.Int64Counter
	drained   metric.Int64Counter
}

// NewOTelMetrics uses the global MeterProvider. If none is configured the
// counters are noops.
func NewOTelMetrics() *OTelMetrics {
	return NewOTelMetricsWithMeter(otel.Meter(meterName))
}

// NewOTelMetricsWithMeter allows injecting a specific meter for testing.
func NewOTelMetricsWithMeter(meter metric.Meter) *OTelMetrics {
	// On error the API hands back noop instruments, so they are safe to use.
	counter := func(name, desc string) metric.Int64Counter {
		c, _ := meter.Int64Counter(name,
			metric.WithDescription(desc),
			metric.WithUnit("{job}"),
		)
		return c
	}
	return &OTelMetrics{
		submitted: counter("jobswarm.jobs.submitted", "Jobs accepted by Submit"),
		executed:  counter("jobswarm.jobs.executed", "Jobs whose Process returned"),
		cancelled: counter("jobswarm.jobs.cancelled", "Jobs cancelled before a worker picked them up"),
		failed:    counter("jobswarm.jobs.failed", "Jobs whose Process panicked"),
		drained:   counter("jobswarm.callbacks.dispatched", "Callbacks fired by Drain"),
	}
}

func (m *OTelMetrics) IncSubmitted() { m.submitted.Add(context.Background(), 1) }
func (m *OTelMetrics) IncExecuted()  { m.executed.Add(context.Background(), 1) }
func (m *OTelMetrics) IncCancelled() { m.cancelled.Add(context.Background(), 1) }
func (m *OTelMetrics) IncFailed()    { m.failed.Add(context.Background(), 1) }

func (m *OTelMetrics) IncDrained(n int64) {
	m.drained.Add(context.Background(), n)
}
