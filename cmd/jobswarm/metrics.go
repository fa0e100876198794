package main

import (
	"context"
	"fmt"
	"io"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Andrej220/go-utils/jobswarm"
	"github.com/Andrej220/go-utils/jobswarm/internal/config"
)

// metricsSink owns the MetricsPolicy handed to every swarm of a command
// and prints its totals at the end.
type metricsSink struct {
	policy jobswarm.MetricsPolicy

	counters *jobswarm.AtomicMetrics
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

func newMetricsSink(kind string) *metricsSink {
	switch kind {
	case config.MetricsAtomic:
		m := &jobswarm.AtomicMetrics{}
		return &metricsSink{policy: m, counters: m}
	case config.MetricsOTel:
		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		return &metricsSink{
			policy:   jobswarm.NewOTelMetricsWithMeter(mp.Meter("jobswarm")),
			reader:   reader,
			provider: mp,
		}
	default:
		return &metricsSink{policy: &jobswarm.NoopMetrics{}}
	}
}

func (m *metricsSink) report(ctx context.Context, w io.Writer) error {
	switch {
	case m.counters != nil:
		c := m.counters
		fmt.Fprintf(w, "submitted=%d executed=%d cancelled=%d failed=%d dispatched=%d\n",
			c.Submitted(), c.Executed(), c.Cancelled(), c.Failed(), c.Drained())
	case m.reader != nil:
		var rm metricdata.ResourceMetrics
		if err := m.reader.Collect(ctx, &rm); err != nil {
			return fmt.Errorf("failed to collect metrics: %w", err)
		}
		for _, sm := range rm.ScopeMetrics {
			for _, metric := range sm.Metrics {
				sum, ok := metric.Data.(metricdata.Sum[int64])
				if !ok {
					continue
				}
				var total int64
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
				fmt.Fprintf(w, "%s=%d\n", metric.Name, total)
			}
		}
	}
	return nil
}

func (m *metricsSink) shutdown(ctx context.Context) error {
	if m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
