// Package observe holds the OpenTelemetry metric instruments used by the
// generator. Instruments are created from a [metric.MeterProvider]; the
// package-level [DefaultMetrics] uses the global provider, which is a no-op
// unless the host program installs one. Tests should use [NewMetrics] with
// their own provider.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for all wikigen metrics.
const meterName = "github.com/tatianab/wikigen"

// Metrics holds the instruments. All fields are safe for concurrent use.
type Metrics struct {
	// LookupRequests counts type lookups. Attribute: status (ok|failed).
	LookupRequests metric.Int64Counter

	// LookupDuration tracks the latency of a single type lookup.
	LookupDuration metric.Float64Histogram

	// RenderDuration tracks how long a full page assembly takes.
	RenderDuration metric.Float64Histogram

	// RenderPasses counts render passes. Attribute: committed (true|false).
	RenderPasses metric.Int64Counter
}

// latencyBuckets are histogram boundaries in seconds.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates all instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.LookupRequests, err = m.Int64Counter("wikigen.lookup.requests",
		metric.WithDescription("Total type lookups by status."),
	); err != nil {
		return nil, err
	}
	if met.LookupDuration, err = m.Float64Histogram("wikigen.lookup.duration",
		metric.WithDescription("Latency of a single type lookup."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RenderDuration, err = m.Float64Histogram("wikigen.render.duration",
		metric.WithDescription("Latency of a full page render."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RenderPasses, err = m.Int64Counter("wikigen.render.passes",
		metric.WithDescription("Total render passes by whether their output was committed."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level Metrics, created on first use from
// [otel.GetMeterProvider]. It panics if instrument creation fails, which does
// not happen with the global provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}
