// Package observe provides the metrics of a practice server: OpenTelemetry
// instruments exported through a Prometheus bridge, plus HTTP middleware
// that records and logs every request.
//
// Tests should build [Metrics] with [NewMetrics] and their own
// [metric.MeterProvider]. A nil *Metrics is valid and records nothing.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "codeberg.org/snonux/theni"

// Metrics holds all OpenTelemetry metric instruments for the application.
type Metrics struct {
	// SessionsStarted counts sessions by attribute.String("mode", ...).
	SessionsStarted metric.Int64Counter

	// SessionsEnded counts finished sessions by mode and outcome.
	SessionsEnded metric.Int64Counter

	// PairsPresented counts pairs that reached the preview phase.
	PairsPresented metric.Int64Counter

	// GeneratorRequests counts generator calls by status:
	// "accepted", "rejected", "error".
	GeneratorRequests metric.Int64Counter

	// GeneratorDuration tracks generator call latency.
	GeneratorDuration metric.Float64Histogram

	// AudioFailures counts failed speech syntheses.
	AudioFailures metric.Int64Counter

	// ActiveSessions is 1 while a session runs.
	ActiveSessions metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP request processing time by method and path.
	HTTPRequestDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider].
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SessionsStarted, err = m.Int64Counter("theni.sessions.started",
		metric.WithDescription("Practice sessions started by mode."),
	); err != nil {
		return nil, err
	}
	if met.SessionsEnded, err = m.Int64Counter("theni.sessions.ended",
		metric.WithDescription("Practice sessions ended by mode and outcome."),
	); err != nil {
		return nil, err
	}
	if met.PairsPresented, err = m.Int64Counter("theni.pairs.presented",
		metric.WithDescription("Word pairs shown to the learner."),
	); err != nil {
		return nil, err
	}
	if met.GeneratorRequests, err = m.Int64Counter("theni.generator.requests",
		metric.WithDescription("Pair generator calls by status."),
	); err != nil {
		return nil, err
	}
	if met.GeneratorDuration, err = m.Float64Histogram("theni.generator.duration",
		metric.WithDescription("Latency of pair generator calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AudioFailures, err = m.Int64Counter("theni.audio.failures",
		metric.WithDescription("Speech syntheses that failed."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSessions, err = m.Int64UpDownCounter("theni.active_sessions",
		metric.WithDescription("Number of running practice sessions."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("theni.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordSessionStarted counts a started session and marks it active.
func (m *Metrics) RecordSessionStarted(ctx context.Context, mode string) {
	if m == nil {
		return
	}
	m.SessionsStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
	m.ActiveSessions.Add(ctx, 1)
}

// RecordSessionEnded counts a finished session and clears the active mark.
func (m *Metrics) RecordSessionEnded(ctx context.Context, mode, outcome string) {
	if m == nil {
		return
	}
	m.SessionsEnded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	))
	m.ActiveSessions.Add(ctx, -1)
}

// RecordPairPresented counts a pair entering its preview.
func (m *Metrics) RecordPairPresented(ctx context.Context, mode string) {
	if m == nil {
		return
	}
	m.PairsPresented.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

// RecordGeneratorRequest counts one generator call and its latency.
func (m *Metrics) RecordGeneratorRequest(ctx context.Context, generator, status string, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("generator", generator),
		attribute.String("status", status),
	)
	m.GeneratorRequests.Add(ctx, 1, attrs)
	m.GeneratorDuration.Record(ctx, seconds, attrs)
}

// RecordAudioFailure counts a failed synthesis.
func (m *Metrics) RecordAudioFailure(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.AudioFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}
