package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Client instrument names.
const (
	MetricClientAttempts  = "netkit.client.attempts"
	MetricClientRetries   = "netkit.client.retries"
	MetricClientRefreshes = "netkit.client.refreshes"
	MetricClientCalls     = "netkit.client.calls"
	MetricClientDuration  = "netkit.client.duration"
	MetricClientInFlight  = "netkit.client.in_flight"
)

// ClientRecorder records REST client activity as OpenTelemetry metrics and
// span events. It satisfies httpclient.Recorder.
type ClientRecorder struct {
	client    string
	attempts  metric.Int64Counter
	retries   metric.Int64Counter
	refreshes metric.Int64Counter
	calls     metric.Int64Counter
	duration  metric.Float64Histogram
	inFlight  metric.Int64UpDownCounter
}

// NewClientRecorder creates the client instruments on meter. client labels
// every measurement so several clients can share one meter.
func NewClientRecorder(meter metric.Meter, client string) (*ClientRecorder, error) {
	attempts, err := meter.Int64Counter(MetricClientAttempts,
		metric.WithDescription("Physical sends, including retries and replays"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricClientAttempts, err)
	}

	retries, err := meter.Int64Counter(MetricClientRetries,
		metric.WithDescription("Backoff waits before a retry"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricClientRetries, err)
	}

	refreshes, err := meter.Int64Counter(MetricClientRefreshes,
		metric.WithDescription("Token refreshes triggered by 401 responses"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricClientRefreshes, err)
	}

	calls, err := meter.Int64Counter(MetricClientCalls,
		metric.WithDescription("Completed logical calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricClientCalls, err)
	}

	duration, err := meter.Float64Histogram(MetricClientDuration,
		metric.WithDescription("Duration of logical calls in seconds, including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricClientDuration, err)
	}

	inFlight, err := meter.Int64UpDownCounter(MetricClientInFlight,
		metric.WithDescription("Logical calls holding a concurrency slot"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricClientInFlight, err)
	}

	return &ClientRecorder{
		client:    client,
		attempts:  attempts,
		retries:   retries,
		refreshes: refreshes,
		calls:     calls,
		duration:  duration,
		inFlight:  inFlight,
	}, nil
}

// RecordAttempt counts a physical send and marks it on the active span.
func (r *ClientRecorder) RecordAttempt(ctx context.Context, method string, attempt int) {
	r.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", r.client),
		attribute.String("method", method),
	))
	trace.SpanFromContext(ctx).AddEvent("attempt", trace.WithAttributes(attribute.Int("attempt", attempt)))
}

// RecordRetry counts a backoff wait.
func (r *ClientRecorder) RecordRetry(ctx context.Context, method string, _ int, _ time.Duration, reason string) {
	r.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", r.client),
		attribute.String("method", method),
		attribute.String("reason", reason),
	))
}

// RecordRefresh counts a 401-triggered refresh and whether it succeeded.
func (r *ClientRecorder) RecordRefresh(ctx context.Context, ok bool) {
	r.refreshes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", r.client),
		attribute.Bool("ok", ok),
	))
}

// RecordCall records the outcome and duration of a logical call.
func (r *ClientRecorder) RecordCall(ctx context.Context, method string, status int, outcome string, d time.Duration) {
	r.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", r.client),
		attribute.String("method", method),
		attribute.String(AttrStatus, strconv.Itoa(status)),
		attribute.String("outcome", outcome),
	))
	r.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("client", r.client),
		attribute.String("method", method),
	))
}

// RecordInFlight moves the in-flight gauge by delta.
func (r *ClientRecorder) RecordInFlight(delta int) {
	r.inFlight.Add(context.Background(), int64(delta), metric.WithAttributes(
		attribute.String("client", r.client),
	))
}
