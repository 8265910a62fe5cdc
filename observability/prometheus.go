package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder records REST client activity as Prometheus metrics in its own
// registry. It satisfies httpclient.Recorder.
type PromRecorder struct {
	registry  *prometheus.Registry
	attempts  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	calls     *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inFlight  prometheus.Gauge
}

// NewPromRecorder creates and registers the client collectors under namespace.
func NewPromRecorder(namespace string) (*PromRecorder, error) {
	r := &PromRecorder{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_attempts_total",
			Help:      "Physical sends, including retries and replays",
		}, []string{"method"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_retries_total",
			Help:      "Backoff waits before a retry",
		}, []string{"method", "reason"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_refreshes_total",
			Help:      "Token refreshes triggered by 401 responses",
		}, []string{"ok"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_calls_total",
			Help:      "Completed logical calls by outcome",
		}, []string{"method", "status", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "client_call_duration_seconds",
			Help:      "Duration of logical calls in seconds, including retries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "client_in_flight",
			Help:      "Logical calls holding a concurrency slot",
		}),
	}

	for name, c := range map[string]prometheus.Collector{
		"client_attempts_total":        r.attempts,
		"client_retries_total":         r.retries,
		"client_refreshes_total":       r.refreshes,
		"client_calls_total":           r.calls,
		"client_call_duration_seconds": r.duration,
		"client_in_flight":             r.inFlight,
	} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", name, err)
		}
	}
	return r, nil
}

// Registry returns the registry holding the client collectors, for exposition
// with promhttp or gathering in tests.
func (r *PromRecorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *PromRecorder) RecordAttempt(_ context.Context, method string, _ int) {
	r.attempts.WithLabelValues(method).Inc()
}

func (r *PromRecorder) RecordRetry(_ context.Context, method string, _ int, _ time.Duration, reason string) {
	r.retries.WithLabelValues(method, reason).Inc()
}

func (r *PromRecorder) RecordRefresh(_ context.Context, ok bool) {
	r.refreshes.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

func (r *PromRecorder) RecordCall(_ context.Context, method string, status int, outcome string, d time.Duration) {
	r.calls.WithLabelValues(method, strconv.Itoa(status), outcome).Inc()
	r.duration.WithLabelValues(method).Observe(d.Seconds())
}

func (r *PromRecorder) RecordInFlight(delta int) {
	r.inFlight.Add(float64(delta))
}
